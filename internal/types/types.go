// Package types defines every cross‑package data structure used by the autoreadme CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	CommandGenerate  = "generate"
	CommandStructure = "structure"
	CommandInit      = "init"

	FeatureFolderStructure   = "folderStructure"
	FeatureExtraction        = "featureExtraction"
	FeatureAPIRoutes         = "apiRoutes"
	FeatureScreenshots       = "screenshots"
	FeatureInstallCommands   = "installCommands"
	FeatureContributingGuide = "contributingGuide"

	RouteTypeExpress = "express"
	RouteTypeNextJS  = "nextjs"
	RouteTypeFastAPI = "fastapi"
	RouteTypeGo      = "go"

	ApplicationTypeBackend  = "backend"
	ApplicationTypeFrontend = "frontend"
	ApplicationTypeMobile   = "mobile"
	ApplicationTypeAdmin    = "admin"
	ApplicationTypeProvider = "provider"
	ApplicationTypeUser     = "user"
	ApplicationTypeDocs     = "docs"
	ApplicationTypeMain     = "main"

	EcosystemNode   = "node"
	EcosystemGo     = "go"
	EcosystemPython = "python"
	EcosystemRust   = "rust"
)

// DefaultFeatures lists the README sections enabled when configuration is silent.
var DefaultFeatures = []string{
	FeatureFolderStructure,
	FeatureExtraction,
	FeatureAPIRoutes,
	FeatureScreenshots,
	FeatureInstallCommands,
	FeatureContributingGuide,
}

// PackageInfo mirrors the fields of package.json used by the README renderer.
type PackageInfo struct {
	Name            string            `json:"name,omitempty"`
	Version         string            `json:"version,omitempty"`
	Description     string            `json:"description,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// AllDependencies merges runtime and development dependencies.
func (info *PackageInfo) AllDependencies() map[string]string {
	merged := map[string]string{}
	if info == nil {
		return merged
	}
	for name, version := range info.Dependencies {
		merged[name] = version
	}
	for name, version := range info.DevDependencies {
		merged[name] = version
	}
	return merged
}

// Route is one HTTP endpoint declaration found in source code.
type Route struct {
	Method string
	Path   string
	Type   string
	File   string
}

// MethodRoutes groups routes sharing an HTTP method.
type MethodRoutes struct {
	Method string
	Routes []Route
}

// Screenshot is an image found under a conventional screenshot directory.
type Screenshot struct {
	Name     string
	Path     string
	Filename string
}

// ApplicationInfo describes one application inside a project.
type ApplicationInfo struct {
	Name        string
	Type        string
	Path        string
	Framework   string
	Features    []string
	Description string
	PackageInfo *PackageInfo
}

// DeploymentInfo records deployment tooling present in the project.
type DeploymentInfo struct {
	Docker          bool
	DockerCompose   bool
	ComposeServices []string
	Vercel          bool
	Netlify         bool
	GitHubActions   bool
}

// Any reports whether any deployment tooling was detected.
func (info DeploymentInfo) Any() bool {
	return info.Docker || info.DockerCompose || info.Vercel || info.Netlify || info.GitHubActions
}

// ProjectStructure is the result of project analysis.
type ProjectStructure struct {
	Type             string
	Applications     []ApplicationInfo
	MainTechnologies []string
	HasBackend       bool
	HasFrontend      bool
	HasMobile        bool
	Databases        []string
	Deployment       DeploymentInfo
}

// ProjectInfo aggregates everything the README renderer needs.
type ProjectInfo struct {
	ProjectName       string
	Description       string
	Features          []string
	License           string
	FolderStructure   string
	ExtractedFeatures []string
	APIRoutes         []MethodRoutes
	Screenshots       []Screenshot
	PackageInfo       *PackageInfo
	ProjectStructure  *ProjectStructure
	GitURL            string
	Ecosystems        []string
	Checksum          string
}

// HasFeature reports whether the named README section is enabled.
func (info ProjectInfo) HasFeature(feature string) bool {
	for _, enabled := range info.Features {
		if enabled == feature {
			return true
		}
	}
	return false
}

// GenerateResult reports the outcome of a README generation request.
type GenerateResult struct {
	Updated  bool
	Path     string
	Content  string
	Checksum string
}
