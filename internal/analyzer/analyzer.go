// Package analyzer inspects a project's layout and manifests to describe its
// applications, technologies, databases and deployment tooling.
package analyzer

import (
	"context"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/autoreadme/internal/scan"
	"github.com/temirov/autoreadme/internal/types"
	"github.com/temirov/autoreadme/internal/utils"
)

const (
	// ProjectTypeUnknown is reported when no application could be analyzed.
	ProjectTypeUnknown = "Unknown Project Type"

	projectTypeFullStackMultiPlatform = "Full-Stack Multi-Platform"
	projectTypeFullStackWeb           = "Full-Stack Web Application"
	projectTypeBackendMobile          = "Backend + Mobile Application"
	projectTypeMultiApplication       = "Multi-Application Project"
	projectTypeBackendAPI             = "Backend API"
	projectTypeFrontendWeb            = "Frontend Web Application"
	projectTypeMobile                 = "Mobile Application"
	projectTypeSingleApplication      = "Single Application"

	databaseMongo         = "MongoDB"
	databaseMySQL         = "MySQL"
	databaseMariaDB       = "MariaDB"
	databasePostgres      = "PostgreSQL"
	databaseSQLite        = "SQLite"
	databaseRedis         = "Redis"
	databaseElasticsearch = "Elasticsearch"

	dockerfileName        = "Dockerfile"
	vercelConfigFileName  = "vercel.json"
	netlifyConfigFileName = "netlify.toml"
	githubWorkflowsPath   = ".github/workflows"
	errorAnalyzeMessage   = "project analysis failed"
	warningComposeMessage = "skipping unreadable compose file"
	rootLogFieldKey       = "root"
	directoryLogFieldKey  = "directory"
)

type technologyIndicator struct {
	paths      []string
	technology string
}

// technologyIndicators are matched against project-relative paths.
var technologyIndicators = []technologyIndicator{
	{paths: []string{packageManifestFileName}, technology: "Node.js"},
	{paths: []string{requirementsFileName, setupScriptFileName, pyProjectFileName}, technology: "Python"},
	{paths: []string{goModuleFileName}, technology: "Go"},
	{paths: []string{cargoManifestFileName}, technology: "Rust"},
	{paths: []string{mavenFileName}, technology: "Java"},
	{paths: []string{"composer.json"}, technology: "PHP"},
	{paths: []string{dockerfileName}, technology: "Docker"},
	{paths: composeFileNames, technology: "Docker Compose"},
	{paths: []string{githubWorkflowsPath}, technology: "GitHub Actions"},
	{paths: []string{vercelConfigFileName}, technology: "Vercel"},
	{paths: []string{netlifyConfigFileName}, technology: "Netlify"},
}

// databaseRules map dependencies across ecosystems to database labels.
var databaseRules = []dependencyRule{
	{dependencies: []string{"mongoose", "mongodb", "go.mongodb.org/mongo-driver", "pymongo", "motor"}, label: databaseMongo},
	{dependencies: []string{"mysql", "mysql2", "github.com/go-sql-driver/mysql", "pymysql", "mysqlclient"}, label: databaseMySQL},
	{dependencies: []string{"pg", "postgresql", "github.com/lib/pq", "github.com/jackc/pgx", "psycopg2", "psycopg2-binary", "asyncpg", "tokio-postgres"}, label: databasePostgres},
	{dependencies: []string{"sqlite3", "better-sqlite3", "github.com/mattn/go-sqlite3", "modernc.org/sqlite", "rusqlite"}, label: databaseSQLite},
	{dependencies: []string{"redis", "ioredis", "github.com/redis/go-redis", "github.com/go-redis/redis"}, label: databaseRedis},
}

// Report is the outcome of one analysis pass.
type Report struct {
	Structure types.ProjectStructure
	// Ecosystems lists the ecosystems with a manifest at the project root.
	Ecosystems []string
	// PackageInfo is the root package.json, when present.
	PackageInfo *types.PackageInfo
}

// Analyzer describes the project rooted at Root.
type Analyzer struct {
	Root           string
	IgnorePatterns []string
	FileSystem     afero.Fs
	Logger         *zap.Logger
}

// Analyze never fails: an unreadable project yields a report with
// ProjectTypeUnknown and no applications.
func (analyzer *Analyzer) Analyze(ctx context.Context) Report {
	logger := utils.LoggerOrNop(analyzer.Logger)
	fileSystem := analyzer.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	report := Report{Structure: types.ProjectStructure{Type: ProjectTypeUnknown}}

	relativePaths, enumerateError := scan.Enumerate(ctx, analyzer.Root, scan.Options{
		IgnorePatterns:     analyzer.IgnorePatterns,
		IncludeDirectories: true,
		FileSystem:         fileSystem,
		Logger:             logger,
	})
	if enumerateError != nil {
		logger.Error(errorAnalyzeMessage, zap.String(rootLogFieldKey, analyzer.Root), zap.Error(enumerateError))
		return report
	}
	pathSet := make(map[string]struct{}, len(relativePaths))
	for _, relativePath := range relativePaths {
		pathSet[relativePath] = struct{}{}
	}

	rootManifests := detectManifests(fileSystem, analyzer.Root, logger)
	for _, manifest := range rootManifests {
		report.Ecosystems = append(report.Ecosystems, manifest.Ecosystem)
		if manifest.PackageInfo != nil {
			report.PackageInfo = manifest.PackageInfo
		}
	}

	structure := &report.Structure
	structure.Applications = analyzer.detectApplications(fileSystem, relativePaths, logger)
	structure.Type = determineProjectType(structure.Applications)
	structure.MainTechnologies = detectTechnologies(pathSet)
	for _, application := range structure.Applications {
		switch application.Type {
		case types.ApplicationTypeBackend:
			structure.HasBackend = true
		case types.ApplicationTypeFrontend:
			structure.HasFrontend = true
		case types.ApplicationTypeMobile:
			structure.HasMobile = true
		}
	}

	compose, hasCompose, composeError := readComposeServices(fileSystem, analyzer.Root)
	if composeError != nil {
		logger.Warn(warningComposeMessage, zap.String(directoryLogFieldKey, analyzer.Root), zap.Error(composeError))
	}
	structure.Databases = analyzer.detectDatabases(fileSystem, relativePaths, compose.images, logger)
	structure.Deployment = detectDeployment(pathSet, relativePaths, hasCompose, compose.names)
	return report
}

// detectApplications classifies top-level directories, falling back to the
// project root as a single main application.
func (analyzer *Analyzer) detectApplications(fileSystem afero.Fs, relativePaths []string, logger *zap.Logger) []types.ApplicationInfo {
	var applications []types.ApplicationInfo
	for _, relativePath := range relativePaths {
		if strings.Contains(relativePath, utils.PathSegmentSeparator) {
			continue
		}
		applicationType, matched := classifyDirectory(relativePath)
		if !matched {
			continue
		}
		if isDirectory, _ := afero.IsDir(fileSystem, filepath.Join(analyzer.Root, relativePath)); !isDirectory {
			continue
		}
		applications = append(applications, analyzeApplication(fileSystem, analyzer.Root, relativePath, applicationType, logger))
	}
	if len(applications) == 0 {
		applications = append(applications, analyzeApplication(fileSystem, analyzer.Root, rootApplicationPath, types.ApplicationTypeMain, logger))
	}
	return applications
}

func determineProjectType(applications []types.ApplicationInfo) string {
	switch {
	case len(applications) > 1:
		applicationTypes := map[string]bool{}
		for _, application := range applications {
			applicationTypes[application.Type] = true
		}
		hasBackend := applicationTypes[types.ApplicationTypeBackend]
		hasFrontend := applicationTypes[types.ApplicationTypeFrontend]
		hasMobile := applicationTypes[types.ApplicationTypeMobile]
		switch {
		case hasBackend && hasFrontend && hasMobile:
			return projectTypeFullStackMultiPlatform
		case hasBackend && hasFrontend:
			return projectTypeFullStackWeb
		case hasBackend && hasMobile:
			return projectTypeBackendMobile
		default:
			return projectTypeMultiApplication
		}
	case len(applications) == 1:
		switch applications[0].Type {
		case types.ApplicationTypeBackend:
			return projectTypeBackendAPI
		case types.ApplicationTypeFrontend:
			return projectTypeFrontendWeb
		case types.ApplicationTypeMobile:
			return projectTypeMobile
		default:
			return projectTypeSingleApplication
		}
	}
	return ProjectTypeUnknown
}

func detectTechnologies(pathSet map[string]struct{}) []string {
	var technologies []string
	for _, indicator := range technologyIndicators {
		for _, indicatorPath := range indicator.paths {
			if _, present := pathSet[indicatorPath]; present {
				technologies = append(technologies, indicator.technology)
				break
			}
		}
	}
	return technologies
}

// detectDatabases inspects every manifest directory in the project plus the
// root compose file images.
func (analyzer *Analyzer) detectDatabases(fileSystem afero.Fs, relativePaths []string, composeImages []string, logger *zap.Logger) []string {
	knownManifests := manifestFileNames()
	manifestDirectories := map[string]struct{}{}
	for _, relativePath := range relativePaths {
		if _, isManifest := knownManifests[path.Base(relativePath)]; isManifest {
			manifestDirectories[path.Dir(relativePath)] = struct{}{}
		}
	}
	orderedDirectories := make([]string, 0, len(manifestDirectories))
	for directory := range manifestDirectories {
		orderedDirectories = append(orderedDirectories, directory)
	}
	sort.Strings(orderedDirectories)

	var databases []string
	for _, directory := range orderedDirectories {
		for _, manifest := range detectManifests(fileSystem, filepath.Join(analyzer.Root, filepath.FromSlash(directory)), logger) {
			databases = append(databases, allMatchingRules(databaseRules, manifest.DependencyNames())...)
		}
	}
	for _, image := range composeImages {
		if label := imageDatabase(image); label != "" {
			databases = append(databases, label)
		}
	}
	return utils.DeduplicatePatterns(databases)
}

func detectDeployment(pathSet map[string]struct{}, relativePaths []string, hasCompose bool, composeServiceNames []string) types.DeploymentInfo {
	_, hasDockerfile := pathSet[dockerfileName]
	_, hasVercel := pathSet[vercelConfigFileName]
	_, hasNetlify := pathSet[netlifyConfigFileName]
	deployment := types.DeploymentInfo{
		Docker:          hasDockerfile,
		DockerCompose:   hasCompose,
		ComposeServices: composeServiceNames,
		Vercel:          hasVercel,
		Netlify:         hasNetlify,
	}
	for _, relativePath := range relativePaths {
		if strings.Contains(relativePath, githubWorkflowsPath) {
			deployment.GitHubActions = true
			break
		}
	}
	return deployment
}
