package analyzer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/autoreadme/internal/types"
)

const (
	rootApplicationPath = "."

	frameworkUnknown = "Unknown"
	frameworkNode    = "Node.js"
	frameworkGo      = "Go"
	frameworkPython  = "Python"
	frameworkRust    = "Rust"
	frameworkMaven   = "Java/Maven"
	mavenFileName    = "pom.xml"

	defaultApplicationFeature = "Core Functionality"
	reactNativeMarker         = "React Native"
)

type applicationPattern struct {
	pattern         *regexp.Regexp
	applicationType string
}

// applicationPatterns classify top-level directories; the first match wins.
var applicationPatterns = []applicationPattern{
	{pattern: regexp.MustCompile(`(?i)^(backend|server|api)$`), applicationType: types.ApplicationTypeBackend},
	{pattern: regexp.MustCompile(`(?i)^(frontend|client|web)$`), applicationType: types.ApplicationTypeFrontend},
	{pattern: regexp.MustCompile(`(?i)^(mobile|app|react-native)$`), applicationType: types.ApplicationTypeMobile},
	{pattern: regexp.MustCompile(`(?i)^(admin|dashboard)$`), applicationType: types.ApplicationTypeAdmin},
	{pattern: regexp.MustCompile(`(?i)^(provider|vendor).*app$`), applicationType: types.ApplicationTypeProvider},
	{pattern: regexp.MustCompile(`(?i)^(traveler|user|customer).*app$`), applicationType: types.ApplicationTypeUser},
	{pattern: regexp.MustCompile(`(?i)^(docs|documentation)$`), applicationType: types.ApplicationTypeDocs},
}

type dependencyRule struct {
	dependencies []string
	label        string
}

// nodeFrameworkRules are checked in order against package.json dependencies.
var nodeFrameworkRules = []dependencyRule{
	{dependencies: []string{"react-native", "expo"}, label: "React Native/Expo"},
	{dependencies: []string{"flutter"}, label: "Flutter"},
	{dependencies: []string{"ionic"}, label: "Ionic"},
	{dependencies: []string{"next"}, label: "Next.js"},
	{dependencies: []string{"react"}, label: "React"},
	{dependencies: []string{"vue"}, label: "Vue.js"},
	{dependencies: []string{"angular"}, label: "Angular"},
	{dependencies: []string{"svelte"}, label: "Svelte"},
	{dependencies: []string{"express"}, label: "Node.js/Express"},
	{dependencies: []string{"fastify"}, label: "Node.js/Fastify"},
	{dependencies: []string{"koa"}, label: "Node.js/Koa"},
	{dependencies: []string{"nestjs", "@nestjs/core"}, label: "NestJS"},
}

var pythonFrameworkRules = []dependencyRule{
	{dependencies: []string{"fastapi"}, label: "Python/FastAPI"},
	{dependencies: []string{"django"}, label: "Python/Django"},
	{dependencies: []string{"flask"}, label: "Python/Flask"},
}

var goFrameworkRules = []dependencyRule{
	{dependencies: []string{"github.com/gin-gonic/gin"}, label: "Go/Gin"},
	{dependencies: []string{"github.com/labstack/echo"}, label: "Go/Echo"},
	{dependencies: []string{"github.com/go-chi/chi"}, label: "Go/Chi"},
	{dependencies: []string{"github.com/gofiber/fiber"}, label: "Go/Fiber"},
	{dependencies: []string{"github.com/spf13/cobra"}, label: "Go/Cobra CLI"},
}

var rustFrameworkRules = []dependencyRule{
	{dependencies: []string{"actix-web"}, label: "Rust/Actix"},
	{dependencies: []string{"axum"}, label: "Rust/Axum"},
	{dependencies: []string{"rocket"}, label: "Rust/Rocket"},
}

// applicationFeatureRules map dependencies across ecosystems to feature labels.
var applicationFeatureRules = []dependencyRule{
	{dependencies: []string{"passport", "jsonwebtoken", "auth0", "github.com/golang-jwt/jwt", "pyjwt"}, label: "Authentication & Authorization"},
	{dependencies: []string{"mongoose", "mongodb", "go.mongodb.org/mongo-driver", "pymongo"}, label: "MongoDB Integration"},
	{dependencies: []string{"mysql", "mysql2", "github.com/go-sql-driver/mysql", "pymysql"}, label: "MySQL Database"},
	{dependencies: []string{"pg", "postgresql", "github.com/lib/pq", "github.com/jackc/pgx", "psycopg2", "psycopg2-binary"}, label: "PostgreSQL Database"},
	{dependencies: []string{"sqlite3", "better-sqlite3", "github.com/mattn/go-sqlite3", "modernc.org/sqlite", "rusqlite"}, label: "SQLite Database"},
	{dependencies: []string{"socket.io", "github.com/gorilla/websocket", "websockets"}, label: "Real-time Communication"},
	{dependencies: []string{"multer", "cloudinary"}, label: "File Upload & Management"},
	{dependencies: []string{"jest", "mocha", "cypress", "github.com/stretchr/testify", "pytest"}, label: "Testing Suite"},
	{dependencies: []string{"tailwindcss"}, label: "Tailwind CSS Styling"},
	{dependencies: []string{"styled-components"}, label: "Styled Components"},
	{dependencies: []string{"material-ui", "@mui/material"}, label: "Material-UI Components"},
	{dependencies: []string{"redux", "zustand", "recoil"}, label: "State Management"},
	{dependencies: []string{"axios", "fetch", "requests", "httpx"}, label: "API Integration"},
}

var reactNativeFeatureRules = []dependencyRule{
	{dependencies: []string{"@react-navigation/native"}, label: "Navigation System"},
	{dependencies: []string{"expo-camera"}, label: "Camera Integration"},
	{dependencies: []string{"expo-location"}, label: "Location Services"},
}

type directoryHint struct {
	candidates []string
	label      string
}

var applicationDirectoryHints = []directoryHint{
	{candidates: []string{"src/auth", "auth"}, label: "Authentication System"},
	{candidates: []string{"src/api", "api"}, label: "API Layer"},
	{candidates: []string{"src/components", "components"}, label: "Reusable Components"},
}

var applicationDescriptionFormats = map[string]string{
	types.ApplicationTypeBackend:  "%s API server providing backend services and data management.",
	types.ApplicationTypeFrontend: "%s web application for user interface and client-side functionality.",
	types.ApplicationTypeMobile:   "%s mobile application for iOS and Android platforms.",
	types.ApplicationTypeAdmin:    "%s administrative dashboard for platform management and oversight.",
	types.ApplicationTypeProvider: "%s application for service providers to manage their offerings.",
	types.ApplicationTypeUser:     "%s application for end users to access and interact with services.",
	types.ApplicationTypeMain:     "%s application providing the core functionality of the project.",
}

const (
	docsApplicationDescription     = "Documentation and guides for the project."
	fallbackApplicationDescription = "%s application."
)

// classifyDirectory returns the application type of a top-level directory name.
func classifyDirectory(directoryName string) (string, bool) {
	for _, candidate := range applicationPatterns {
		if candidate.pattern.MatchString(directoryName) {
			return candidate.applicationType, true
		}
	}
	return "", false
}

func analyzeApplication(fileSystem afero.Fs, root string, applicationPath string, applicationType string, logger *zap.Logger) types.ApplicationInfo {
	applicationDirectory := filepath.Join(root, filepath.FromSlash(applicationPath))
	manifests := detectManifests(fileSystem, applicationDirectory, logger)

	name := applicationPath
	if applicationPath == rootApplicationPath {
		name = projectDirectoryName(root)
	}
	framework := detectFramework(fileSystem, applicationDirectory, manifests)
	features := applicationFeatures(fileSystem, applicationDirectory, framework, manifests)

	var packageInfo *types.PackageInfo
	for _, manifest := range manifests {
		if manifest.PackageInfo != nil {
			packageInfo = manifest.PackageInfo
		}
	}
	return types.ApplicationInfo{
		Name:        name,
		Type:        applicationType,
		Path:        applicationPath,
		Framework:   framework,
		Features:    features,
		Description: applicationDescription(applicationType, framework),
		PackageInfo: packageInfo,
	}
}

func projectDirectoryName(root string) string {
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return filepath.Base(root)
	}
	return filepath.Base(absoluteRoot)
}

// detectFramework prefers JavaScript framework dependencies, then other
// ecosystems, then a bare package.json.
func detectFramework(fileSystem afero.Fs, applicationDirectory string, manifests []Manifest) string {
	manifestsByEcosystem := map[string]Manifest{}
	for _, manifest := range manifests {
		manifestsByEcosystem[manifest.Ecosystem] = manifest
	}
	nodeManifest, hasNode := manifestsByEcosystem[types.EcosystemNode]
	if hasNode {
		if label := firstMatchingRule(nodeFrameworkRules, nodeManifest.DependencyNames()); label != "" {
			return label
		}
	}
	if pythonManifest, hasPython := manifestsByEcosystem[types.EcosystemPython]; hasPython {
		return labelOrDefault(pythonFrameworkRules, pythonManifest, frameworkPython)
	}
	if goManifest, hasGo := manifestsByEcosystem[types.EcosystemGo]; hasGo {
		return labelOrDefault(goFrameworkRules, goManifest, frameworkGo)
	}
	if rustManifest, hasRust := manifestsByEcosystem[types.EcosystemRust]; hasRust {
		return labelOrDefault(rustFrameworkRules, rustManifest, frameworkRust)
	}
	if exists, _ := afero.Exists(fileSystem, filepath.Join(applicationDirectory, mavenFileName)); exists {
		return frameworkMaven
	}
	if hasNode {
		return frameworkNode
	}
	return frameworkUnknown
}

func labelOrDefault(rules []dependencyRule, manifest Manifest, fallback string) string {
	if label := firstMatchingRule(rules, manifest.DependencyNames()); label != "" {
		return label
	}
	return fallback
}

func applicationFeatures(fileSystem afero.Fs, applicationDirectory string, framework string, manifests []Manifest) []string {
	var dependencyNames []string
	for _, manifest := range manifests {
		dependencyNames = append(dependencyNames, manifest.DependencyNames()...)
	}
	features := allMatchingRules(applicationFeatureRules, dependencyNames)
	if strings.Contains(framework, reactNativeMarker) {
		features = append(features, allMatchingRules(reactNativeFeatureRules, dependencyNames)...)
	}
	for _, hint := range applicationDirectoryHints {
		for _, candidate := range hint.candidates {
			if isDirectory, _ := afero.IsDir(fileSystem, filepath.Join(applicationDirectory, filepath.FromSlash(candidate))); isDirectory {
				features = append(features, hint.label)
				break
			}
		}
	}
	if len(features) == 0 {
		return []string{defaultApplicationFeature}
	}
	return features
}

func applicationDescription(applicationType string, framework string) string {
	if applicationType == types.ApplicationTypeDocs {
		return docsApplicationDescription
	}
	if format, found := applicationDescriptionFormats[applicationType]; found {
		return fmt.Sprintf(format, framework)
	}
	return fmt.Sprintf(fallbackApplicationDescription, framework)
}

func firstMatchingRule(rules []dependencyRule, dependencyNames []string) string {
	for _, rule := range rules {
		if dependencyMatches(rule.dependencies, dependencyNames) {
			return rule.label
		}
	}
	return ""
}

func allMatchingRules(rules []dependencyRule, dependencyNames []string) []string {
	var labels []string
	for _, rule := range rules {
		if dependencyMatches(rule.dependencies, dependencyNames) {
			labels = append(labels, rule.label)
		}
	}
	return labels
}

// dependencyMatches compares names exactly, also accepting Go major-version
// suffixes such as github.com/labstack/echo/v4.
func dependencyMatches(ruleDependencies []string, dependencyNames []string) bool {
	for _, dependencyName := range dependencyNames {
		for _, ruleDependency := range ruleDependencies {
			if dependencyName == ruleDependency || strings.HasPrefix(dependencyName, ruleDependency+"/") {
				return true
			}
		}
	}
	return false
}
