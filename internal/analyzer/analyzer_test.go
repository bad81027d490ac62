package analyzer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/autoreadme/internal/scan"
	"github.com/temirov/autoreadme/internal/types"
)

const (
	fullStackRoot = "/workspace/demo"

	backendPackageJSON  = `{"name":"api","dependencies":{"express":"^4.18.0","mongoose":"^7.0.0","jsonwebtoken":"^9.0.0"}}`
	frontendPackageJSON = `{"name":"web","dependencies":{"react":"^18.2.0","axios":"^1.6.0"},"devDependencies":{"tailwindcss":"^3.4.0"}}`
	rootPackageJSON     = `{"name":"demo","description":"Demo workspace","scripts":{"dev":"vite","test":"vitest"}}`
	composeFile         = "services:\n  db:\n    image: postgres:16\n  cache:\n    image: redis:7-alpine\n  api:\n    build: ./backend\n"

	goModuleFile = "module example.com/svc\n\ngo 1.22\n\nrequire (\n\tgithub.com/gin-gonic/gin v1.9.1\n\tgithub.com/jackc/pgx/v5 v5.5.0\n\tgolang.org/x/text v0.14.0 // indirect\n)\n"
	pyProject    = "[project]\nname = \"api\"\ndependencies = [\"fastapi>=0.110\", \"psycopg2-binary==2.9.9\"]\n\n[tool.poetry.dependencies]\npython = \"^3.11\"\nredis = { version = \"^5.0\" }\n"
	cargoFile    = "[package]\nname = \"svc\"\n\n[dependencies]\naxum = \"0.7\"\nrusqlite = { version = \"0.31\", features = [\"bundled\"] }\n"
)

func seedFileSystem(t *testing.T, root string, files map[string]string) afero.Fs {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	require.NoError(t, fileSystem.MkdirAll(root, 0o755))
	for relativePath, content := range files {
		fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
		require.NoError(t, fileSystem.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, afero.WriteFile(fileSystem, fullPath, []byte(content), 0o644))
	}
	return fileSystem
}

func TestAnalyzeFullStackProject(t *testing.T) {
	fileSystem := seedFileSystem(t, fullStackRoot, map[string]string{
		"package.json":                       rootPackageJSON,
		"backend/package.json":               backendPackageJSON,
		"backend/src/index.js":               "const app = express()",
		"frontend/package.json":              frontendPackageJSON,
		"frontend/src/components/Nav.tsx":    "export const Nav = () => null",
		"docker-compose.yml":                 composeFile,
		"Dockerfile":                         "FROM node:20",
		".github/workflows/ci.yml":           "on: push",
		"node_modules/left-pad/package.json": `{"dependencies":{"pg":"1"}}`,
	})
	analyzer := &Analyzer{Root: fullStackRoot, IgnorePatterns: scan.DefaultIgnorePatterns, FileSystem: fileSystem}

	report := analyzer.Analyze(context.Background())
	structure := report.Structure

	require.Len(t, structure.Applications, 2)
	backend := structure.Applications[0]
	assert.Equal(t, "backend", backend.Name)
	assert.Equal(t, types.ApplicationTypeBackend, backend.Type)
	assert.Equal(t, "Node.js/Express", backend.Framework)
	assert.Equal(t, []string{"Authentication & Authorization", "MongoDB Integration"}, backend.Features)
	assert.Equal(t, "Node.js/Express API server providing backend services and data management.", backend.Description)
	require.NotNil(t, backend.PackageInfo)
	assert.Equal(t, "api", backend.PackageInfo.Name)

	frontend := structure.Applications[1]
	assert.Equal(t, "React", frontend.Framework)
	assert.Equal(t, []string{"Tailwind CSS Styling", "API Integration", "Reusable Components"}, frontend.Features)

	assert.Equal(t, projectTypeFullStackWeb, structure.Type)
	assert.True(t, structure.HasBackend)
	assert.True(t, structure.HasFrontend)
	assert.False(t, structure.HasMobile)
	assert.Equal(t, []string{"Node.js", "Docker", "Docker Compose", "GitHub Actions"}, structure.MainTechnologies)
	assert.Equal(t, []string{databaseMongo, databaseRedis, databasePostgres}, structure.Databases)
	assert.Equal(t, types.DeploymentInfo{
		Docker:          true,
		DockerCompose:   true,
		ComposeServices: []string{"api", "cache", "db"},
		GitHubActions:   true,
	}, structure.Deployment)

	assert.Equal(t, []string{types.EcosystemNode}, report.Ecosystems)
	require.NotNil(t, report.PackageInfo)
	assert.Equal(t, "Demo workspace", report.PackageInfo.Description)
}

func TestAnalyzeSingleApplicationManifests(t *testing.T) {
	testCases := []struct {
		name              string
		files             map[string]string
		expectedFramework string
		expectedDatabases []string
		expectedEcosystem string
		expectedFeatures  []string
	}{
		{
			name:              "go module",
			files:             map[string]string{"go.mod": goModuleFile, "main.go": "package main"},
			expectedFramework: "Go/Gin",
			expectedDatabases: []string{databasePostgres},
			expectedEcosystem: types.EcosystemGo,
			expectedFeatures:  []string{"PostgreSQL Database"},
		},
		{
			name:              "python project",
			files:             map[string]string{"pyproject.toml": pyProject},
			expectedFramework: "Python/FastAPI",
			expectedDatabases: []string{databasePostgres, databaseRedis},
			expectedEcosystem: types.EcosystemPython,
			expectedFeatures:  []string{"PostgreSQL Database"},
		},
		{
			name:              "rust crate",
			files:             map[string]string{"Cargo.toml": cargoFile},
			expectedFramework: "Rust/Axum",
			expectedDatabases: []string{databaseSQLite},
			expectedEcosystem: types.EcosystemRust,
			expectedFeatures:  []string{"SQLite Database"},
		},
		{
			name:              "bare directory",
			files:             map[string]string{"notes.txt": "hello"},
			expectedFramework: frameworkUnknown,
			expectedFeatures:  []string{defaultApplicationFeature},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			root := "/projects/svc"
			analyzer := &Analyzer{Root: root, FileSystem: seedFileSystem(t, root, testCase.files)}
			report := analyzer.Analyze(context.Background())

			require.Len(t, report.Structure.Applications, 1)
			application := report.Structure.Applications[0]
			assert.Equal(t, "svc", application.Name)
			assert.Equal(t, types.ApplicationTypeMain, application.Type)
			assert.Equal(t, testCase.expectedFramework, application.Framework)
			assert.Equal(t, testCase.expectedFeatures, application.Features)
			assert.Equal(t, projectTypeSingleApplication, report.Structure.Type)
			if testCase.expectedDatabases == nil {
				assert.Empty(t, report.Structure.Databases)
			} else {
				assert.Equal(t, testCase.expectedDatabases, report.Structure.Databases)
			}
			if testCase.expectedEcosystem == "" {
				assert.Empty(t, report.Ecosystems)
			} else {
				assert.Equal(t, []string{testCase.expectedEcosystem}, report.Ecosystems)
			}
		})
	}
}

func TestAnalyzeMissingRootDegrades(t *testing.T) {
	report := (&Analyzer{Root: "/absent", FileSystem: afero.NewMemMapFs()}).Analyze(context.Background())
	assert.Equal(t, ProjectTypeUnknown, report.Structure.Type)
	assert.Empty(t, report.Structure.Applications)
}

func TestAnalyzeSkipsMalformedManifest(t *testing.T) {
	root := "/broken"
	fileSystem := seedFileSystem(t, root, map[string]string{"package.json": "{not json", "go.mod": goModuleFile})
	report := (&Analyzer{Root: root, FileSystem: fileSystem}).Analyze(context.Background())

	assert.Equal(t, []string{types.EcosystemGo}, report.Ecosystems)
	assert.Nil(t, report.PackageInfo)
	assert.Equal(t, "Go/Gin", report.Structure.Applications[0].Framework)
}

func TestDetermineProjectType(t *testing.T) {
	application := func(applicationType string) types.ApplicationInfo {
		return types.ApplicationInfo{Type: applicationType}
	}
	testCases := []struct {
		name         string
		applications []types.ApplicationInfo
		expected     string
	}{
		{name: "none", expected: ProjectTypeUnknown},
		{name: "backend only", applications: []types.ApplicationInfo{application(types.ApplicationTypeBackend)}, expected: projectTypeBackendAPI},
		{name: "mobile only", applications: []types.ApplicationInfo{application(types.ApplicationTypeMobile)}, expected: projectTypeMobile},
		{name: "backend and mobile", applications: []types.ApplicationInfo{application(types.ApplicationTypeBackend), application(types.ApplicationTypeMobile)}, expected: projectTypeBackendMobile},
		{name: "all platforms", applications: []types.ApplicationInfo{application(types.ApplicationTypeBackend), application(types.ApplicationTypeFrontend), application(types.ApplicationTypeMobile)}, expected: projectTypeFullStackMultiPlatform},
		{name: "docs and admin", applications: []types.ApplicationInfo{application(types.ApplicationTypeDocs), application(types.ApplicationTypeAdmin)}, expected: projectTypeMultiApplication},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, determineProjectType(testCase.applications))
		})
	}
}

func TestClassifyDirectory(t *testing.T) {
	testCases := map[string]string{
		"Server":        types.ApplicationTypeBackend,
		"web":           types.ApplicationTypeFrontend,
		"react-native":  types.ApplicationTypeMobile,
		"dashboard":     types.ApplicationTypeAdmin,
		"vendor-app":    types.ApplicationTypeProvider,
		"customerApp":   types.ApplicationTypeUser,
		"documentation": types.ApplicationTypeDocs,
	}
	for directoryName, expectedType := range testCases {
		applicationType, matched := classifyDirectory(directoryName)
		assert.True(t, matched, directoryName)
		assert.Equal(t, expectedType, applicationType, directoryName)
	}
	_, matched := classifyDirectory("scripts")
	assert.False(t, matched)
}

func TestImageDatabase(t *testing.T) {
	assert.Equal(t, databasePostgres, imageDatabase("bitnami/postgresql:16"))
	assert.Equal(t, databaseMariaDB, imageDatabase("mariadb"))
	assert.Equal(t, databaseMongo, imageDatabase("docker.io/library/mongo:7"))
	assert.Equal(t, "", imageDatabase("nginx:alpine"))
}

func TestParseRequirementLine(t *testing.T) {
	testCases := []struct {
		line     string
		expected Dependency
	}{
		{line: "Django>=4.2", expected: Dependency{Name: "django", Version: ">=4.2", Ecosystem: types.EcosystemPython}},
		{line: "uvicorn[standard] == 0.29 # server", expected: Dependency{Name: "uvicorn", Version: "== 0.29", Ecosystem: types.EcosystemPython}},
		{line: "requests; python_version > '3.8'", expected: Dependency{Name: "requests", Ecosystem: types.EcosystemPython}},
		{line: "# comment only", expected: Dependency{}},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, parseRequirementLine(testCase.line), testCase.line)
	}
}
