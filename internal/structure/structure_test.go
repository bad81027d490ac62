package structure_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/autoreadme/internal/scan"
	"github.com/temirov/autoreadme/internal/structure"
)

const (
	projectRoot          = "/project"
	expectedExampleTree  = "├── src/ # Source code\n│   ├── utils/ # Utility functions\n│   │   └── file.ts # TypeScript source\n│   └── index.ts # Entry point\n└── README.md # Project documentation"
	unannotatedFileName  = "data.xyz"
	promotedParentName   = "assets"
	promotedChildPath    = "assets/logo.png"
	expectedPromotedTree = "└── assets/ # Static assets\n    └── logo.png # Image asset"
)

func newMemoryProject(t *testing.T, relativeFilePaths ...string) afero.Fs {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	for _, relativeFilePath := range relativeFilePaths {
		fullPath := filepath.Join(projectRoot, filepath.FromSlash(relativeFilePath))
		require.NoError(t, fileSystem.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, afero.WriteFile(fileSystem, fullPath, []byte("content"), 0o644))
	}
	return fileSystem
}

func buildTree(t *testing.T, fileSystem afero.Fs, relativePaths []string) *structure.Node {
	t.Helper()
	treeBuilder := &structure.Builder{FileSystem: fileSystem, Root: projectRoot, Concurrency: 2}
	rootNode, buildError := treeBuilder.Build(context.Background(), relativePaths)
	require.NoError(t, buildError)
	return rootNode
}

func TestFormatGroupsDirectoriesBeforeFiles(t *testing.T) {
	fileSystem := newMemoryProject(t, "src/index.ts", "README.md", "src/utils/file.ts")
	rootNode := buildTree(t, fileSystem, []string{"src/index.ts", "README.md", "src/utils/file.ts"})

	require.Equal(t, expectedExampleTree, structure.Format(rootNode))
}

func TestFormatEmptyPathListProducesEmptyString(t *testing.T) {
	rootNode := buildTree(t, afero.NewMemMapFs(), nil)

	require.Equal(t, 0, rootNode.Count())
	require.Equal(t, "", structure.Format(rootNode))
}

func TestFormatLeavesUnknownExtensionsUnannotated(t *testing.T) {
	fileSystem := newMemoryProject(t, unannotatedFileName)
	rootNode := buildTree(t, fileSystem, []string{unannotatedFileName})

	require.Equal(t, "└── "+unannotatedFileName, structure.Format(rootNode))
}

func TestFormatLineCountMatchesUniqueSegments(t *testing.T) {
	testCases := []struct {
		name          string
		relativePaths []string
		expectedLines int
	}{
		{name: "flat", relativePaths: []string{"a.go", "b.go", "c.go"}, expectedLines: 3},
		{name: "nested", relativePaths: []string{"cmd/app/main.go", "cmd/tool/main.go", "go.mod"}, expectedLines: 6},
		{name: "duplicates", relativePaths: []string{"pkg/x.go", "pkg/x.go", "./pkg/y.go"}, expectedLines: 3},
		{name: "backslashes", relativePaths: []string{"docs\\guide.md", "docs/api.md"}, expectedLines: 3},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rootNode := buildTree(t, afero.NewMemMapFs(), testCase.relativePaths)
			rendered := structure.Format(rootNode)

			require.Equal(t, testCase.expectedLines, rootNode.Count())
			require.Len(t, strings.Split(rendered, "\n"), testCase.expectedLines)
		})
	}
}

func TestSortedChildrenOrdersDirectoriesThenNames(t *testing.T) {
	fileSystem := newMemoryProject(t, "zeta/file.txt", "alpha/file.txt", "Beta.md", "alpha.md")
	rootNode := buildTree(t, fileSystem, []string{"zeta", "alpha", "Beta.md", "alpha.md"})

	var names []string
	for _, child := range rootNode.SortedChildren() {
		names = append(names, child.Name)
	}
	require.Equal(t, []string{"alpha", "zeta", "alpha.md", "Beta.md"}, names)
}

func TestFormatSortsMixedCaseNamesAlphabetically(t *testing.T) {
	fileSystem := newMemoryProject(t, "Makefile", "api.go", "README.md", "main.go", "readme.md")
	rootNode := buildTree(t, fileSystem, []string{"Makefile", "api.go", "README.md", "main.go", "readme.md"})

	var names []string
	for _, line := range strings.Split(structure.Format(rootNode), "\n") {
		names = append(names, strings.Fields(line)[1])
	}
	require.Equal(t, []string{"api.go", "main.go", "Makefile", "readme.md", "README.md"}, names)
}

func TestFormatIsDeterministic(t *testing.T) {
	fileSystem := newMemoryProject(t, "src/index.ts", "README.md", "src/utils/file.ts", "package.json")
	rootNode := buildTree(t, fileSystem, []string{"src/index.ts", "README.md", "src/utils/file.ts", "package.json"})

	require.Equal(t, structure.Format(rootNode), structure.Format(rootNode))
}

func TestBuildTreatsUnstattablePathsAsFiles(t *testing.T) {
	rootNode := buildTree(t, afero.NewMemMapFs(), []string{"missing"})

	children := rootNode.SortedChildren()
	require.Len(t, children, 1)
	require.False(t, children[0].IsDirectory())
}

func TestBuildPromotesFileEntriesWithDescendants(t *testing.T) {
	rootNode := buildTree(t, afero.NewMemMapFs(), []string{promotedParentName, promotedChildPath})

	require.Equal(t, expectedPromotedTree, structure.Format(rootNode))
}

func TestBuildHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	treeBuilder := &structure.Builder{FileSystem: afero.NewMemMapFs(), Root: projectRoot}

	_, buildError := treeBuilder.Build(ctx, []string{"a.go"})
	require.ErrorIs(t, buildError, context.Canceled)
}

func TestAnnotationLookup(t *testing.T) {
	testCases := []struct {
		name        string
		entryName   string
		isDirectory bool
		expected    string
	}{
		{name: "directory", entryName: "src", isDirectory: true, expected: "# Source code"},
		{name: "file name wins", entryName: "README.md", expected: "# Project documentation"},
		{name: "extension fallback", entryName: "handler.GO", expected: "# Go source"},
		{name: "directory ignores extension", entryName: "lib.go", isDirectory: true, expected: ""},
		{name: "no extension", entryName: "NOTES", expected: ""},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, structure.Annotation(testCase.entryName, testCase.isDirectory))
		})
	}
}

func TestGenerateRendersScannedProject(t *testing.T) {
	fileSystem := newMemoryProject(t, "src/index.ts", "README.md", "src/utils/file.ts", "node_modules/react/index.js")

	rendered := structure.Generate(context.Background(), structure.Options{
		Root:           projectRoot,
		IgnorePatterns: scan.DefaultIgnorePatterns,
		FileSystem:     fileSystem,
	})
	require.Equal(t, expectedExampleTree, rendered)
}

func TestGenerateFallsBackToErrorText(t *testing.T) {
	rendered := structure.Generate(context.Background(), structure.Options{
		Root:       "/does/not/exist",
		FileSystem: afero.NewMemMapFs(),
	})
	require.Equal(t, structure.ErrorText, rendered)
}
