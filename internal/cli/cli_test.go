package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/temirov/autoreadme/internal/readme"
	"github.com/temirov/autoreadme/internal/utils"
)

const (
	testRemoteURL     = "https://github.com/example/widgets.git"
	testPackageJSON   = `{"name":"widgets","description":"Widget service","scripts":{"start":"node index.js"},"dependencies":{"express":"^4.18.0"}}`
	testIndexSource   = "const app = express()\napp.get('/api/widgets', (req, res) => res.json([]))\n"
	testLocalConfig   = "project_name: Widget Works\nlicense: Apache-2.0\nfeatures:\n  - folderStructure\n"
	testIgnoreContent = "fixtures/\n"
)

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

func writeProjectFile(t *testing.T, root string, relativePath string, content string) {
	t.Helper()
	fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", relativePath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", relativePath, err)
	}
}

func newTestProject(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeProjectFile(t, root, "package.json", testPackageJSON)
	writeProjectFile(t, root, "src/index.js", testIndexSource)
	writeProjectFile(t, root, "fixtures/sample.json", "{}")
	writeProjectFile(t, root, ".ignore", testIgnoreContent)
	return root
}

func runCommand(t *testing.T, copier *recordingCopier, arguments ...string) (string, error) {
	t.Helper()
	dependencies := &Dependencies{
		Logger:    zap.NewNop(),
		Clipboard: copier,
		RemoteLookup: func(context.Context, string) string {
			return testRemoteURL
		},
	}
	rootCommand := createRootCommand(dependencies)
	var output bytes.Buffer
	rootCommand.SetOut(&output)
	rootCommand.SetErr(&output)
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, arguments))
	executeErr := rootCommand.ExecuteContext(context.Background())
	return output.String(), executeErr
}

func TestStructureCommandPrintsAnnotatedTree(t *testing.T) {
	root := newTestProject(t)
	copier := &recordingCopier{}

	output, err := runCommand(t, copier, "structure", root, "--copy")
	if err != nil {
		t.Fatalf("structure command failed: %v", err)
	}
	if !strings.Contains(output, "├── src/ # Source code") {
		t.Fatalf("expected annotated src directory, got:\n%s", output)
	}
	if !strings.Contains(output, "package.json") {
		t.Fatalf("expected package.json in tree, got:\n%s", output)
	}
	if strings.Contains(output, "fixtures") {
		t.Fatalf("expected .ignore to hide fixtures, got:\n%s", output)
	}
	if len(copier.copied) != 1 || !strings.Contains(copier.copied[0], "src/") {
		t.Fatalf("expected tree on clipboard, got %v", copier.copied)
	}
}

func TestStructureCommandHonorsIgnoreFlags(t *testing.T) {
	root := newTestProject(t)

	output, err := runCommand(t, &recordingCopier{}, "tree", root, "--no-ignore", "-e", "src")
	if err != nil {
		t.Fatalf("tree alias failed: %v", err)
	}
	if !strings.Contains(output, "fixtures/") {
		t.Fatalf("expected fixtures with --no-ignore, got:\n%s", output)
	}
	if strings.Contains(output, "src/") {
		t.Fatalf("expected src to be excluded, got:\n%s", output)
	}
}

func TestGenerateCommandWritesAndSkips(t *testing.T) {
	root := newTestProject(t)
	readmePath := filepath.Join(root, utils.ReadmeFileName)

	output, err := runCommand(t, &recordingCopier{}, "generate", root)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(output, "Generated "+readmePath) {
		t.Fatalf("unexpected output: %s", output)
	}
	written, readErr := os.ReadFile(readmePath)
	if readErr != nil {
		t.Fatalf("read README: %v", readErr)
	}
	content := string(written)
	for _, fragment := range []string{"# " + filepath.Base(root), "Widget service", "git clone " + testRemoteURL, "- `GET /api/widgets`"} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected README to contain %q, got:\n%s", fragment, content)
		}
	}
	if _, found := readme.ExtractChecksum(content); !found {
		t.Fatalf("expected checksum marker in README")
	}

	output, err = runCommand(t, &recordingCopier{}, "g", root)
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}
	if !strings.Contains(output, "No changes detected") {
		t.Fatalf("expected skip message, got: %s", output)
	}

	output, err = runCommand(t, &recordingCopier{}, "generate", root, "-f")
	if err != nil {
		t.Fatalf("forced generate failed: %v", err)
	}
	if !strings.Contains(output, "Generated ") {
		t.Fatalf("expected forced regeneration, got: %s", output)
	}
}

func TestGenerateCommandStdoutAndCopy(t *testing.T) {
	root := newTestProject(t)
	copier := &recordingCopier{}

	output, err := runCommand(t, copier, "generate", root, "--stdout", "--copy", "yes")
	if err != nil {
		t.Fatalf("generate --stdout failed: %v", err)
	}
	if !strings.HasPrefix(output, "# ") {
		t.Fatalf("expected README on stdout, got: %s", output)
	}
	if _, statErr := os.Stat(filepath.Join(root, utils.ReadmeFileName)); !os.IsNotExist(statErr) {
		t.Fatalf("expected no README to be written, stat error: %v", statErr)
	}
	if len(copier.copied) != 1 || !strings.HasPrefix(copier.copied[0], "# ") {
		t.Fatalf("expected README on clipboard, got %v", copier.copied)
	}
}

func TestGenerateCommandAppliesConfigurationAndOverrides(t *testing.T) {
	root := newTestProject(t)
	writeProjectFile(t, root, utils.ConfigFileName, testLocalConfig+"output: docs/README.md\n")

	if _, err := runCommand(t, &recordingCopier{}, "generate", root); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	configured, readErr := os.ReadFile(filepath.Join(root, "docs", "README.md"))
	if readErr != nil {
		t.Fatalf("expected README at configured output: %v", readErr)
	}
	content := string(configured)
	if !strings.HasPrefix(content, "# Widget Works\n") {
		t.Fatalf("expected configured project name, got:\n%s", content)
	}
	if !strings.Contains(content, "Apache-2.0 License") {
		t.Fatalf("expected configured license")
	}
	if strings.Contains(content, "## 🛣️ API Endpoints") {
		t.Fatalf("expected API routes section to be disabled by configuration")
	}

	if _, err := runCommand(t, &recordingCopier{}, "generate", root, "--output", "OVERVIEW.md"); err != nil {
		t.Fatalf("generate with --output failed: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, "OVERVIEW.md")); statErr != nil {
		t.Fatalf("expected --output to override configuration: %v", statErr)
	}
}

func TestGenerateCommandExplicitConfigPath(t *testing.T) {
	root := newTestProject(t)
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	writeProjectFile(t, filepath.Dir(configPath), filepath.Base(configPath), testLocalConfig)

	output, err := runCommand(t, &recordingCopier{}, "--config", configPath, "generate", root, "--stdout")
	if err != nil {
		t.Fatalf("generate with --config failed: %v", err)
	}
	if !strings.HasPrefix(output, "# Widget Works") {
		t.Fatalf("expected explicit configuration to apply, got:\n%s", output)
	}
}

func TestInitCommandWritesConfiguration(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workingDirectory := t.TempDir()
	t.Chdir(workingDirectory)

	output, err := runCommand(t, &recordingCopier{}, "init")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if !strings.Contains(output, expectedPath) {
		t.Fatalf("expected destination in output, got: %s", output)
	}
	if _, err := runCommand(t, &recordingCopier{}, "init"); err == nil {
		t.Fatalf("expected second init without --force to fail")
	}
	if _, err := runCommand(t, &recordingCopier{}, "init", "--force"); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
}

func TestCommandsRejectInvalidPaths(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeProjectFile(t, root, "file.txt", "text")

	testCases := []struct {
		name      string
		arguments []string
		expected  string
	}{
		{name: "missing", arguments: []string{"generate", filepath.Join(root, "absent")}, expected: "does not exist"},
		{name: "file", arguments: []string{"structure", filepath.Join(root, "file.txt")}, expected: "is not a directory"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := runCommand(t, &recordingCopier{}, testCase.arguments...)
			if err == nil || !strings.Contains(err.Error(), testCase.expected) {
				t.Fatalf("expected error containing %q, got %v", testCase.expected, err)
			}
		})
	}
}
