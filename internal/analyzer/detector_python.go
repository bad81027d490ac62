package analyzer

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/temirov/autoreadme/internal/types"
)

const (
	requirementsFileName = "requirements.txt"
	pyProjectFileName    = "pyproject.toml"
	setupScriptFileName  = "setup.py"
	poetryPythonKey      = "python"
)

type pythonDetector struct{}

func (pythonDetector) Ecosystem() string {
	return types.EcosystemPython
}

func (pythonDetector) ManifestFileNames() []string {
	return []string{requirementsFileName, pyProjectFileName, setupScriptFileName}
}

func (pythonDetector) Detect(fileSystem afero.Fs, directoryPath string) (*Manifest, error) {
	requirementsData, hasRequirements, requirementsErr := readOptionalFile(fileSystem, directoryPath, requirementsFileName)
	if requirementsErr != nil {
		return nil, fmt.Errorf("read %s: %w", requirementsFileName, requirementsErr)
	}
	pyProjectData, hasPyProject, pyProjectErr := readOptionalFile(fileSystem, directoryPath, pyProjectFileName)
	if pyProjectErr != nil {
		return nil, fmt.Errorf("read %s: %w", pyProjectFileName, pyProjectErr)
	}
	_, hasSetupScript, setupErr := readOptionalFile(fileSystem, directoryPath, setupScriptFileName)
	if setupErr != nil {
		return nil, fmt.Errorf("read %s: %w", setupScriptFileName, setupErr)
	}
	if !hasRequirements && !hasPyProject && !hasSetupScript {
		return nil, nil
	}

	manifest := &Manifest{Ecosystem: types.EcosystemPython}
	var requirements []Dependency
	if hasRequirements {
		parsed, parseErr := parseRequirements(requirementsData)
		if parseErr != nil {
			return nil, fmt.Errorf("scan %s: %w", requirementsFileName, parseErr)
		}
		requirements = append(requirements, parsed...)
	}
	if hasPyProject {
		projectName, parsed, parseErr := parsePyProject(pyProjectData)
		if parseErr != nil {
			return nil, fmt.Errorf("parse %s: %w", pyProjectFileName, parseErr)
		}
		manifest.Name = projectName
		requirements = append(requirements, parsed...)
	}

	seen := map[string]struct{}{}
	for _, requirement := range requirements {
		if _, exists := seen[requirement.Name]; exists {
			continue
		}
		seen[requirement.Name] = struct{}{}
		manifest.Dependencies = append(manifest.Dependencies, requirement)
	}
	return manifest, nil
}

func parseRequirements(data []byte) ([]Dependency, error) {
	var requirements []Dependency
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "-r") || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if requirement := parseRequirementLine(trimmed); requirement.Name != "" {
			requirements = append(requirements, requirement)
		}
	}
	return requirements, scanner.Err()
}

func parseRequirementLine(line string) Dependency {
	clean := line
	if index := strings.Index(clean, "#"); index >= 0 {
		clean = clean[:index]
	}
	if index := strings.Index(clean, ";"); index >= 0 {
		clean = clean[:index]
	}
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return Dependency{}
	}
	name := clean
	version := ""
	separators := []string{"==", ">=", "<=", "~=", "!=", ">", "<"}
	for _, separator := range separators {
		if parts := strings.SplitN(clean, separator, 2); len(parts) == 2 {
			name = parts[0]
			version = separator + parts[1]
			break
		}
	}
	if index := strings.Index(name, "["); index >= 0 {
		name = name[:index]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Dependency{}
	}
	return Dependency{
		Name:      strings.ToLower(name),
		Version:   strings.TrimSpace(version),
		Ecosystem: types.EcosystemPython,
	}
}

type pyProjectDocument struct {
	Project struct {
		Name         string   `toml:"name"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name         string         `toml:"name"`
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// parsePyProject reads PEP 621 and Poetry dependency declarations.
func parsePyProject(data []byte) (string, []Dependency, error) {
	var document pyProjectDocument
	if err := toml.Unmarshal(data, &document); err != nil {
		return "", nil, err
	}
	projectName := document.Project.Name
	if projectName == "" {
		projectName = document.Tool.Poetry.Name
	}
	var requirements []Dependency
	for _, declaration := range document.Project.Dependencies {
		if requirement := parseRequirementLine(declaration); requirement.Name != "" {
			requirements = append(requirements, requirement)
		}
	}
	poetryNames := make([]string, 0, len(document.Tool.Poetry.Dependencies))
	for name := range document.Tool.Poetry.Dependencies {
		if strings.EqualFold(name, poetryPythonKey) {
			continue
		}
		poetryNames = append(poetryNames, name)
	}
	sort.Strings(poetryNames)
	for _, name := range poetryNames {
		requirements = append(requirements, Dependency{
			Name:      strings.ToLower(name),
			Version:   tomlVersion(document.Tool.Poetry.Dependencies[name]),
			Ecosystem: types.EcosystemPython,
		})
	}
	return projectName, requirements, nil
}

// tomlVersion accepts both `name = "1.0"` and `name = { version = "1.0" }`.
func tomlVersion(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case map[string]any:
		if version, ok := typed["version"].(string); ok {
			return version
		}
	}
	return ""
}
