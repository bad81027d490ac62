package analyzer

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/temirov/autoreadme/internal/types"
)

const cargoManifestFileName = "Cargo.toml"

type rustDetector struct{}

type cargoDocument struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

func (rustDetector) Ecosystem() string {
	return types.EcosystemRust
}

func (rustDetector) ManifestFileNames() []string {
	return []string{cargoManifestFileName}
}

func (rustDetector) Detect(fileSystem afero.Fs, directoryPath string) (*Manifest, error) {
	data, exists, readErr := readOptionalFile(fileSystem, directoryPath, cargoManifestFileName)
	if readErr != nil {
		return nil, fmt.Errorf("read %s: %w", cargoManifestFileName, readErr)
	}
	if !exists {
		return nil, nil
	}
	var document cargoDocument
	if err := toml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cargoManifestFileName, err)
	}
	versions := map[string]string{}
	for name, value := range document.DevDependencies {
		versions[name] = tomlVersion(value)
	}
	for name, value := range document.Dependencies {
		versions[name] = tomlVersion(value)
	}
	return &Manifest{
		Ecosystem:    types.EcosystemRust,
		Name:         document.Package.Name,
		Dependencies: dependenciesFromMap(types.EcosystemRust, versions),
	}, nil
}
