package analyzer

import (
	"fmt"

	"github.com/spf13/afero"
	"golang.org/x/mod/modfile"

	"github.com/temirov/autoreadme/internal/types"
)

const goModuleFileName = "go.mod"

type goDetector struct{}

func (goDetector) Ecosystem() string {
	return types.EcosystemGo
}

func (goDetector) ManifestFileNames() []string {
	return []string{goModuleFileName}
}

func (goDetector) Detect(fileSystem afero.Fs, directoryPath string) (*Manifest, error) {
	bytes, exists, readErr := readOptionalFile(fileSystem, directoryPath, goModuleFileName)
	if readErr != nil {
		return nil, fmt.Errorf("read go.mod: %w", readErr)
	}
	if !exists {
		return nil, nil
	}
	modFile, parseErr := modfile.Parse(goModuleFileName, bytes, nil)
	if parseErr != nil {
		return nil, fmt.Errorf("parse go.mod: %w", parseErr)
	}
	manifest := &Manifest{Ecosystem: types.EcosystemGo}
	if modFile.Module != nil {
		manifest.Name = modFile.Module.Mod.Path
	}
	for _, requirement := range modFile.Require {
		if requirement == nil || requirement.Indirect {
			continue
		}
		if requirement.Mod.Path == "" || requirement.Mod.Path == manifest.Name {
			continue
		}
		manifest.Dependencies = append(manifest.Dependencies, Dependency{
			Name:      requirement.Mod.Path,
			Version:   requirement.Mod.Version,
			Ecosystem: types.EcosystemGo,
		})
	}
	return manifest, nil
}
