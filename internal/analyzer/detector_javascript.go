package analyzer

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"github.com/temirov/autoreadme/internal/types"
)

const packageManifestFileName = "package.json"

type javaScriptDetector struct{}

func (javaScriptDetector) Ecosystem() string {
	return types.EcosystemNode
}

func (javaScriptDetector) ManifestFileNames() []string {
	return []string{packageManifestFileName}
}

func (javaScriptDetector) Detect(fileSystem afero.Fs, directoryPath string) (*Manifest, error) {
	packageInfo, readError := ReadPackageInfo(fileSystem, directoryPath)
	if readError != nil || packageInfo == nil {
		return nil, readError
	}
	return &Manifest{
		Ecosystem:    types.EcosystemNode,
		Name:         packageInfo.Name,
		Dependencies: dependenciesFromMap(types.EcosystemNode, packageInfo.AllDependencies()),
		PackageInfo:  packageInfo,
	}, nil
}

// ReadPackageInfo parses directoryPath/package.json. It returns nil without an
// error when the file does not exist.
func ReadPackageInfo(fileSystem afero.Fs, directoryPath string) (*types.PackageInfo, error) {
	data, exists, readError := readOptionalFile(fileSystem, directoryPath, packageManifestFileName)
	if readError != nil {
		return nil, fmt.Errorf("read package.json: %w", readError)
	}
	if !exists {
		return nil, nil
	}
	var packageInfo types.PackageInfo
	if err := json.Unmarshal(data, &packageInfo); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}
	return &packageInfo, nil
}
