package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/autoreadme/internal/types"
)

const warningManifestMessage = "skipping unreadable manifest"

// Dependency is one requirement declared in a manifest.
type Dependency struct {
	Name      string
	Version   string
	Ecosystem string
}

// Manifest is the parsed dependency declaration of one ecosystem in one directory.
type Manifest struct {
	Ecosystem    string
	Name         string
	Dependencies []Dependency
	// PackageInfo is only set for package.json manifests.
	PackageInfo *types.PackageInfo
}

// DependencyNames returns the declared dependency names.
func (manifest Manifest) DependencyNames() []string {
	names := make([]string, 0, len(manifest.Dependencies))
	for _, dependency := range manifest.Dependencies {
		names = append(names, dependency.Name)
	}
	return names
}

type detector interface {
	Ecosystem() string
	ManifestFileNames() []string
	// Detect returns nil when the directory holds no manifest for the ecosystem.
	Detect(fileSystem afero.Fs, directoryPath string) (*Manifest, error)
}

func buildDetectors() []detector {
	return []detector{
		javaScriptDetector{},
		goDetector{},
		pythonDetector{},
		rustDetector{},
	}
}

// manifestFileNames lists every file name a detector reads.
func manifestFileNames() map[string]struct{} {
	names := map[string]struct{}{}
	for _, manifestDetector := range buildDetectors() {
		for _, fileName := range manifestDetector.ManifestFileNames() {
			names[fileName] = struct{}{}
		}
	}
	return names
}

// detectManifests runs every detector against directoryPath. Unreadable or
// malformed manifests are logged and skipped.
func detectManifests(fileSystem afero.Fs, directoryPath string, logger *zap.Logger) []Manifest {
	var manifests []Manifest
	for _, manifestDetector := range buildDetectors() {
		manifest, detectError := manifestDetector.Detect(fileSystem, directoryPath)
		if detectError != nil {
			logger.Warn(warningManifestMessage, zap.String("ecosystem", manifestDetector.Ecosystem()), zap.String("directory", directoryPath), zap.Error(detectError))
			continue
		}
		if manifest != nil {
			manifests = append(manifests, *manifest)
		}
	}
	return manifests
}

func readOptionalFile(fileSystem afero.Fs, directoryPath string, fileName string) ([]byte, bool, error) {
	content, readError := afero.ReadFile(fileSystem, filepath.Join(directoryPath, fileName))
	if readError != nil {
		if isNotExist(readError) {
			return nil, false, nil
		}
		return nil, false, readError
	}
	return content, true, nil
}

// dependenciesFromMap converts a name to version map into a name-sorted slice.
func dependenciesFromMap(ecosystem string, versions map[string]string) []Dependency {
	dependencies := make([]Dependency, 0, len(versions))
	for name, version := range versions {
		dependencies = append(dependencies, Dependency{Name: name, Version: version, Ecosystem: ecosystem})
	}
	sort.Slice(dependencies, func(left, right int) bool {
		return dependencies[left].Name < dependencies[right].Name
	})
	return dependencies
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
