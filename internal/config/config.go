// Package config loads ignore files and the autoreadme application configuration.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/autoreadme/internal/utils"
)

const (
	// gitDirectoryPattern represents the pattern that matches the Git directory.
	gitDirectoryPattern = utils.GitDirectoryName + "/"
	// binarySectionHeader identifies the section listing binary content patterns.
	binarySectionHeader = "[binary]"
	// ignoreSectionHeader identifies the section listing ignore patterns.
	ignoreSectionHeader = "[ignore]"

	commentPrefix  = "#"
	negationPrefix = "!"

	errorLoadIgnoreFileFormat = "loading %s from %s: %w"
)

// IgnoreOptions selects the ignore sources aggregated by LoadRecursiveIgnorePatterns.
type IgnoreOptions struct {
	// FileSystem defaults to the OS filesystem.
	FileSystem        afero.Fs
	ExclusionPatterns []string
	UseGitignore      bool
	UseIgnoreFile     bool
	IncludeGit        bool
}

// LoadIgnoreFilePatterns reads an ignore file and returns its ignore patterns.
// Lines in the [binary] section and negated patterns are skipped. A missing
// file yields no patterns.
func LoadIgnoreFilePatterns(fileSystem afero.Fs, ignoreFilePath string) ([]string, error) {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	fileHandle, openFileError := fileSystem.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	currentSectionHeader := ignoreSectionHeader
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		if strings.EqualFold(trimmedLine, binarySectionHeader) {
			currentSectionHeader = binarySectionHeader
			continue
		}
		if strings.EqualFold(trimmedLine, ignoreSectionHeader) {
			currentSectionHeader = ignoreSectionHeader
			continue
		}
		if currentSectionHeader == binarySectionHeader || strings.HasPrefix(trimmedLine, negationPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadRecursiveIgnorePatterns walks rootDirectoryPath and aggregates ignore patterns.
// Patterns from utils.IgnoreFileName and utils.GitIgnoreFileName in each nested directory
// are prefixed with that directory's path relative to rootDirectoryPath. The directory
// named utils.GitDirectoryName is ignored unless IncludeGit is set. ExclusionPatterns are
// appended last.
func LoadRecursiveIgnorePatterns(rootDirectoryPath string, options IgnoreOptions) ([]string, error) {
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	cleanRoot := filepath.Clean(rootDirectoryPath)

	var ignoreFileNames []string
	if options.UseIgnoreFile {
		ignoreFileNames = append(ignoreFileNames, utils.IgnoreFileName)
	}
	if options.UseGitignore {
		ignoreFileNames = append(ignoreFileNames, utils.GitIgnoreFileName)
	}

	var aggregatedPatterns []string
	walkFunction := func(currentDirectoryPath string, fileInformation os.FileInfo, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if !fileInformation.IsDir() {
			return nil
		}
		if !options.IncludeGit && fileInformation.Name() == utils.GitDirectoryName {
			return filepath.SkipDir
		}

		prefix := ""
		if relativeDirectory, relativeError := filepath.Rel(cleanRoot, currentDirectoryPath); relativeError == nil && relativeDirectory != "." {
			prefix = filepath.ToSlash(relativeDirectory) + utils.PathSegmentSeparator
		}

		for _, ignoreFileName := range ignoreFileNames {
			ignoreFilePath := filepath.Join(currentDirectoryPath, ignoreFileName)
			patterns, loadError := LoadIgnoreFilePatterns(fileSystem, ignoreFilePath)
			if loadError != nil {
				return fmt.Errorf(errorLoadIgnoreFileFormat, ignoreFileName, currentDirectoryPath, loadError)
			}
			for _, pattern := range patterns {
				aggregatedPatterns = append(aggregatedPatterns, prefix+strings.TrimPrefix(pattern, utils.PathSegmentSeparator))
			}
		}
		return nil
	}

	if len(ignoreFileNames) > 0 {
		if walkError := afero.Walk(fileSystem, cleanRoot, walkFunction); walkError != nil {
			return nil, walkError
		}
	}

	if !options.IncludeGit {
		aggregatedPatterns = append(aggregatedPatterns, gitDirectoryPattern)
	}

	deduplicatedPatterns := utils.DeduplicatePatterns(aggregatedPatterns)
	for _, pattern := range options.ExclusionPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if !utils.ContainsString(deduplicatedPatterns, trimmedPattern) {
			deduplicatedPatterns = append(deduplicatedPatterns, trimmedPattern)
		}
	}
	return deduplicatedPatterns, nil
}
