// Package scan enumerates project files relative to a root while honoring ignore patterns.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/autoreadme/internal/utils"
)

const (
	errorWalkRootFormat     = "walking %s: %w"
	warningSkipPathMessage  = "skipping unreadable path"
	errorRootNotDirectory   = "scan root %s is not a directory"
	relativePathLogFieldKey = "path"
)

// DefaultIgnorePatterns are excluded from every scan regardless of ignore files.
var DefaultIgnorePatterns = []string{
	"node_modules/",
	".git/",
	"dist/",
	"build/",
	".next/",
	"coverage/",
	".nyc_output/",
	"*.log",
	".DS_Store",
	"Thumbs.db",
}

// SourceExtensions are the files inspected for features.
var SourceExtensions = []string{".js", ".ts", ".jsx", ".tsx", ".py", ".go", ".rs", ".java", ".php"}

// Options controls enumeration.
type Options struct {
	// IgnorePatterns are matched with utils.ShouldIgnoreByPath.
	IgnorePatterns []string
	// IncludeDirectories adds directory entries to the result.
	IncludeDirectories bool
	// Extensions restricts files to the listed lowercase extensions. Empty means all files.
	Extensions []string
	// FileSystem defaults to the OS filesystem.
	FileSystem afero.Fs
	Logger     *zap.Logger
}

// Enumerate walks root and returns sorted slash-separated paths relative to it.
// Ignored directories are pruned. Unreadable entries below root are logged and
// skipped; an unreadable root is an error.
func Enumerate(ctx context.Context, root string, options Options) ([]string, error) {
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	logger := utils.LoggerOrNop(options.Logger)
	cleanRoot := filepath.Clean(root)

	rootInformation, rootStatError := fileSystem.Stat(cleanRoot)
	if rootStatError != nil {
		return nil, fmt.Errorf(errorWalkRootFormat, cleanRoot, rootStatError)
	}
	if !rootInformation.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectory, cleanRoot)
	}

	allowedExtensions := map[string]struct{}{}
	for _, extension := range options.Extensions {
		allowedExtensions[strings.ToLower(extension)] = struct{}{}
	}

	var relativePaths []string
	walkFunction := func(currentPath string, fileInformation os.FileInfo, walkError error) error {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}
		if walkError != nil {
			if currentPath == cleanRoot {
				return walkError
			}
			logger.Warn(warningSkipPathMessage, zap.String(relativePathLogFieldKey, currentPath), zap.Error(walkError))
			if fileInformation != nil && fileInformation.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if currentPath == cleanRoot {
			return nil
		}
		relativePathNative, relativeError := filepath.Rel(cleanRoot, currentPath)
		if relativeError != nil || relativePathNative == "." {
			return nil
		}
		relativePath := filepath.ToSlash(relativePathNative)
		if utils.ShouldIgnoreByPath(relativePath, options.IgnorePatterns) {
			if fileInformation.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if fileInformation.IsDir() {
			if options.IncludeDirectories {
				relativePaths = append(relativePaths, relativePath)
			}
			return nil
		}
		if len(allowedExtensions) > 0 {
			if _, allowed := allowedExtensions[strings.ToLower(filepath.Ext(currentPath))]; !allowed {
				return nil
			}
		}
		relativePaths = append(relativePaths, relativePath)
		return nil
	}

	if walkError := afero.Walk(fileSystem, cleanRoot, walkFunction); walkError != nil {
		if errors.Is(walkError, context.Canceled) || errors.Is(walkError, context.DeadlineExceeded) {
			return nil, walkError
		}
		return nil, fmt.Errorf(errorWalkRootFormat, cleanRoot, walkError)
	}
	sort.Strings(relativePaths)
	return relativePaths, nil
}

// CombinePatterns joins the default patterns with additional ones, removing duplicates.
func CombinePatterns(additionalPatterns ...[]string) []string {
	combined := append([]string{}, DefaultIgnorePatterns...)
	for _, patterns := range additionalPatterns {
		combined = append(combined, patterns...)
	}
	return utils.DeduplicatePatterns(combined)
}
