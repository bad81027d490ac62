// Package checksum fingerprints a project so README regeneration can be skipped
// when nothing changed.
package checksum

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/autoreadme/internal/scan"
	"github.com/temirov/autoreadme/internal/utils"
)

const (
	errorChecksumMessage = "checksum calculation failed"
	rootLogFieldKey      = "root"
	recordSeparator      = "\x00"
)

// DefaultExcludedFiles never contribute to the checksum.
var DefaultExcludedFiles = []string{utils.ConfigFileName, utils.LegacyConfigFileName}

// Options controls checksum calculation.
type Options struct {
	Root           string
	IgnorePatterns []string
	// ExcludedFiles are slash-separated paths relative to Root, typically the
	// generated README.
	ExcludedFiles []string
	FileSystem    afero.Fs
	Logger        *zap.Logger
}

// Compute hashes every non-ignored file path with its modification time and
// every directory path by name alone, in sorted path order. It returns the hex digest, or an empty string when
// the project cannot be read.
func Compute(ctx context.Context, options Options) string {
	logger := utils.LoggerOrNop(options.Logger)
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}

	relativePaths, enumerateError := scan.Enumerate(ctx, options.Root, scan.Options{
		IgnorePatterns:     options.IgnorePatterns,
		IncludeDirectories: true,
		FileSystem:         fileSystem,
		Logger:             logger,
	})
	if enumerateError != nil {
		logger.Error(errorChecksumMessage, zap.String(rootLogFieldKey, options.Root), zap.Error(enumerateError))
		return ""
	}

	excluded := make(map[string]struct{}, len(DefaultExcludedFiles)+len(options.ExcludedFiles))
	for _, excludedFile := range append(append([]string{}, DefaultExcludedFiles...), options.ExcludedFiles...) {
		excluded[filepath.ToSlash(filepath.Clean(excludedFile))] = struct{}{}
	}

	digest := xxhash.New()
	for _, relativePath := range relativePaths {
		if _, skip := excluded[relativePath]; skip {
			continue
		}
		info, statError := fileSystem.Stat(filepath.Join(options.Root, filepath.FromSlash(relativePath)))
		if statError != nil {
			logger.Error(errorChecksumMessage, zap.String(rootLogFieldKey, options.Root), zap.Error(statError))
			return ""
		}
		_, _ = digest.WriteString(relativePath)
		if info.IsDir() {
			// Directory times move whenever an entry is written, including the README.
			_, _ = digest.WriteString(utils.PathSegmentSeparator + recordSeparator)
			continue
		}
		_, _ = digest.WriteString(recordSeparator)
		_, _ = digest.WriteString(info.ModTime().UTC().Format(time.RFC3339Nano))
		_, _ = digest.WriteString(recordSeparator)
	}
	return hex.EncodeToString(digest.Sum(nil))
}
