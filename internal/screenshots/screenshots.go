// Package screenshots locates images kept under conventional screenshot directories.
package screenshots

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/autoreadme/internal/types"
	"github.com/temirov/autoreadme/internal/utils"
)

const (
	warningSkipDirectoryMessage = "skipping unreadable screenshot directory"
	directoryLogFieldKey        = "directory"
)

// Directories are searched in order, relative to the project root.
var Directories = []string{"screenshots", "images", "assets/images", "public/images"}

// imageExtensions are compared case-insensitively.
var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// Finder collects screenshots below Root.
type Finder struct {
	Root       string
	FileSystem afero.Fs
	Logger     *zap.Logger
}

// Find returns screenshots grouped by directory in search order and sorted
// lexically within each directory. Unreadable directories are skipped.
func (finder *Finder) Find(ctx context.Context) []types.Screenshot {
	logger := utils.LoggerOrNop(finder.Logger)
	fileSystem := finder.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}

	var screenshots []types.Screenshot
	for _, directory := range Directories {
		if ctx.Err() != nil {
			return screenshots
		}
		directoryPath := filepath.Join(finder.Root, filepath.FromSlash(directory))
		if isDirectory, _ := afero.IsDir(fileSystem, directoryPath); !isDirectory {
			continue
		}
		found, walkError := findInDirectory(ctx, fileSystem, directory, directoryPath)
		if walkError != nil {
			logger.Warn(warningSkipDirectoryMessage, zap.String(directoryLogFieldKey, directory), zap.Error(walkError))
			continue
		}
		screenshots = append(screenshots, found...)
	}
	return screenshots
}

func findInDirectory(ctx context.Context, fileSystem afero.Fs, directory string, directoryPath string) ([]types.Screenshot, error) {
	var screenshots []types.Screenshot
	walkError := afero.Walk(fileSystem, directoryPath, func(currentPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			return nil
		}
		extension := strings.ToLower(filepath.Ext(info.Name()))
		if _, isImage := imageExtensions[extension]; !isImage {
			return nil
		}
		relativePath, relativeError := filepath.Rel(directoryPath, currentPath)
		if relativeError != nil {
			return relativeError
		}
		filename := filepath.ToSlash(relativePath)
		screenshots = append(screenshots, types.Screenshot{
			Name:     strings.TrimSuffix(info.Name(), filepath.Ext(info.Name())),
			Path:     path.Join(directory, filename),
			Filename: filename,
		})
		return nil
	})
	return screenshots, walkError
}
