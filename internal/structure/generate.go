package structure

import (
	"context"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/autoreadme/internal/scan"
	"github.com/temirov/autoreadme/internal/utils"
)

// ErrorText replaces the tree when the folder structure cannot be produced.
const ErrorText = "Error generating folder structure"

const (
	errorGenerateMessage = "folder structure generation failed"
	rootLogFieldKey      = "root"
)

// Options configures Generate.
type Options struct {
	Root           string
	IgnorePatterns []string
	Concurrency    int
	FileSystem     afero.Fs
	Logger         *zap.Logger
}

// Generate enumerates the project under options.Root and renders its tree.
// It never fails: any error is logged and ErrorText is returned instead.
func Generate(ctx context.Context, options Options) string {
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
		logger.Error(errorGenerateMessage, zap.String(rootLogFieldKey, options.Root), zap.Error(enumerateError))
		return ErrorText
	}

	treeBuilder := &Builder{
		FileSystem:  fileSystem,
		Root:        options.Root,
		Concurrency: options.Concurrency,
		Logger:      logger,
	}
	rootNode, buildError := treeBuilder.Build(ctx, relativePaths)
	if buildError != nil {
		logger.Error(errorGenerateMessage, zap.String(rootLogFieldKey, options.Root), zap.Error(buildError))
		return ErrorText
	}
	return Format(rootNode)
}
