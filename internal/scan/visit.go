package scan

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/autoreadme/internal/utils"
)

const (
	warningSkipFileMessage = "skipping unreadable file"
	debugSkipBinaryMessage = "skipping binary file"
	fileLogFieldKey        = "file"
)

// VisitOptions configures Visit.
type VisitOptions struct {
	Root        string
	FileSystem  afero.Fs
	Concurrency int
	Logger      *zap.Logger
}

// Visit reads every relative path under options.Root concurrently and applies
// visitor to the text content of each readable file. Results keep the order of
// relativePaths; unreadable and binary files yield the zero value. Only context
// cancellation is returned as an error.
func Visit[Result any](ctx context.Context, relativePaths []string, options VisitOptions, visitor func(relativePath string, content []byte) Result) ([]Result, error) {
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	logger := utils.LoggerOrNop(options.Logger)
	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	results := make([]Result, len(relativePaths))
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for pathIndex, relativePath := range relativePaths {
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			fullPath := filepath.Join(options.Root, filepath.FromSlash(relativePath))
			content, readError := afero.ReadFile(fileSystem, fullPath)
			if readError != nil {
				logger.Warn(warningSkipFileMessage, zap.String(fileLogFieldKey, relativePath), zap.Error(readError))
				return nil
			}
			if utils.IsBinary(content) {
				logger.Debug(debugSkipBinaryMessage, zap.String(fileLogFieldKey, relativePath))
				return nil
			}
			results[pathIndex] = visitor(relativePath, content)
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return results, nil
}
