package structure

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/autoreadme/internal/utils"
)

const (
	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"
	// debugStatFallbackMessage is logged when a path cannot be inspected and is treated as a file.
	debugStatFallbackMessage = "unable to stat path, treating as file"
)

// Builder reconstructs a directory tree from project-relative paths.
type Builder struct {
	FileSystem  afero.Fs
	Root        string
	Concurrency int
	Logger      *zap.Logger
}

// Build inserts every path into a fresh root node. The final segment of each
// path becomes a directory only when the filesystem reports one; stat failures
// fall back to a file entry.
func (treeBuilder *Builder) Build(ctx context.Context, relativePaths []string) (*Node, error) {
	orderedPaths := orderPathSegments(relativePaths)
	directoryFlags := make([]bool, len(orderedPaths))

	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(treeBuilder.concurrency())
	for pathIndex, segments := range orderedPaths {
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			directoryFlags[pathIndex] = treeBuilder.isDirectory(segments)
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, fmt.Errorf(errorBuildTreeFormat, treeBuilder.Root, waitError)
	}
	if contextError := ctx.Err(); contextError != nil {
		return nil, fmt.Errorf(errorBuildTreeFormat, treeBuilder.Root, contextError)
	}

	rootNode := NewDirectoryNode("")
	for pathIndex, segments := range orderedPaths {
		insertPath(rootNode, segments, directoryFlags[pathIndex])
	}
	return rootNode, nil
}

func (treeBuilder *Builder) concurrency() int {
	if treeBuilder.Concurrency > 0 {
		return treeBuilder.Concurrency
	}
	return runtime.NumCPU()
}

func (treeBuilder *Builder) isDirectory(segments []string) bool {
	fileSystem := treeBuilder.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	fullPath := filepath.Join(append([]string{treeBuilder.Root}, segments...)...)
	fileInformation, statError := fileSystem.Stat(fullPath)
	if statError != nil {
		utils.LoggerOrNop(treeBuilder.Logger).Debug(debugStatFallbackMessage, zap.String("path", fullPath), zap.Error(statError))
		return false
	}
	return fileInformation.IsDir()
}

// orderPathSegments splits every path and orders the result shallow first,
// then lexically, so parents are inserted before their children.
func orderPathSegments(relativePaths []string) [][]string {
	orderedPaths := make([][]string, 0, len(relativePaths))
	for _, relativePath := range relativePaths {
		segments := utils.SplitPathSegments(relativePath)
		if len(segments) == 0 {
			continue
		}
		orderedPaths = append(orderedPaths, segments)
	}
	sort.SliceStable(orderedPaths, func(left, right int) bool {
		if len(orderedPaths[left]) != len(orderedPaths[right]) {
			return len(orderedPaths[left]) < len(orderedPaths[right])
		}
		return strings.Join(orderedPaths[left], utils.PathSegmentSeparator) < strings.Join(orderedPaths[right], utils.PathSegmentSeparator)
	})
	return orderedPaths
}

// insertPath walks or creates the nodes for segments. Intermediate segments are
// always directories; a file node found on the way is promoted.
func insertPath(rootNode *Node, segments []string, isDirectory bool) {
	currentNode := rootNode
	for segmentIndex, segment := range segments {
		isFinalSegment := segmentIndex == len(segments)-1
		needsDirectory := !isFinalSegment || isDirectory
		existingNode, exists := currentNode.Children[segment]
		switch {
		case !exists && needsDirectory:
			existingNode = NewDirectoryNode(segment)
			currentNode.Children[segment] = existingNode
		case !exists:
			currentNode.Children[segment] = NewFileNode(segment)
			return
		case needsDirectory && !existingNode.IsDirectory():
			existingNode.promote()
		}
		if !existingNode.IsDirectory() {
			return
		}
		currentNode = existingNode
	}
}
