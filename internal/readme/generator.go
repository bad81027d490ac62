package readme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/autoreadme/internal/analyzer"
	"github.com/temirov/autoreadme/internal/checksum"
	"github.com/temirov/autoreadme/internal/features"
	"github.com/temirov/autoreadme/internal/gitinfo"
	"github.com/temirov/autoreadme/internal/routes"
	"github.com/temirov/autoreadme/internal/screenshots"
	"github.com/temirov/autoreadme/internal/structure"
	"github.com/temirov/autoreadme/internal/types"
	"github.com/temirov/autoreadme/internal/utils"
)

const (
	errorReadExistingFormat = "read existing README %s: %w"
	errorWriteFormat        = "write README %s: %w"
	errorCreateParentFormat = "create README directory %s: %w"
	errorResolveRootFormat  = "resolve project root %s: %w"
	errorGatherFormat       = "gather project information for %s: %w"

	debugUnchangedMessage = "README is up to date"
	debugGatherMessage    = "gathering project information"
	pathLogFieldKey       = "path"
	checksumLogFieldKey   = "checksum"
	rootLogFieldKey       = "root"
)

// RemoteLookup resolves the repository URL for a project directory.
type RemoteLookup func(ctx context.Context, directory string) string

// Generator assembles and writes the README of the project at Root.
type Generator struct {
	Root        string
	ProjectName string
	Description string
	License     string
	// Features enables README sections; see types.DefaultFeatures.
	Features []string
	// OutputPath is resolved against Root when relative.
	OutputPath     string
	IgnorePatterns []string
	Concurrency    int
	Settings       Settings
	FileSystem     afero.Fs
	Logger         *zap.Logger
	// RemoteLookup defaults to gitinfo.RemoteOriginURL.
	RemoteLookup RemoteLookup
}

// Prepare gathers project information and renders the README without writing it.
func (generator *Generator) Prepare(ctx context.Context) (types.GenerateResult, error) {
	absoluteRoot, resolveError := filepath.Abs(generator.Root)
	if resolveError != nil {
		return types.GenerateResult{}, fmt.Errorf(errorResolveRootFormat, generator.Root, resolveError)
	}
	return generator.prepare(ctx, absoluteRoot, generator.checksum(ctx, absoluteRoot))
}

func (generator *Generator) prepare(ctx context.Context, absoluteRoot string, projectChecksum string) (types.GenerateResult, error) {
	info, gatherError := generator.gather(ctx, absoluteRoot, projectChecksum)
	if gatherError != nil {
		return types.GenerateResult{}, gatherError
	}
	return types.GenerateResult{
		Updated:  true,
		Path:     generator.outputPath(absoluteRoot),
		Content:  Render(info, generator.Settings),
		Checksum: projectChecksum,
	}, nil
}

// Generate writes the README unless force is false and the existing README
// already records the current project checksum.
func (generator *Generator) Generate(ctx context.Context, force bool) (types.GenerateResult, error) {
	logger := utils.LoggerOrNop(generator.Logger)
	fileSystem := generator.fileSystem()
	absoluteRoot, resolveError := filepath.Abs(generator.Root)
	if resolveError != nil {
		return types.GenerateResult{}, fmt.Errorf(errorResolveRootFormat, generator.Root, resolveError)
	}
	outputPath := generator.outputPath(absoluteRoot)
	projectChecksum := generator.checksum(ctx, absoluteRoot)

	if !force {
		existing, readError := afero.ReadFile(fileSystem, outputPath)
		switch {
		case readError == nil:
			if recorded, found := ExtractChecksum(string(existing)); found && projectChecksum != "" && recorded == projectChecksum {
				logger.Debug(debugUnchangedMessage, zap.String(pathLogFieldKey, outputPath), zap.String(checksumLogFieldKey, projectChecksum))
				return types.GenerateResult{Updated: false, Path: outputPath, Checksum: projectChecksum}, nil
			}
		case !errors.Is(readError, os.ErrNotExist):
			return types.GenerateResult{}, fmt.Errorf(errorReadExistingFormat, outputPath, readError)
		}
	}

	result, prepareError := generator.prepare(ctx, absoluteRoot, projectChecksum)
	if prepareError != nil {
		return types.GenerateResult{}, prepareError
	}
	parentDirectory := filepath.Dir(result.Path)
	if err := fileSystem.MkdirAll(parentDirectory, 0o755); err != nil {
		return types.GenerateResult{}, fmt.Errorf(errorCreateParentFormat, parentDirectory, err)
	}
	if err := afero.WriteFile(fileSystem, result.Path, []byte(result.Content), 0o644); err != nil {
		return types.GenerateResult{}, fmt.Errorf(errorWriteFormat, result.Path, err)
	}
	return result, nil
}

func (generator *Generator) fileSystem() afero.Fs {
	if generator.FileSystem == nil {
		return afero.NewOsFs()
	}
	return generator.FileSystem
}

func (generator *Generator) outputPath(absoluteRoot string) string {
	outputPath := generator.OutputPath
	if outputPath == "" {
		outputPath = utils.ReadmeFileName
	}
	if filepath.IsAbs(outputPath) {
		return filepath.Clean(outputPath)
	}
	return filepath.Join(absoluteRoot, outputPath)
}

func (generator *Generator) checksum(ctx context.Context, absoluteRoot string) string {
	excluded := []string{utils.ReadmeFileName}
	if relativeOutput, err := filepath.Rel(absoluteRoot, generator.outputPath(absoluteRoot)); err == nil {
		excluded = append(excluded, filepath.ToSlash(relativeOutput))
	}
	return checksum.Compute(ctx, checksum.Options{
		Root:           absoluteRoot,
		IgnorePatterns: generator.IgnorePatterns,
		ExcludedFiles:  excluded,
		FileSystem:     generator.fileSystem(),
		Logger:         generator.Logger,
	})
}

// gather runs the enabled collectors concurrently. Collectors degrade to
// their fallbacks instead of failing; only cancellation aborts the gathering.
func (generator *Generator) gather(ctx context.Context, absoluteRoot string, projectChecksum string) (types.ProjectInfo, error) {
	logger := utils.LoggerOrNop(generator.Logger)
	logger.Debug(debugGatherMessage, zap.String(rootLogFieldKey, absoluteRoot))
	fileSystem := generator.fileSystem()

	info := types.ProjectInfo{
		ProjectName: generator.ProjectName,
		Description: generator.Description,
		Features:    generator.Features,
		License:     generator.License,
		Checksum:    projectChecksum,
	}
	if info.ProjectName == "" {
		info.ProjectName = filepath.Base(absoluteRoot)
	}
	if info.Features == nil {
		info.Features = types.DefaultFeatures
	}

	var report analyzer.Report
	group, groupContext := errgroup.WithContext(ctx)
	group.Go(func() error {
		report = (&analyzer.Analyzer{
			Root:           absoluteRoot,
			IgnorePatterns: generator.IgnorePatterns,
			FileSystem:     fileSystem,
			Logger:         logger,
		}).Analyze(groupContext)
		return groupContext.Err()
	})
	if info.HasFeature(types.FeatureFolderStructure) {
		group.Go(func() error {
			info.FolderStructure = structure.Generate(groupContext, structure.Options{
				Root:           absoluteRoot,
				IgnorePatterns: generator.IgnorePatterns,
				Concurrency:    generator.Concurrency,
				FileSystem:     fileSystem,
				Logger:         logger,
			})
			return groupContext.Err()
		})
	}
	if info.HasFeature(types.FeatureExtraction) {
		group.Go(func() error {
			info.ExtractedFeatures = (&features.Extractor{
				Root:           absoluteRoot,
				IgnorePatterns: generator.IgnorePatterns,
				Concurrency:    generator.Concurrency,
				FileSystem:     fileSystem,
				Logger:         logger,
			}).Extract(groupContext)
			return groupContext.Err()
		})
	}
	if info.HasFeature(types.FeatureAPIRoutes) {
		group.Go(func() error {
			info.APIRoutes = (&routes.Detector{
				Root:           absoluteRoot,
				IgnorePatterns: generator.IgnorePatterns,
				Concurrency:    generator.Concurrency,
				FileSystem:     fileSystem,
				Logger:         logger,
			}).Detect(groupContext)
			return groupContext.Err()
		})
	}
	if info.HasFeature(types.FeatureScreenshots) {
		group.Go(func() error {
			info.Screenshots = (&screenshots.Finder{Root: absoluteRoot, FileSystem: fileSystem, Logger: logger}).Find(groupContext)
			return groupContext.Err()
		})
	}
	group.Go(func() error {
		lookup := generator.RemoteLookup
		if lookup == nil {
			lookup = gitinfo.RemoteOriginURL
		}
		info.GitURL = lookup(groupContext, absoluteRoot)
		return groupContext.Err()
	})
	if waitError := group.Wait(); waitError != nil {
		return types.ProjectInfo{}, fmt.Errorf(errorGatherFormat, absoluteRoot, waitError)
	}

	info.Ecosystems = report.Ecosystems
	info.PackageInfo = report.PackageInfo
	if info.HasFeature(types.FeatureExtraction) || info.HasFeature(types.FeatureAPIRoutes) {
		info.ProjectStructure = &report.Structure
	}
	return info, nil
}
