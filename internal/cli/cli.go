// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/autoreadme/internal/config"
	"github.com/temirov/autoreadme/internal/readme"
	"github.com/temirov/autoreadme/internal/scan"
	"github.com/temirov/autoreadme/internal/services/clipboard"
	"github.com/temirov/autoreadme/internal/structure"
	"github.com/temirov/autoreadme/internal/tokenizer"
	"github.com/temirov/autoreadme/internal/types"
	"github.com/temirov/autoreadme/internal/utils"
)

const (
	exclusionFlagName   = "e"
	noGitignoreFlagName = "no-gitignore"
	noIgnoreFlagName    = "no-ignore"
	includeGitFlagName  = "git"
	workersFlagName     = "workers"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	copyFlagName        = "copy"
	forceFlagName       = "force"
	forceFlagShorthand  = "f"
	outputFlagName      = "output"
	outputFlagShorthand = "o"
	stdoutFlagName      = "stdout"
	globalFlagName      = "global"
	configFlagName      = "config"
	verboseFlagName     = "verbose"
	versionFlagName     = "version"
	versionTemplate     = "autoreadme version: %s\n"
	defaultPath         = "."

	rootUse              = "autoreadme"
	rootShortDescription = "autoreadme generates README files from project sources"
	rootLongDescription  = `autoreadme scans a project directory and writes a README.md describing it.
It annotates the folder structure, detects frameworks, features and HTTP routes,
and skips regeneration when nothing changed since the last run.`

	generateUse              = types.CommandGenerate + " [path]"
	generateAlias            = "g"
	generateShortDescription = "generate the README (" + generateAlias + ")"
	generateLongDescription  = `Generate README.md for the project at path (default: current directory).
The README records a checksum of the project; when it still matches, generation
is skipped unless --force is given. Use --stdout to print without writing.`
	generateUsageExample = `  # Regenerate even when nothing changed
  autoreadme generate --force

  # Preview the README of another project and copy it
  autoreadme g ../service --stdout --copy`

	structureUse              = types.CommandStructure + " [path]"
	structureAlias            = "s"
	structureTreeAlias        = "tree"
	structureShortDescription = "print the annotated folder structure (" + structureAlias + ")"
	structureUsageExample     = `  # Print the tree excluding fixtures
  autoreadme structure -e testdata .`

	initUse              = types.CommandInit
	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write the default configuration to .autoreadme.yaml in the current directory,
or to ~/.autoreadme/config.yaml with --global.`

	exclusionFlagDescription        = "exclude path pattern"
	disableGitignoreFlagDescription = "do not use .gitignore"
	disableIgnoreFlagDescription    = "do not use .ignore"
	includeGitFlagDescription       = "include git directory"
	workersFlagDescription          = "number of concurrent file readers"
	tokensFlagDescription           = "report the estimated token count of the README"
	modelFlagDescription            = "tokenizer model to use for token counting"
	copyFlagDescription             = "copy the output to the system clipboard"
	forceFlagDescription            = "regenerate even when the project is unchanged"
	outputFlagDescription           = "README path, relative to the project root"
	stdoutFlagDescription           = "print the README instead of writing it"
	globalFlagDescription           = "write the global configuration file"
	initForceFlagDescription        = "overwrite an existing configuration file"
	configFlagDescription           = "configuration file path"
	verboseFlagDescription          = "enable debug logging"
	versionFlagDescription          = "display application version"

	generatedMessageFormat       = "Generated %s (%s)\n"
	upToDateMessageFormat        = "No changes detected; %s is up to date\n"
	tokenReportFormat            = "Estimated tokens (%s): %d\n"
	initMessageFormat            = "Configuration written to %s\n"
	copiedMessage                = "Copied to clipboard\n"
	errorAbsolutePathFormat      = "abs failed for '%s': %w"
	errorPathMissingFormat       = "path '%s' does not exist"
	errorStatFormat              = "stat failed for '%s': %w"
	errorNotDirectoryFormat      = "path '%s' is not a directory"
	errorLoadConfigurationFormat = "load configuration: %w"
	errorIgnorePatternsFormat    = "load ignore patterns: %w"
	errorTokenCounterFormat      = "initialize token counter: %w"
	errorTokenCountFormat        = "count tokens: %w"
	errorCopyFormat              = "copy to clipboard: %w"
	errorWorkingDirectoryFormat  = "unable to determine working directory: %w"
	errorLoggerFormat            = "initialize verbose logger: %w"
)

// Dependencies are the collaborators shared by every command.
type Dependencies struct {
	Logger    *zap.Logger
	Clipboard clipboard.Copier
	// RemoteLookup defaults to the git origin lookup.
	RemoteLookup readme.RemoteLookup
}

// Execute runs the autoreadme application.
func Execute(ctx context.Context, logger *zap.Logger) error {
	rootCommand := createRootCommand(&Dependencies{Logger: logger, Clipboard: clipboard.NewSystem()})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

type rootOptions struct {
	configPath  string
	verbose     bool
	showVersion bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies *Dependencies) *cobra.Command {
	options := &rootOptions{}
	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
			if options.verbose {
				verboseLogger, loggerErr := utils.NewApplicationLoggerWithLevel(zapcore.DebugLevel)
				if loggerErr != nil {
					return fmt.Errorf(errorLoggerFormat, loggerErr)
				}
				dependencies.Logger = verboseLogger
			}
			dependencies.Logger = utils.LoggerOrNop(dependencies.Logger)
			return nil
		},
	}
	rootCommand.PersistentFlags().BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerToggleFlag(rootCommand.PersistentFlags(), &options.verbose, verboseFlagName, "", false, verboseFlagDescription)
	rootCommand.AddCommand(
		createGenerateCommand(dependencies, options),
		createStructureCommand(dependencies, options),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// pathOptions stores configuration for path-related flags.
type pathOptions struct {
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
	includeGit        bool
	workers           int
}

// addPathFlags registers path-related flags on the command.
func addPathFlags(command *cobra.Command, options *pathOptions) {
	command.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	registerToggleFlag(command.Flags(), &options.disableGitignore, noGitignoreFlagName, "", false, disableGitignoreFlagDescription)
	registerToggleFlag(command.Flags(), &options.disableIgnoreFile, noIgnoreFlagName, "", false, disableIgnoreFlagDescription)
	registerToggleFlag(command.Flags(), &options.includeGit, includeGitFlagName, "", false, includeGitFlagDescription)
	command.Flags().IntVar(&options.workers, workersFlagName, 0, workersFlagDescription)
}

// applyPathOverrides copies explicitly set path flags over configuration values.
func applyPathOverrides(flagSet *pflag.FlagSet, options pathOptions, configuration *config.ApplicationConfiguration) {
	if flagSet.Changed(exclusionFlagName) {
		configuration.Paths.Exclude = utils.DeduplicatePatterns(append(configuration.Paths.Exclude, options.exclusionPatterns...))
	}
	if flagSet.Changed(noGitignoreFlagName) {
		useGitignore := !options.disableGitignore
		configuration.Paths.UseGitignore = &useGitignore
	}
	if flagSet.Changed(noIgnoreFlagName) {
		useIgnoreFile := !options.disableIgnoreFile
		configuration.Paths.UseIgnoreFile = &useIgnoreFile
	}
	if flagSet.Changed(includeGitFlagName) {
		includeGit := options.includeGit
		configuration.Paths.IncludeGit = &includeGit
	}
	if flagSet.Changed(workersFlagName) && options.workers > 0 {
		workers := options.workers
		configuration.Workers = &workers
	}
}

// projectContext is the resolved root, configuration and ignore patterns of one invocation.
type projectContext struct {
	root           string
	configuration  config.ApplicationConfiguration
	ignorePatterns []string
}

func loadProjectContext(command *cobra.Command, arguments []string, globalOptions *rootOptions, options pathOptions) (projectContext, error) {
	root, rootErr := resolveProjectRoot(arguments)
	if rootErr != nil {
		return projectContext{}, rootErr
	}
	configuration, configurationErr := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: root,
		ExplicitFilePath: globalOptions.configPath,
	})
	if configurationErr != nil {
		return projectContext{}, fmt.Errorf(errorLoadConfigurationFormat, configurationErr)
	}
	applyPathOverrides(command.Flags(), options, &configuration)

	patterns, patternsErr := config.LoadRecursiveIgnorePatterns(root, config.IgnoreOptions{
		ExclusionPatterns: configuration.Paths.Exclude,
		UseGitignore:      config.BoolValue(configuration.Paths.UseGitignore, true),
		UseIgnoreFile:     config.BoolValue(configuration.Paths.UseIgnoreFile, true),
		IncludeGit:        config.BoolValue(configuration.Paths.IncludeGit, false),
	})
	if patternsErr != nil {
		return projectContext{}, fmt.Errorf(errorIgnorePatternsFormat, patternsErr)
	}
	return projectContext{
		root:           root,
		configuration:  configuration,
		ignorePatterns: scan.CombinePatterns(patterns),
	}, nil
}

type generateOptions struct {
	paths      pathOptions
	force      bool
	output     string
	stdout     bool
	tokens     bool
	tokenModel string
	copy       bool
}

// createGenerateCommand returns the generate subcommand.
func createGenerateCommand(dependencies *Dependencies, globalOptions *rootOptions) *cobra.Command {
	options := &generateOptions{}
	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			project, projectErr := loadProjectContext(command, arguments, globalOptions, options.paths)
			if projectErr != nil {
				return projectErr
			}
			configuration := project.configuration
			flagSet := command.Flags()
			if flagSet.Changed(outputFlagName) {
				configuration.Output = options.output
			}
			if flagSet.Changed(tokensFlagName) {
				configuration.Tokens.Enabled = &options.tokens
			}
			if flagSet.Changed(modelFlagName) {
				configuration.Tokens.Model = options.tokenModel
			}

			generator := &readme.Generator{
				Root:           project.root,
				ProjectName:    configuration.ProjectName,
				Description:    configuration.Description,
				License:        configuration.ResolvedLicense(),
				Features:       configuration.ResolvedFeatures(),
				OutputPath:     configuration.ResolvedOutput(),
				IgnorePatterns: project.ignorePatterns,
				Concurrency:    configuration.ResolvedWorkers(),
				FileSystem:     afero.NewOsFs(),
				Logger:         dependencies.Logger,
				RemoteLookup:   dependencies.RemoteLookup,
			}
			return runGenerate(command, generator, options, configuration, dependencies)
		},
	}

	addPathFlags(generateCommand, &options.paths)
	registerToggleFlag(generateCommand.Flags(), &options.force, forceFlagName, forceFlagShorthand, false, forceFlagDescription)
	generateCommand.Flags().StringVarP(&options.output, outputFlagName, outputFlagShorthand, config.DefaultOutputFileName, outputFlagDescription)
	registerToggleFlag(generateCommand.Flags(), &options.stdout, stdoutFlagName, "", false, stdoutFlagDescription)
	registerToggleFlag(generateCommand.Flags(), &options.tokens, tokensFlagName, "", false, tokensFlagDescription)
	generateCommand.Flags().StringVar(&options.tokenModel, modelFlagName, config.DefaultTokenModel, modelFlagDescription)
	registerToggleFlag(generateCommand.Flags(), &options.copy, copyFlagName, "", false, copyFlagDescription)
	return generateCommand
}

func runGenerate(command *cobra.Command, generator *readme.Generator, options *generateOptions, configuration config.ApplicationConfiguration, dependencies *Dependencies) error {
	ctx := command.Context()
	output := command.OutOrStdout()

	var result types.GenerateResult
	if options.stdout {
		prepared, prepareErr := generator.Prepare(ctx)
		if prepareErr != nil {
			return prepareErr
		}
		result = prepared
		fmt.Fprint(output, result.Content)
	} else {
		generated, generateErr := generator.Generate(ctx, options.force)
		if generateErr != nil {
			return generateErr
		}
		result = generated
		if !result.Updated {
			fmt.Fprintf(output, upToDateMessageFormat, result.Path)
			return nil
		}
		fmt.Fprintf(output, generatedMessageFormat, result.Path, utils.FormatFileSize(int64(len(result.Content))))
	}

	if config.BoolValue(configuration.Tokens.Enabled, false) {
		if err := reportTokens(command.ErrOrStderr(), result.Content, configuration.Tokens.ResolvedModel()); err != nil {
			return err
		}
	}
	if options.copy {
		return copyToClipboard(command.ErrOrStderr(), dependencies.Clipboard, result.Content)
	}
	return nil
}

func reportTokens(writer io.Writer, content string, model string) error {
	counter, resolvedModel, counterErr := tokenizer.NewCounter(model)
	if counterErr != nil {
		return fmt.Errorf(errorTokenCounterFormat, counterErr)
	}
	counted, countErr := tokenizer.CountBytes(counter, []byte(content))
	if countErr != nil {
		return fmt.Errorf(errorTokenCountFormat, countErr)
	}
	fmt.Fprintf(writer, tokenReportFormat, resolvedModel, counted.Tokens)
	return nil
}

func copyToClipboard(writer io.Writer, copier clipboard.Copier, content string) error {
	if copier == nil {
		copier = clipboard.NewSystem()
	}
	if err := copier.Copy(content); err != nil {
		return fmt.Errorf(errorCopyFormat, err)
	}
	fmt.Fprint(writer, copiedMessage)
	return nil
}

type structureOptions struct {
	paths pathOptions
	copy  bool
}

// createStructureCommand returns the structure subcommand.
func createStructureCommand(dependencies *Dependencies, globalOptions *rootOptions) *cobra.Command {
	options := &structureOptions{}
	structureCommand := &cobra.Command{
		Use:     structureUse,
		Aliases: []string{structureAlias, structureTreeAlias},
		Short:   structureShortDescription,
		Example: structureUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			project, projectErr := loadProjectContext(command, arguments, globalOptions, options.paths)
			if projectErr != nil {
				return projectErr
			}
			tree := structure.Generate(command.Context(), structure.Options{
				Root:           project.root,
				IgnorePatterns: project.ignorePatterns,
				Concurrency:    project.configuration.ResolvedWorkers(),
				Logger:         dependencies.Logger,
			})
			fmt.Fprintln(command.OutOrStdout(), tree)
			if options.copy {
				return copyToClipboard(command.ErrOrStderr(), dependencies.Clipboard, tree)
			}
			return nil
		},
	}
	addPathFlags(structureCommand, &options.paths)
	registerToggleFlag(structureCommand.Flags(), &options.copy, copyFlagName, "", false, copyFlagDescription)
	return structureCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryErr := os.Getwd()
			if workingDirectoryErr != nil {
				return fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryErr)
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destination, initErr := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
			})
			if initErr != nil {
				return initErr
			}
			fmt.Fprintf(command.OutOrStdout(), initMessageFormat, destination)
			return nil
		},
	}
	registerToggleFlag(initCommand.Flags(), &global, globalFlagName, "", false, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &force, forceFlagName, forceFlagShorthand, false, initForceFlagDescription)
	return initCommand
}

// resolveProjectRoot converts the optional path argument to an absolute directory.
func resolveProjectRoot(arguments []string) (string, error) {
	inputPath := defaultPath
	if len(arguments) > 0 {
		inputPath = arguments[0]
	}
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return "", fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return "", fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
	}
	if !info.IsDir() {
		return "", fmt.Errorf(errorNotDirectoryFormat, inputPath)
	}
	return cleanPath, nil
}
