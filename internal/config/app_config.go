package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/temirov/autoreadme/internal/types"
	"github.com/temirov/autoreadme/internal/utils"
)

const (
	// DefaultLicense is rendered when configuration names no license.
	DefaultLicense = "MIT"
	// DefaultTokenModel is used for token counting when no model is configured.
	DefaultTokenModel = "gpt-4o"
	// DefaultOutputFileName is the README written when no output is configured.
	DefaultOutputFileName = utils.ReadmeFileName

	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorResolvePathFormat      = "resolve configuration path %s: %w"
	errorStatFormat             = "stat configuration %s: %w"
	errorDirectoryFormat        = "configuration path %s is a directory"
	errorReadFormat             = "read configuration from %s: %w"
	errorDecodeFormat           = "decode configuration from %s: %w"

	projectNameKey       = "project_name"
	legacyProjectNameKey = "projectName"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds README generation defaults.
type ApplicationConfiguration struct {
	ProjectName string             `mapstructure:"project_name"`
	Description string             `mapstructure:"description"`
	License     string             `mapstructure:"license"`
	Features    []string           `mapstructure:"features"`
	Output      string             `mapstructure:"output"`
	Workers     *int               `mapstructure:"workers"`
	Tokens      TokenConfiguration `mapstructure:"tokens"`
	Paths       PathConfiguration  `mapstructure:"paths"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// PathConfiguration configures inclusion and exclusion rules for path traversal.
type PathConfiguration struct {
	Exclude       []string `mapstructure:"exclude"`
	UseGitignore  *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore"`
	IncludeGit    *bool    `mapstructure:"include_git"`
}

// LoadApplicationConfiguration loads configuration from the global file and then
// the local one, which overrides it field by field. An explicit path replaces
// the local lookup.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Paths.Exclude = utils.DeduplicatePatterns(merged.Paths.Exclude)
	return merged, nil
}

// resolveLocalConfigPath prefers the explicit path, then .autoreadme.yaml, then
// the legacy .autoreadme.json.
func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf(errorResolvePathFormat, explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	yamlPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if _, statErr := os.Stat(yamlPath); statErr == nil {
		return yamlPath, nil
	}
	legacyPath := filepath.Join(workingDirectory, utils.LegacyConfigFileName)
	if _, statErr := os.Stat(legacyPath); statErr == nil {
		return legacyPath, nil
	}
	return yamlPath, nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadFormat, path, readErr)
	}
	// .autoreadme.json files from earlier releases spell the name in camel case.
	if !reader.IsSet(projectNameKey) && reader.IsSet(legacyProjectNameKey) {
		reader.Set(projectNameKey, reader.GetString(legacyProjectNameKey))
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeFormat, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.ProjectName != "" {
		result.ProjectName = override.ProjectName
	}
	if override.Description != "" {
		result.Description = override.Description
	}
	if override.License != "" {
		result.License = override.License
	}
	if len(override.Features) > 0 {
		result.Features = append([]string{}, override.Features...)
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Workers != nil {
		result.Workers = cloneInt(override.Workers)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

// ResolvedFeatures returns the configured feature switches or the defaults.
func (config ApplicationConfiguration) ResolvedFeatures() []string {
	if len(config.Features) == 0 {
		return append([]string{}, types.DefaultFeatures...)
	}
	return utils.DeduplicatePatterns(config.Features)
}

// ResolvedLicense returns the configured license or DefaultLicense.
func (config ApplicationConfiguration) ResolvedLicense() string {
	if config.License == "" {
		return DefaultLicense
	}
	return config.License
}

// ResolvedOutput returns the configured README file name or DefaultOutputFileName.
func (config ApplicationConfiguration) ResolvedOutput() string {
	if config.Output == "" {
		return DefaultOutputFileName
	}
	return config.Output
}

// ResolvedWorkers returns the configured worker count, falling back to the CPU count.
func (config ApplicationConfiguration) ResolvedWorkers() int {
	if config.Workers == nil || *config.Workers <= 0 {
		return runtime.NumCPU()
	}
	return *config.Workers
}

// ResolvedModel returns the configured token model or DefaultTokenModel.
func (config TokenConfiguration) ResolvedModel() string {
	if config.Model == "" {
		return DefaultTokenModel
	}
	return config.Model
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	if override.IncludeGit != nil {
		result.IncludeGit = cloneBool(override.IncludeGit)
	}
	return result
}

// BoolValue dereferences value, returning fallback when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
