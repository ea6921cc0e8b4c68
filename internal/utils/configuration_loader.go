package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
	environmentBindingErrorTemplateConstant         = "failed to bind environment variable for %s: %w"
	jsonConfigurationTypeConstant                   = "json"
	jsonConfigurationExtensionConstant              = ".json"
	jsoncConfigurationExtensionConstant             = ".jsonc"
)

// ConfigurationLoader wraps Viper to layer embedded defaults, configuration files, and environment overrides.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	environmentKeyReplacer    *strings.Replacer
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader that searches known paths and respects an environment prefix.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName:      configurationName,
		configurationType:      configurationType,
		environmentPrefix:      environmentPrefix,
		searchPaths:            append([]string{}, searchPaths...),
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
	}
}

// SetEmbeddedConfiguration stores configuration data merged before user-provided configuration files.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)
	loader.embeddedConfiguration = nil
	if len(configurationData) > 0 {
		loader.embeddedConfiguration = append([]byte{}, configurationData...)
	}
}

// EnvironmentVariableName returns the variable that overrides the provided configuration key.
func (loader *ConfigurationLoader) EnvironmentVariableName(configurationKey string) string {
	normalizedKey := strings.ToUpper(loader.environmentKeyReplacer.Replace(configurationKey))
	if len(loader.environmentPrefix) == 0 {
		return normalizedKey
	}
	return strings.ToUpper(loader.environmentPrefix) + environmentKeySeparatorNewConstant + normalizedKey
}

// LoadConfiguration populates targetConfiguration. Precedence, lowest first: default values, embedded
// configuration, the configuration file (explicit path or discovered in the search paths), environment.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	if mergeError := loader.mergeEmbeddedConfiguration(viperInstance); mergeError != nil {
		return LoadedConfiguration{}, mergeError
	}

	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(searchPath)
	}

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if bindError := loader.bindEnvironment(viperInstance, defaultValues); bindError != nil {
		return LoadedConfiguration{}, bindError
	}

	configFileUsed, readError := loader.mergeConfigurationFile(viperInstance, configurationFilePath)
	if readError != nil {
		return LoadedConfiguration{}, readError
	}

	if unmarshalError := viperInstance.Unmarshal(targetConfiguration); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: configFileUsed}, nil
}

// mergeConfigurationFile merges the explicit configuration file, or the first one found in the search
// paths. JSON files may carry comments and trailing commas.
func (loader *ConfigurationLoader) mergeConfigurationFile(viperInstance *viper.Viper, configurationFilePath string) (string, error) {
	if isJSONConfigurationFile(configurationFilePath) {
		configurationData, readError := os.ReadFile(configurationFilePath)
		if readError != nil {
			return "", fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}

		viperInstance.SetConfigType(jsonConfigurationTypeConstant)
		defer viperInstance.SetConfigType(loader.configurationType)

		if mergeError := viperInstance.MergeConfig(bytes.NewReader(jsonc.ToJSON(configurationData))); mergeError != nil {
			return "", fmt.Errorf(configurationReadErrorTemplateConstant, mergeError)
		}
		return configurationFilePath, nil
	}

	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	readError := viperInstance.MergeInConfig()
	if readError != nil {
		notFoundError := viper.ConfigFileNotFoundError{}
		if !errors.As(readError, &notFoundError) {
			return "", fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	return viperInstance.ConfigFileUsed(), nil
}

func isJSONConfigurationFile(configurationFilePath string) bool {
	extension := strings.ToLower(filepath.Ext(strings.TrimSpace(configurationFilePath)))
	return extension == jsonConfigurationExtensionConstant || extension == jsoncConfigurationExtensionConstant
}

func (loader *ConfigurationLoader) mergeEmbeddedConfiguration(viperInstance *viper.Viper) error {
	if len(loader.embeddedConfiguration) == 0 {
		return nil
	}

	configurationType := loader.configurationType
	if len(loader.embeddedConfigurationType) > 0 {
		configurationType = loader.embeddedConfigurationType
	}

	viperInstance.SetConfigType(configurationType)
	defer viperInstance.SetConfigType(loader.configurationType)

	if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration)); mergeError != nil {
		return fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
	}
	return nil
}

// bindEnvironment enables automatic overrides and explicitly binds default keys so that
// keys absent from every configuration source still reach Unmarshal.
func (loader *ConfigurationLoader) bindEnvironment(viperInstance *viper.Viper, defaultValues map[string]any) error {
	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	viperInstance.AutomaticEnv()

	for defaultKey := range defaultValues {
		if bindError := viperInstance.BindEnv(defaultKey, loader.EnvironmentVariableName(defaultKey)); bindError != nil {
			return fmt.Errorf(environmentBindingErrorTemplateConstant, defaultKey, bindError)
		}
	}
	return nil
}
