package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the immutable configuration handed to the filter at
// construction: the moderation endpoint and credentials plus the two
// per-direction enable flags.
type Config struct {
	Censor CensorConfig `mapstructure:"censor"`
	Filter FilterConfig `mapstructure:"filter"`
}

type CensorConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	AccessKeySecret string        `mapstructure:"access_key_secret"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type FilterConfig struct {
	InputEnabled    bool   `mapstructure:"input_enabled"`
	OutputEnabled   bool   `mapstructure:"output_enabled"`
	InputRejection  string `mapstructure:"input_rejection"`
	OutputRejection string `mapstructure:"output_rejection"`
}

const defaultEndpoint = "https://green-cip.cn-shanghai.aliyuncs.com"

var globalConfig Config

func Load(configPath string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No file is fine, environment variables still apply.
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaultValues()

	return nil
}

func setDefaultValues() {
	if globalConfig.Censor.Endpoint == "" {
		globalConfig.Censor.Endpoint = defaultEndpoint
	}
	if globalConfig.Censor.RequestTimeout == 0 {
		globalConfig.Censor.RequestTimeout = 10 * time.Second
	}
}

func GetConfig() *Config {
	return &globalConfig
}

// Validate checks that credentials are present whenever at least one
// direction is enabled; a fully disabled filter needs none.
func (c *Config) Validate() error {
	if !c.Filter.InputEnabled && !c.Filter.OutputEnabled {
		return nil
	}
	if c.Censor.Endpoint == "" {
		return fmt.Errorf("censor endpoint must be specified")
	}
	if c.Censor.AccessKeyID == "" {
		return fmt.Errorf("access key id must be specified")
	}
	if c.Censor.AccessKeySecret == "" {
		return fmt.Errorf("access key secret must be specified")
	}
	return nil
}
