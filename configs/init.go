package configs

import (
	"strings"

	"github.com/spf13/viper"
)

type configs struct {
	Service ServiceConfig `mapstructure:"service"`
	MongoDB MongoDBConfig `mapstructure:"mongodb"`
	Redis   RedisConfig   `mapstructure:"redis"`
	S3      S3Config      `mapstructure:"s3"`
	Push    PushConfig    `mapstructure:"push"`
	Email   EmailConfig   `mapstructure:"email"`
	Logs    LogsConfig    `mapstructure:"logs"`
	Secrets Secrets       `mapstructure:"secrets"`
}

var Configs configs

// Init loads the configuration file and initializes the global logger.
// When path is empty, configs/file/configs.yaml relative to the working
// directory is used. Environment variables prefixed with DUET override
// file values (e.g. DUET_MONGODB_URI).
func Init(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("configs")
		v.AddConfigPath("configs/file")
	}

	v.SetEnvPrefix("DUET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	if err := v.Unmarshal(&Configs); err != nil {
		return err
	}

	InitLogger()
	return nil
}
