package configs

type S3Config struct {
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
}
