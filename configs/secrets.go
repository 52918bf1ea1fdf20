package configs

type Secrets struct {
	JwtSecret string `mapstructure:"jwt_secret"`
}
