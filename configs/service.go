package configs

type ServiceConfig struct {
	Name     string `mapstructure:"name"`
	HttpPort string `mapstructure:"http_port"`
	BaseUrl  string `mapstructure:"base_url"`
}
