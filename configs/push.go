package configs

type PushConfig struct {
	GatewayUrl     string `mapstructure:"gateway_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Channel        string `mapstructure:"channel"`
}
