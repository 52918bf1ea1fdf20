package configs

import (
	"duet-server/pkg/logger"

	"go.uber.org/zap"
)

var Logger *zap.Logger

// InitLogger builds the global zap logger from the logs section.
func InitLogger() {
	logConfig := logger.Config{
		Level:  Configs.Logs.LogLevel,
		Format: "json",
	}

	if Configs.Logs.StdoutOnly {
		logConfig.Output = "stdout"
	} else {
		logConfig.Output = "file"
		logConfig.FilePath = Configs.Logs.LogPath
	}

	log, err := logger.NewZapLogger(logConfig)
	if err != nil {
		Logger = logger.DefaultZapLogger()
		return
	}
	Logger = log
}
