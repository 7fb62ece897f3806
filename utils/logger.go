package utils

import (
	"go.uber.org/zap"
)

// Log is the process-wide structured logger. InitLogger must run before the
// first request is served; the zap no-op logger covers everything earlier.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

func InitLogger(mode string) error {
	var cfg zap.Config
	switch mode {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = logger.Sugar()
	return nil
}
