package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a development logger for env "development" and a JSON
// production logger otherwise. An unparsable level keeps the preset's default.
func NewLogger(env, level string) *zap.Logger {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	if level != "" {
		if lvl, err := zapcore.ParseLevel(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}
