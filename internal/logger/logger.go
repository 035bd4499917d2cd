package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process-wide zap logger. LOG_LEVEL defaults to info.
func New() (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(levelFromEnv())
	if err != nil {
		return nil, err
	}

	zapcfg := zap.NewProductionConfig()
	zapcfg.Level = lvl
	zl, err := zapcfg.Build()
	if err != nil {
		return nil, err
	}
	return zl.Sugar(), nil
}

func levelFromEnv() string {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		return v
	}
	return "info"
}
