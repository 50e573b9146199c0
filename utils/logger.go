package utils

import (
	"go.uber.org/zap"
)

// InitLogger installs the process-wide zap logger. Services log through
// zap.L() so tests run fine against the default nop logger.
func InitLogger(isProd bool) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if isProd {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
