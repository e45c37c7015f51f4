package logger

import (
	"os"

	"go.uber.org/zap"
)

var log *zap.SugaredLogger = zap.NewNop().Sugar()

// Init builds the process-wide logger. APP_ENV=development switches to the
// human-readable console encoder.
func Init() {
	var (
		l   *zap.Logger
		err error
	)
	if os.Getenv("APP_ENV") == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(l)
	log = l.Sugar()
}

// L returns the shared sugared logger. Safe to call before Init (no-op logger).
func L() *zap.SugaredLogger {
	return log
}

func Sync() {
	_ = log.Sync()
}
