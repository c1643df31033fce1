package log

import "go.uber.org/zap"

var Logger = zap.NewNop()

// EnsureLogger replaces the no-op logger. Verbose selects the development
// encoder with debug level; otherwise production JSON at info level.
func EnsureLogger(verbose bool) {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return
	}

	Logger = l
}

func Sync() {
	_ = Logger.Sync()
}
