package rxz

import (
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var logger = atomic.NewPointer[zap.Logger](nil)

// SetLogger installs the logger used for unhandled errors, dropped values and
// recovered side-effect panics. Passing nil restores the default, which is the
// global zap logger (zap.L).
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

// Logger returns the logger installed with SetLogger, or zap.L when none is.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.L()
}

func logUnhandled(err error) {
	Logger().Error("unhandled stream error", zap.Error(err))
}
