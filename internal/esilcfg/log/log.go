package log

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"

	"esilcfg/internal/logging"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
	logger      *logging.LoggerCloser
)

// Setup installs the process logger as the slog default. An empty logFile
// keeps the ESILCFG_LOG_* environment behaviour; debug forces debug level.
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
			if err == nil {
				logger = logging.NewLoggerWithWriter(f)
			}
		}
		if logger == nil {
			logger = logging.NewLogger()
		}
		if debug {
			logger.SetLevel(charmlog.DebugLevel)
			logger.SetReportCaller(true)
		}

		slog.SetDefault(slog.New(logger.Logger))
		initialized.Store(true)
	})
}

// Logger returns the process logger, or the charm default before Setup
func Logger() *charmlog.Logger {
	if !Initialized() {
		return charmlog.Default()
	}
	return logger.Logger
}

// Close flushes and closes a file backed logger
func Close() error {
	if !Initialized() {
		return nil
	}
	return logger.Close()
}

func Initialized() bool {
	return initialized.Load()
}

func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
