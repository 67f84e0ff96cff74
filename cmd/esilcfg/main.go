package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	_ "net/http/pprof" // profiling

	"esilcfg/internal/esilcfg/cmd"
	"esilcfg/internal/esilcfg/log"
)

const defaultProfileAddr = "localhost:6060"

func main() {
	os.Exit(run())
}

// run executes the CLI and returns the process exit code. A panic is logged
// and reported as exit code 2.
func run() (code int) {
	defer log.RecoverPanic("main", func() {
		slog.Error("Application terminated due to unhandled panic")
		code = 2
	})

	if addr := profileAddr(os.Getenv("ESILCFG_PROFILE")); addr != "" {
		go serveProfile(addr)
	}
	return cmd.Execute()
}

// profileAddr maps ESILCFG_PROFILE to a pprof listen address: empty or a
// false value disables profiling, a host:port is used as is and any other
// value selects the default address.
func profileAddr(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "0", "false", "off", "no":
		return ""
	}
	if strings.Contains(env, ":") {
		return strings.TrimSpace(env)
	}
	return defaultProfileAddr
}

func serveProfile(addr string) {
	slog.Info("Serving pprof", "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("Failed to pprof listen", "addr", addr, "error", err)
	}
}
