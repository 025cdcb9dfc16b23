package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/TanaroSch/hotkeyd/internal/cli"
	"github.com/TanaroSch/hotkeyd/internal/hotkey"
	"github.com/TanaroSch/hotkeyd/internal/hotkey/native"
	"github.com/rs/zerolog"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var nativeBackend cli.NativeBackend
	if native.Supported {
		nativeBackend = func(log zerolog.Logger) hotkey.Backend { return native.New(log) }
	}

	root := cli.NewRootCmd(cli.BuildInfo{Version: version, Commit: commit, BuildDate: buildDate}, nativeBackend)
	if err := root.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, cli.ErrInvalid) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
