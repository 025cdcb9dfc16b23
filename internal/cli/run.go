package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/TanaroSch/hotkeyd/internal/app"
	"github.com/TanaroSch/hotkeyd/internal/config"
	"github.com/TanaroSch/hotkeyd/internal/hotkey"
	"github.com/TanaroSch/hotkeyd/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type runOptions struct {
	headless bool
	backend  string
	native   NativeBackend
}

func newRunCmd(info BuildInfo, configPath *string, native NativeBackend) *cobra.Command {
	opts := runOptions{native: native}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Register the configured hotkeys and run until stopped",
		Long:  "Run hotkeyd. By default a tray icon is shown; --headless runs without one and stops on SIGINT/SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd.Context(), info, resolveConfigPath(*configPath), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "run without a tray icon")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "hotkey backend: auto, native or portal (overrides config)")
	return cmd
}

// loggerFor builds the application logger from the config's log settings,
// with HOTKEYD_LOG_* taking precedence. A tray process has no terminal, so
// an empty log_file falls back to logging.DefaultLogPath unless headless.
func loggerFor(cfg *config.Config, headless bool) (zerolog.Logger, io.Closer, error) {
	logCfg := logging.DefaultConfig()
	if lvl, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		logCfg.Level = lvl
	}
	if cfg.LogFormat != "" {
		logCfg.Format = cfg.LogFormat
	}
	logCfg.File = cfg.LogFile
	if logCfg.File == "" && !headless {
		logCfg.File = logging.DefaultLogPath()
	}
	return logging.New(logging.ApplyEnv(logCfg))
}

func runApp(ctx context.Context, info BuildInfo, configPath string, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	bootLog := logging.NewFromEnv()

	cfg, err := config.Load(configPath, config.WithLogger(bootLog))
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	log, logCloser, err := loggerFor(cfg, opts.headless)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	log.Info().Str("version", info.Version).Str("config", configPath).Msg("hotkeyd starting")

	appOpts := app.Options{
		Version: info.Version,
		Loader:  config.NewLoader(configPath, config.WithLogger(log)),
		Log:     log,
	}
	if opts.native != nil {
		appOpts.Native = opts.native(log)
	}
	if opts.backend != "" {
		kind, err := hotkey.ParseBackendKind(opts.backend)
		if err != nil {
			return err
		}
		if appOpts.Backend, err = hotkey.SelectBackend(kind, appOpts.Native, log); err != nil {
			return err
		}
	}

	application, err := app.New(appOpts)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !opts.headless {
		return application.Run(ctx, false)
	}

	var runErr error
	hotkey.RunOnMainThread(func() {
		runErr = application.Run(ctx, true)
	})
	return runErr
}
