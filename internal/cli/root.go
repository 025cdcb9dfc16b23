// Package cli provides the command-line interface for hotkeyd.
package cli

import (
	"fmt"

	"github.com/TanaroSch/hotkeyd/internal/config"
	"github.com/TanaroSch/hotkeyd/internal/hotkey"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// BuildInfo is set from ldflags in main.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// NativeBackend builds the OS-level hotkey backend. Only main links it, so
// the parsing and config commands run on machines without a display.
type NativeBackend func(log zerolog.Logger) hotkey.Backend

// NewRootCmd creates the root command for hotkeyd. Without a subcommand it
// runs the tray application. native may be nil.
func NewRootCmd(info BuildInfo, native NativeBackend) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "hotkeyd",
		Short:         "System-wide hotkeys bound to actions",
		Long:          `hotkeyd registers global keyboard shortcuts and runs the actions bound to them: notifications, clipboard text, pastes, opening files or URLs, and commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd.Context(), info, resolveConfigPath(configPath), runOptions{native: native})
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: user config dir)")

	rootCmd.AddCommand(newRunCmd(info, &configPath, native))
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newKeysCmd())
	rootCmd.AddCommand(newValidateCmd(&configPath))
	rootCmd.AddCommand(newBackendsCmd(native))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "hotkeyd %s\n", info.Version)
			fmt.Fprintf(out, "commit: %s\n", info.Commit)
			fmt.Fprintf(out, "built: %s\n", info.BuildDate)
		},
	})

	return rootCmd
}

func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if path, err := config.DefaultPath(); err == nil {
		return path
	}
	return "config.json"
}
