package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/TanaroSch/hotkeyd/internal/config"
	"github.com/TanaroSch/hotkeyd/internal/hotkey"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ErrInvalid makes the process exit non-zero after the report was printed.
var ErrInvalid = errors.New("invalid input")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <hotkey>...",
		Short: "Parse hotkey descriptions and print their canonical form",
		Example: `  hotkeyd check "ctrl+shift+k" "cmdorctrl + alt + f5"
  hotkeyd check "ctrl+a+b"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := false
			for _, desc := range args {
				hk, err := hotkey.Parse(desc)
				if err != nil {
					fmt.Fprintf(out, "✗ %s\n", err)
					failed = true
					continue
				}
				fmt.Fprintf(out, "✓ %q -> %s\n", desc, hk)
				for _, c := range hotkey.KnownConflicts(hk) {
					fmt.Fprintf(out, "  warning: usually taken by the system (%s: %s)\n", c.Name, c.Description)
				}
			}
			if failed {
				return ErrInvalid
			}
			return nil
		},
	}
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List accepted modifier and key names",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			mods := hotkey.ModifierNames()
			sort.Strings(mods)
			fmt.Fprintf(out, "Modifiers:\n  %s\n", strings.Join(mods, " "))
			fmt.Fprintf(out, "Keys:\n  %s\n", strings.Join(hotkey.KeyNames(), " "))
		},
	}
}

func newValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			path := resolveConfigPath(*configPath)
			cfg, err := config.Load(path)
			if err != nil {
				fmt.Fprintf(out, "✗ %s\n", path)
				fmt.Fprintln(out, err)
				return ErrInvalid
			}
			fmt.Fprintf(out, "✓ %s: %d binding(s), %d enabled\n", path, len(cfg.Bindings), len(cfg.EnabledBindings()))
			return nil
		},
	}
}

func newBackendsCmd(native NativeBackend) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "Show the detected display server and usable hotkey backends",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Display server: %s\n", hotkey.DetectDisplayServer())
			fmt.Fprintf(out, "Portal session bus: %t\n", hotkey.HasPortalSupport())

			portal := hotkey.NewPortalBackend(zerolog.Nop())
			defer portal.Close()

			backends := []hotkey.Backend{portal}
			if native != nil {
				backends = append([]hotkey.Backend{native(zerolog.Nop())}, backends...)
			} else {
				fmt.Fprintf(out, "  %-7s not built in\n", "native")
			}
			for _, b := range backends {
				status := "unavailable"
				if b.IsAvailable() {
					status = "available"
				}
				fmt.Fprintf(out, "  %-7s %s\n", b.Name(), status)
			}
		},
	}
}
