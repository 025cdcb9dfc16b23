// Package action runs the work bound to a hotkey: notifications, clipboard
// writes, simulated pastes, opening files or URLs, and external commands.
package action

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/TanaroSch/hotkeyd/internal/config"
	"github.com/rs/zerolog"
)

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, message string)
}

// Clipboard is the subset of github.com/atotto/clipboard actions need.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// Runner executes binding actions.
type Runner struct {
	Notifier  Notifier
	Clipboard Clipboard
	// Expand resolves secret placeholders in action text. May be nil.
	Expand func(string) string
	Log    zerolog.Logger

	// Platform hooks, replaced in tests.
	paste func(ctx context.Context) error
	open  func(target string) error
}

// NewRunner returns a Runner using the system clipboard and platform
// paste/open implementations.
func NewRunner(notifier Notifier, log zerolog.Logger) *Runner {
	return &Runner{
		Notifier:  notifier,
		Clipboard: SystemClipboard{},
		Log:       log,
		paste:     simulatePaste,
		open:      OpenInDefaultApp,
	}
}

// pasteDelay gives the target window time to see the new clipboard content.
const pasteDelay = 100 * time.Millisecond

// Run executes a and returns its error.
func (r *Runner) Run(ctx context.Context, a config.Action) error {
	text := r.expand(a.Text)

	switch a.Type {
	case config.ActionNotify:
		title := a.Title
		if title == "" {
			title = "hotkeyd"
		}
		if r.Notifier == nil {
			return errors.New("notifications are not available")
		}
		r.Notifier.Notify(title, text)
		return nil

	case config.ActionClipboard:
		return r.writeClipboard(text)

	case config.ActionPaste:
		if err := r.writeClipboard(text); err != nil {
			return err
		}
		select {
		case <-time.After(pasteDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
		return r.paste(ctx)

	case config.ActionOpen:
		return r.open(r.expand(a.Target))

	case config.ActionExec:
		return r.exec(ctx, a)

	case config.ActionLog:
		r.Log.Info().Str("action", a.Type).Msg(text)
		return nil

	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
}

// Callback returns the function registered for b's hotkey. Failures are
// logged and, when a notifier is set, shown to the user.
func (r *Runner) Callback(b config.Binding) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.Action.ExecTimeout())
		defer cancel()

		start := time.Now()
		err := r.Run(ctx, b.Action)
		if err != nil {
			r.Log.Error().Err(err).Str("binding", b.Name).Str("action", b.Action.Type).Msg("action failed")
			if r.Notifier != nil && b.Action.Type != config.ActionNotify {
				r.Notifier.Notify("hotkeyd: "+b.Name, err.Error())
			}
			return
		}
		r.Log.Debug().Str("binding", b.Name).Str("action", b.Action.Type).
			Dur("took", time.Since(start)).Msg("action completed")
	}
}

func (r *Runner) expand(s string) string {
	if r.Expand == nil {
		return s
	}
	return r.Expand(s)
}

func (r *Runner) writeClipboard(text string) error {
	if r.Clipboard == nil {
		return errors.New("clipboard is not available")
	}
	if err := r.Clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

func (r *Runner) exec(ctx context.Context, a config.Action) error {
	args := make([]string, len(a.Args))
	for i, arg := range a.Args {
		args[i] = r.expand(arg)
	}

	cmd := exec.CommandContext(ctx, a.Command, args...)
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("command %s: %w", a.Command, ctx.Err())
		}
		return fmt.Errorf("command %s: %w: %s", a.Command, err, output)
	}
	r.Log.Debug().Str("command", a.Command).Str("output", output).Msg("command finished")
	return nil
}
