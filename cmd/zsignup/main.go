package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zsignup/internal/cli"
	"github.com/zarlcorp/zsignup/internal/config"
	"github.com/zarlcorp/zsignup/internal/identity"
	"github.com/zarlcorp/zsignup/internal/prompt"
	"github.com/zarlcorp/zsignup/internal/signup"
	"github.com/zarlcorp/zsignup/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := zapp.New(zapp.WithName("zsignup"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	if len(os.Args) > 1 {
		runCLI(ctx, os.Args[1])
		_ = app.Close()
		return
	}

	if err := runTUI(ctx); err != nil {
		slog.Error("tui", "err", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

func runCLI(ctx context.Context, cmd string) {
	switch cmd {
	case "version":
		fmt.Printf("zsignup %s\n", version)
	case "prompt":
		if err := runPrompt(ctx); err != nil {
			config.Exitf("%v", err)
		}
	case "validate":
		cli.CmdValidate(os.Args[2:])
	case "ssn-digest":
		cli.CmdSSNDigest()
	case "ssn-key":
		cli.CmdSSNKey(os.Args[2:])
	case "sample":
		cli.CmdSample(os.Args[2:])
	default:
		config.Exitf("unknown command %q", cmd)
	}
}

// newController wires the controller to the configured submitter. Startup
// warnings go to the default logger; log receives everything after that.
func newController(log *slog.Logger) (*signup.Controller, error) {
	key, err := cli.LoadKey(slog.Default())
	if err != nil {
		return nil, err
	}
	s, err := cli.NewSubmitter(key, log)
	if err != nil {
		return nil, err
	}
	return signup.New(s, signup.WithLogger(log)), nil
}

func runPrompt(ctx context.Context) error {
	ctl, err := newController(slog.Default())
	if err != nil {
		return err
	}
	err = prompt.NewFlow(ctl, prompt.NewSurveyDriver(os.Stdout)).Run(ctx)
	if errors.Is(err, prompt.ErrAborted) {
		return errors.New("aborted")
	}
	return err
}

func runTUI(ctx context.Context) error {
	// the wizard owns the terminal; keep controller logs off it
	ctl, err := newController(slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}

	m := tui.New(ctx, version, ctl, identity.New())
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if fm, ok := finalModel.(tui.Model); ok && fm.Completed() {
		fmt.Println("account created")
	}

	return nil
}
