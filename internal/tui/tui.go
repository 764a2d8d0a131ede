// Package tui implements the root Bubble Tea model for the signup wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zsignup/internal/identity"
	"github.com/zarlcorp/zsignup/internal/signup"
)

type viewID int

const (
	viewForm viewID = iota
	viewDone
)

// submitResultMsg carries the outcome of a submission run off the UI loop.
type submitResultMsg struct {
	err error
}

// flashMsg clears the flash after a timeout.
type flashMsg struct{}

// Model is the root TUI model.
type Model struct {
	version string
	ctl     *signup.Controller
	active  viewID
	form    formModel
	done    doneModel

	// terminal dimensions
	width  int
	height int
}

// New creates the root TUI model around ctl. Submissions run under ctx; gen
// backs the sample fill shortcut.
func New(ctx context.Context, version string, ctl *signup.Controller, gen *identity.Generator) Model {
	return Model{
		version: version,
		ctl:     ctl,
		active:  viewForm,
		form:    newFormModel(ctx, ctl, gen),
	}
}

// Completed reports whether the signup was accepted before the program
// exited.
func (m Model) Completed() bool {
	return m.active == viewDone
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case submitResultMsg:
		return m.handleSubmitResult(msg.err)
	}

	return m.updateActive(msg)
}

func (m Model) handleSubmitResult(err error) (tea.Model, tea.Cmd) {
	m.form.submitting = false

	switch {
	case err == nil:
		m.done = newDoneModel(m.ctl.Draft())
		m.active = viewDone
		return m, tea.ClearScreen

	case errors.Is(err, signup.ErrBusy):
		// the first submission's result is still on its way
		m.form.submitting = true
		return m, nil

	case errors.Is(err, signup.ErrCompleted):
		m.done = newDoneModel(m.ctl.Draft())
		m.active = viewDone
		return m, nil

	case errors.Is(err, signup.ErrInvalid):
		m.form = m.form.showInvalid()
		return m, clearFlashAfter()
	}

	// collaborator rejection: the controller already holds the message
	return m, nil
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active {
	case viewForm:
		m.form, cmd = m.form.Update(msg)
	case viewDone:
		m.done, cmd = m.done.Update(msg)
	}

	return m, cmd
}

func (m Model) View() string {
	var content string
	switch m.active {
	case viewForm:
		content = m.form.View()
	case viewDone:
		content = m.done.View()
	}

	header := zstyle.RenderHeader("zsignup", viewTitle(m.active), zstyle.ZburnAccent)
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(helpFor(m.active, m.ctl.Step()))

	return "\n" + header + "\n" + sep + "\n" + content + "\n" + footer + "\n"
}

// viewTitle returns the display title for each view.
func viewTitle(id viewID) string {
	switch id {
	case viewForm:
		return "Create your account"
	case viewDone:
		return "Welcome"
	}
	return ""
}

// helpFor returns keybinding pairs for each view's footer.
func helpFor(id viewID, step int) []zstyle.HelpPair {
	switch id {
	case viewForm:
		pairs := []zstyle.HelpPair{
			{Key: "tab", Desc: "next field"},
			{Key: "shift+tab", Desc: "prev field"},
		}
		if step < signup.LastStep {
			pairs = append(pairs, zstyle.HelpPair{Key: "enter", Desc: "next"})
		} else {
			pairs = append(pairs, zstyle.HelpPair{Key: "enter", Desc: "create account"})
		}
		if step == signup.FirstStep {
			pairs = append(pairs,
				zstyle.HelpPair{Key: "ctrl+g", Desc: "suggest password"},
				zstyle.HelpPair{Key: "esc", Desc: "quit"},
			)
		} else {
			pairs = append(pairs, zstyle.HelpPair{Key: "esc", Desc: "previous"})
		}
		return append(pairs, zstyle.HelpPair{Key: "ctrl+r", Desc: "sample"})
	case viewDone:
		return []zstyle.HelpPair{
			{Key: "enter", Desc: "exit"},
			{Key: "q", Desc: "quit"},
		}
	}
	return nil
}

// submitCmd runs the controller's submission off the UI loop.
func submitCmd(ctx context.Context, ctl *signup.Controller) tea.Cmd {
	return func() tea.Msg {
		return submitResultMsg{err: ctl.Submit(ctx)}
	}
}

func clearFlashAfter() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}

func stepLabel(step int) string {
	return fmt.Sprintf("Step %d of %d", step, signup.LastStep)
}
