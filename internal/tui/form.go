package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zcrypto"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zsignup/internal/identity"
	"github.com/zarlcorp/zsignup/internal/signup"
)

const (
	fieldCount        = 12
	suggestedPassword = 20
)

// allFields fixes the input slot for every draft field.
var allFields = signup.AllFields()

var placeholders = map[signup.Field]string{
	signup.FieldPhoneNumber: "+14155552671",
	signup.FieldDateOfBirth: "YYYY-MM-DD",
	signup.FieldSSN:         "123456789",
	signup.FieldState:       "CA",
	signup.FieldZipCode:     "12345",
}

// masked fields never echo their value
var masked = map[signup.Field]bool{
	signup.FieldPassword:        true,
	signup.FieldConfirmPassword: true,
	signup.FieldSSN:             true,
}

// formModel renders the current step and forwards input to the controller.
type formModel struct {
	ctx        context.Context
	ctl        *signup.Controller
	gen        *identity.Generator
	inputs     [fieldCount]textinput.Model
	focus      int // position within the current step
	submitting bool
	flash      string
}

func newFormModel(ctx context.Context, ctl *signup.Controller, gen *identity.Generator) formModel {
	var inputs [fieldCount]textinput.Model
	for i, f := range allFields {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.Width = 40
		ti.Prompt = ""
		ti.Placeholder = placeholders[f]
		if masked[f] {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '*'
		}
		ti.SetValue(ctl.Value(f))
		inputs[i] = ti
	}

	m := formModel{ctx: ctx, ctl: ctl, gen: gen, inputs: inputs}
	m.focusAt(0)
	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m.updateInput(msg)
}

func (m formModel) handleKey(msg tea.KeyMsg) (formModel, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m.back()
	}

	n := len(m.stepFields())
	switch msg.String() {
	case "tab":
		m.focusAt((m.focus + 1) % n)
		return m, textinput.Blink

	case "shift+tab":
		m.focusAt((m.focus - 1 + n) % n)
		return m, textinput.Blink

	case "ctrl+r":
		return m.fillSample(), nil

	case "ctrl+g":
		if m.ctl.Step() == signup.FirstStep {
			return m.suggestPassword(), nil
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		return m.next()
	}

	return m.updateInput(msg)
}

// updateInput feeds msg to the focused input and mirrors its value into the
// controller so errors clear while typing.
func (m formModel) updateInput(msg tea.Msg) (formModel, tea.Cmd) {
	idx := m.inputIndex(m.focus)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	m.ctl.Set(allFields[idx], m.inputs[idx].Value())
	return m, cmd
}

func (m formModel) next() (formModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	if m.ctl.Step() < signup.LastStep {
		if !m.ctl.Advance() {
			return m.focusFirstInvalid(), nil
		}
		m.flash = ""
		m.focusAt(0)
		return m, textinput.Blink
	}

	m.submitting = true
	m.flash = ""
	return m, submitCmd(m.ctx, m.ctl)
}

func (m formModel) back() (formModel, tea.Cmd) {
	if m.ctl.Step() == signup.FirstStep {
		return m, tea.Quit
	}
	m.ctl.Retreat()
	m.focusAt(0)
	return m, textinput.Blink
}

// fillSample fills the current step from a generated persona. Step 1 keeps
// password and confirmation in agreement.
func (m formModel) fillSample() formModel {
	sample := m.gen.Generate("")
	for _, f := range signup.Fields(m.ctl.Step()) {
		m.setField(f, sample.Get(f))
	}
	return m
}

func (m formModel) suggestPassword() formModel {
	pw := zcrypto.GeneratePassword(suggestedPassword)
	m.setField(signup.FieldPassword, pw)
	m.setField(signup.FieldConfirmPassword, pw)
	m.flash = "password suggested"
	return m
}

func (m *formModel) setField(f signup.Field, v string) {
	for i, af := range allFields {
		if af == f {
			m.inputs[i].SetValue(v)
			break
		}
	}
	m.ctl.Set(f, v)
}

// showInvalid walks back to the earliest step with errors after a failed
// submission and focuses the first bad field there.
func (m formModel) showInvalid() formModel {
	errs := m.ctl.Errors()
	target := m.ctl.Step()
	for f := range errs {
		if s := signup.StepOf(f); s != 0 && s < target {
			target = s
		}
	}
	for m.ctl.Step() > target {
		m.ctl.Retreat()
	}
	m.flash = "please fix the highlighted fields"
	return m.focusFirstInvalid()
}

func (m formModel) focusFirstInvalid() formModel {
	for i, f := range m.stepFields() {
		if m.ctl.Error(f) != "" {
			m.focusAt(i)
			return m
		}
	}
	m.focusAt(0)
	return m
}

// focusAt blurs every input and focuses position pos of the current step.
func (m *formModel) focusAt(pos int) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = pos
	m.inputs[m.inputIndex(pos)].Focus()
}

func (m formModel) stepFields() []signup.Field {
	return signup.Fields(m.ctl.Step())
}

// inputIndex maps a position in the current step to its input slot.
func (m formModel) inputIndex(pos int) int {
	fields := m.stepFields()
	if pos < 0 || pos >= len(fields) {
		pos = 0
	}
	for i, f := range allFields {
		if f == fields[pos] {
			return i
		}
	}
	return 0
}

func (m formModel) View() string {
	step := m.ctl.Step()
	stepStyle := lipgloss.NewStyle().Foreground(zstyle.ZburnAccent).Bold(true)
	s := "\n  " + stepStyle.Render(stepLabel(step)) + "\n\n"

	for pos, f := range m.stepFields() {
		cursor := "  "
		if pos == m.focus {
			cursor = "> "
		}
		label := zstyle.MutedText.Render(fmt.Sprintf("%-24s", f.Label()))
		s += fmt.Sprintf("  %s%s %s\n", cursor, label, m.inputs[m.inputIndex(pos)].View())

		if msg := m.ctl.Error(f); msg != "" {
			s += "    " + zstyle.StatusErr.Render(msg) + "\n"
		}
	}

	s += "\n"

	switch {
	case m.submitting:
		s += "  " + zstyle.StatusWarn.Render("Creating account...") + "\n"
	case m.ctl.SubmitError() != "":
		s += "  " + zstyle.StatusErr.Render(m.ctl.SubmitError()) + "\n"
	case m.flash != "":
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	default:
		// reserve the line to prevent layout shift
		s += "\n"
	}

	return s
}
