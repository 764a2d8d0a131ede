package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zsignup/internal/signup"
)

// doneModel confirms an accepted signup.
type doneModel struct {
	name  string
	email string
}

func newDoneModel(d signup.Draft) doneModel {
	return doneModel{name: d.FirstName + " " + d.LastName, email: d.Email}
}

func (m doneModel) Update(msg tea.Msg) (doneModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.Type == tea.KeyCtrlC || key.Matches(msg, zstyle.KeyQuit) || key.Matches(msg, zstyle.KeyEnter) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m doneModel) View() string {
	s := "\n  " + zstyle.StatusOK.Render("account created") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", zstyle.MutedText.Render(fmt.Sprintf("%-8s", "name")), m.name)
	s += fmt.Sprintf("  %s %s\n", zstyle.MutedText.Render(fmt.Sprintf("%-8s", "email")), m.email)
	return s + "\n"
}
