// package ui implements the interactive terminal flow for playlist
// generation: a small form collecting the playlist name and theme.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/playlister/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true).MarginBottom(1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
)

// Model represents the playlist request form state.
type Model struct {
	inputs    []textinput.Model
	focus     int
	submitted bool
	cancelled bool
	err       string
}

// NewModel creates the form with the name input focused.
func NewModel() Model {
	name := textinput.New()
	name.Placeholder = "Playlist name"
	name.CharLimit = 120
	name.Focus()

	prompt := textinput.New()
	prompt.Placeholder = "Describe the playlist theme"
	prompt.CharLimit = 500

	return Model{inputs: []textinput.Model{name, prompt}}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.focus < len(m.inputs)-1 {
				m.inputs[m.focus].Blur()
				m.focus++
				m.inputs[m.focus].Focus()
				return m, nil
			}

			if m.inputs[0].Value() == "" || m.inputs[1].Value() == "" {
				m.err = "both fields are required"
				return m, nil
			}

			m.submitted = true
			return m, tea.Quit
		case tea.KeyTab, tea.KeyShiftTab:
			m.inputs[m.focus].Blur()
			if msg.Type == tea.KeyTab {
				m.focus = (m.focus + 1) % len(m.inputs)
			} else {
				m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
			}
			m.inputs[m.focus].Focus()
			return m, nil
		}
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	view := titleStyle.Render("Generate a playlist") + "\n"
	view += fmt.Sprintf("Name:  %s\n", m.inputs[0].View())
	view += fmt.Sprintf("Theme: %s\n", m.inputs[1].View())
	if m.err != "" {
		view += errStyle.Render(m.err) + "\n"
	}
	view += helpStyle.Render("enter: next/submit • tab: switch field • esc: cancel")
	return view
}

// Request returns the collected playlist request.
func (m Model) Request() models.PlaylistRequest {
	return models.PlaylistRequest{
		Name:   m.inputs[0].Value(),
		Prompt: m.inputs[1].Value(),
	}
}

// RunForm runs the form and returns the request, or ok=false when the
// user cancelled.
func RunForm() (models.PlaylistRequest, bool, error) {
	program := tea.NewProgram(NewModel())

	final, err := program.Run()
	if err != nil {
		return models.PlaylistRequest{}, false, fmt.Errorf("failed to run form: %w", err)
	}

	m, ok := final.(Model)
	if !ok || !m.submitted {
		return models.PlaylistRequest{}, false, nil
	}

	return m.Request(), true, nil
}
