package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/httpcodec"
	"github.com/wippyai/httpcodec/codec"
	"github.com/wippyai/httpcodec/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	treeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	atomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectTree modelState = iota
	stateInputParts
	stateShowResult
)

type interactiveModel struct {
	err      error
	entries  []galleryEntry
	eng      *engine.Engine
	atoms    []*codec.Atom
	inputs   []textinput.Model
	result   string
	selected int
	focusIdx int
	state    modelState
}

type decodeResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(entries []galleryEntry) *interactiveModel {
	return &interactiveModel{
		entries: entries,
		state:   stateSelectTree,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateSelectTree || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectTree && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectTree && m.selected < len(m.entries)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectTree:
				if err := m.prepareInputs(); err != nil {
					m.err = err
					m.state = stateShowResult
					return m, nil
				}
				if len(m.inputs) == 0 {
					return m, m.decode
				}
				m.state = stateInputParts

			case stateInputParts:
				return m, m.decode

			case stateShowResult:
				m.state = stateSelectTree
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputParts && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputParts:
				m.state = stateSelectTree
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectTree
				m.result = ""
				m.err = nil
			}
		}

	case decodeResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputParts {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() error {
	eng, err := engine.Compile(m.entries[m.selected].tree)
	if err != nil {
		return err
	}
	m.eng = eng
	m.atoms = codec.Atoms(eng.Tree())
	m.inputs = make([]textinput.Model, len(m.atoms))
	for i, a := range m.atoms {
		ti := textinput.New()
		ti.Placeholder = atomPlaceholder(a)
		ti.Prompt = atomPrompt(a) + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
	return nil
}

func atomPrompt(a *codec.Atom) string {
	if a.Name != "" {
		return a.Kind.String() + " " + a.Name
	}
	return a.Kind.String() + " #" + strconv.Itoa(a.Index)
}

func atomPlaceholder(a *codec.Atom) string {
	switch {
	case a.Text != nil:
		return a.Text.Tag()
	case a.Schema != nil:
		return a.Schema.ContentType()
	default:
		return ""
	}
}

// decode assembles message parts from the current inputs and runs the
// compiled engine against them. Blank inputs leave their part absent, so
// missing-atom and optional behavior can be explored directly.
func (m *interactiveModel) decode() tea.Msg {
	parts := httpcodec.NewParts()
	for i, a := range m.atoms {
		value := m.inputs[i].Value()
		if value == "" {
			continue
		}
		switch a.Kind {
		case codec.AtomRoute:
			parts.Path = append(parts.Path, value)
		case codec.AtomQuery:
			parts.Query.Add(a.Name, value)
		case codec.AtomHeader:
			parts.Header.Add(a.Name, value)
		case codec.AtomMethod:
			parts.Method = value
		case codec.AtomStatus:
			code, err := strconv.Atoi(value)
			if err != nil {
				return decodeResultMsg{err: fmt.Errorf("status must be numeric: %w", err)}
			}
			parts.Status = code
		case codec.AtomBody:
			parts.Body = []byte(value)
		case codec.AtomBodyStream:
			parts.BodyStream = httpcodec.LineFrames(strings.NewReader(value))
		}
	}

	v, err := m.eng.Decode(context.Background(), parts)
	if err != nil {
		return decodeResultMsg{err: err}
	}
	return decodeResultMsg{result: fmt.Sprintf("%#v", v)}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Codec Viewer"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectTree:
		b.WriteString("Select a codec tree:\n\n")
		for i, e := range m.entries {
			line := e.name + "  " + atomStyle.Render(summarize(e.tree))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter inspect • q quit"))

	case stateInputParts:
		e := m.entries[m.selected]
		b.WriteString(fmt.Sprintf("Message parts for %s\n\n", treeStyle.Render(e.name)))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter decode • esc back"))

	case stateShowResult:
		e := m.entries[m.selected]
		b.WriteString(fmt.Sprintf("Decode result for %s:\n\n", treeStyle.Render(e.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • ctrl+c quit"))
	}

	return b.String()
}

func summarize(tree *codec.Codec) string {
	atoms := codec.Atoms(tree)
	names := make([]string, len(atoms))
	for i, a := range atoms {
		names[i] = a.Kind.String()
		if a.Name != "" {
			names[i] += "(" + a.Name + ")"
		}
	}
	return strings.Join(names, " + ")
}

func runInteractive(entries []galleryEntry) error {
	p := tea.NewProgram(newInteractiveModel(entries), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
