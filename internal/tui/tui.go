// Package tui is an interactive transliterator: type in one scheme and see the
// text in another as you go.
package tui

import (
	"fmt"
	"strings"

	"github.com/NaanProphet/sanscript/internal/transliteration"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// Converter is the part of a transliteration.Transliterator the TUI needs.
type Converter interface {
	Transliterate(text, from, to string, opts transliteration.Options) (string, error)
	Schemes() []string
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	schemeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	onStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

type model struct {
	conv    Converter
	schemes []string
	from    int
	to      int
	opts    transliteration.Options
	input   textinput.Model
	output  string
	err     error
	width   int
}

func newModel(conv Converter, from, to string) (model, error) {
	schemes := conv.Schemes()
	fromIdx := lo.IndexOf(schemes, from)
	if fromIdx < 0 {
		return model{}, &transliteration.SchemeNotSupportedError{Name: from}
	}
	toIdx := lo.IndexOf(schemes, to)
	if toIdx < 0 {
		return model{}, &transliteration.SchemeNotSupportedError{Name: to}
	}

	ti := textinput.New()
	ti.Placeholder = "type here"
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 60

	return model{
		conv:    conv,
		schemes: schemes,
		from:    fromIdx,
		to:      toIdx,
		input:   ti,
	}, nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 20)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.from = (m.from + 1) % len(m.schemes)
			return m.convert(), nil
		case "shift+tab":
			m.to = (m.to + 1) % len(m.schemes)
			return m.convert(), nil
		case "ctrl+x":
			m.from, m.to = m.to, m.from
			m.input.SetValue(m.output)
			m.input.CursorEnd()
			return m.convert(), nil
		case "ctrl+s":
			m.opts.Syncope = !m.opts.Syncope
			return m.convert(), nil
		case "ctrl+g":
			m.opts.SkipSGML = !m.opts.SkipSGML
			return m.convert(), nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m.convert(), cmd
}

func (m model) convert() model {
	m.output, m.err = m.conv.Transliterate(m.input.Value(), m.schemes[m.from], m.schemes[m.to], m.opts)
	return m
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("sanscript"))
	s.WriteString("\n")
	s.WriteString(schemeStyle.Render(m.schemes[m.from]))
	s.WriteString(labelStyle.Render(" → "))
	s.WriteString(schemeStyle.Render(m.schemes[m.to]))
	s.WriteString("   ")
	s.WriteString(flag("syncope", m.opts.Syncope))
	s.WriteString(" ")
	s.WriteString(flag("skip-sgml", m.opts.SkipSGML))
	s.WriteString("\n\n")

	s.WriteString("> " + m.input.View())
	s.WriteString("\n\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		s.WriteString(boxStyle.Render(m.output))
	}
	s.WriteString("\n\n")

	s.WriteString(dimStyle.Render("tab: source  shift+tab: target  ctrl+x: swap  ctrl+s: syncope  ctrl+g: skip sgml  esc: quit"))
	s.WriteString("\n")
	return s.String()
}

func flag(name string, on bool) string {
	if on {
		return onStyle.Render("[" + name + "]")
	}
	return dimStyle.Render("[" + name + "]")
}

// Run starts the interactive transliterator and blocks until the user quits.
func Run(conv Converter, from, to string) error {
	m, err := newModel(conv, from, to)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
