package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/image-layout/layout"
	"github.com/wippyai/image-layout/object"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	regionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	noloadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	symbolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateBrowse modelState = iota
	stateGoto
)

type inspectorModel struct {
	err      error
	img      *layout.Image
	cfg      layout.Config
	objects  []string
	located  string
	input    textinput.Model
	selected int
	expanded bool
	state    modelState
}

type evaluatedMsg struct {
	err error
	img *layout.Image
}

func newInspectorModel(cfg layout.Config, objects []string) *inspectorModel {
	input := textinput.New()
	input.Placeholder = "0x4000000"
	input.CharLimit = 18
	return &inspectorModel{
		cfg:     cfg,
		objects: objects,
		input:   input,
	}
}

func runInteractive(cfg layout.Config, objects []string) error {
	p := tea.NewProgram(newInspectorModel(cfg, objects), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *inspectorModel) Init() tea.Cmd {
	return m.evaluate
}

func (m *inspectorModel) evaluate() tea.Msg {
	secs, err := object.ReadFiles(m.objects)
	if err != nil {
		return evaluatedMsg{err: err}
	}
	img, err := layout.Evaluate(m.cfg, secs)
	if err != nil {
		return evaluatedMsg{err: err}
	}
	return evaluatedMsg{img: img}
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateBrowse {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
				m.expanded = false
			}

		case "down", "j":
			if m.state == stateBrowse && m.img != nil && m.selected < len(m.img.Regions)-1 {
				m.selected++
				m.expanded = false
			}

		case "enter":
			switch m.state {
			case stateBrowse:
				m.expanded = !m.expanded
			case stateGoto:
				m.located = m.locate(m.input.Value())
				m.input.Blur()
				m.state = stateBrowse
			}

		case "g":
			if m.state == stateBrowse {
				m.state = stateGoto
				m.located = ""
				m.input.SetValue("")
				m.input.Focus()
				return m, textinput.Blink
			}

		case "esc":
			if m.state == stateGoto {
				m.input.Blur()
				m.state = stateBrowse
			} else {
				m.located = ""
			}
		}

	case evaluatedMsg:
		m.err = msg.err
		m.img = msg.img
	}

	if m.state == stateGoto {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// locate resolves an address to the region and section containing it.
func (m *inspectorModel) locate(value string) string {
	if m.img == nil {
		return ""
	}
	addr, err := strconv.ParseUint(strings.TrimSpace(value), 0, 64)
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("bad address %q", value))
	}

	for _, region := range m.img.Regions {
		end := region.End()
		if region.NoLoad {
			// trailing alignment belongs to the zero region
			end = m.img.Symbols.ImageEnd
		}
		if addr < region.Addr || addr >= end {
			continue
		}
		for _, member := range region.Members {
			if addr >= member.Addr && addr < member.End() {
				return fmt.Sprintf("%#x is in %s / %s (+%#x)",
					addr, region.Name, member.Section.Name, addr-member.Addr)
			}
		}
		return fmt.Sprintf("%#x is padding in %s", addr, region.Name)
	}
	return fmt.Sprintf("%#x is outside the image", addr)
}

func (m *inspectorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("image-layout inspector"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}
	if m.img == nil {
		b.WriteString("evaluating layout...\n")
		return b.String()
	}

	fmt.Fprintf(&b, "base %#x  length %#x  stored %#x\n\n",
		m.img.Base, m.img.Symbols.ImageLength, m.img.StoredSize())

	for i, region := range m.img.Regions {
		line := fmt.Sprintf("%-8s %#012x  size %#8x  %d sections",
			region.Name, region.Addr, region.Size, len(region.Members))
		style := regionStyle
		if region.NoLoad {
			style = noloadStyle
			line += "  (noload)"
		}
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(style.Render("  " + line))
		}
		b.WriteByte('\n')

		if i == m.selected && m.expanded {
			for _, member := range region.Members {
				fmt.Fprintf(&b, "      %-20s %#012x  size %#x\n",
					member.Section.Name, member.Addr, member.Section.Size)
			}
		}
	}

	b.WriteByte('\n')
	for _, sym := range m.img.Symbols.List() {
		b.WriteString(symbolStyle.Render(fmt.Sprintf("%-16s = %#x", sym.Name, sym.Value)))
		b.WriteByte('\n')
	}

	if m.state == stateGoto {
		b.WriteString("\ngoto address: ")
		b.WriteString(m.input.View())
		b.WriteByte('\n')
		b.WriteString(helpStyle.Render("enter resolve · esc cancel"))
	} else {
		if m.located != "" {
			b.WriteByte('\n')
			b.WriteString(m.located)
			b.WriteByte('\n')
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select · enter expand · g goto address · q quit"))
	}

	return b.String()
}
