package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/jvm/classfile"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	entryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type viewState int

const (
	viewPool viewState = iota
	viewMethods
)

type inspectModel struct {
	err      error
	class    *classfile.Class
	filename string
	view     viewState
	selected int
	height   int
	jump     textinput.Model
	jumping  bool
}

func newInspectModel(filename string) *inspectModel {
	jump := textinput.New()
	jump.Prompt = "go to index: "
	jump.Width = 10
	return &inspectModel{
		filename: filename,
		view:     viewPool,
		height:   24,
		jump:     jump,
	}
}

type loadedMsg struct {
	err   error
	class *classfile.Class
}

func (m *inspectModel) Init() tea.Cmd {
	return m.loadClass
}

func (m *inspectModel) loadClass() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	class, err := classfile.DecodeClass(data)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{class: class}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case tea.KeyMsg:
		if m.jumping {
			switch msg.String() {
			case "enter":
				if idx, err := strconv.Atoi(strings.TrimSpace(m.jump.Value())); err == nil {
					if idx >= 1 && idx <= m.listLen() {
						m.selected = idx - 1
					}
				}
				m.jumping = false
				m.jump.Blur()
				m.jump.SetValue("")
			case "esc":
				m.jumping = false
				m.jump.Blur()
				m.jump.SetValue("")
			default:
				var cmd tea.Cmd
				m.jump, cmd = m.jump.Update(msg)
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < m.listLen()-1 {
				m.selected++
			}

		case "tab":
			if m.view == viewPool {
				m.view = viewMethods
			} else {
				m.view = viewPool
			}
			m.selected = 0

		case "g":
			if m.view == viewPool {
				m.jumping = true
				m.jump.Focus()
				return m, textinput.Blink
			}
		}

	case loadedMsg:
		m.err = msg.err
		m.class = msg.class
	}

	return m, nil
}

func (m *inspectModel) listLen() int {
	if m.class == nil {
		return 0
	}
	if m.view == viewPool {
		return len(m.class.Constants)
	}
	return len(m.class.Methods)
}

func (m *inspectModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.class == nil {
		return "Loading class file..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Class Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf("  (version %d.%d)", m.class.MajorVersion, m.class.MinorVersion))
	b.WriteString("\n\n")

	switch m.view {
	case viewPool:
		m.renderPool(&b)
	case viewMethods:
		m.renderMethods(&b)
	}

	b.WriteString("\n")
	if m.jumping {
		b.WriteString(m.jump.View())
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ select • tab switch view • g go to index • q quit"))
	return b.String()
}

// renderPool renders a scrolling window of the constant pool centred on
// the selection.
func (m *inspectModel) renderPool(b *strings.Builder) {
	b.WriteString(fmt.Sprintf("Constant pool (%d slots):\n\n", len(m.class.Constants)))

	window := m.height - 10
	if window < 1 {
		window = 1
	}
	start := m.selected - window/2
	if start > len(m.class.Constants)-window {
		start = len(m.class.Constants) - window
	}
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(m.class.Constants) {
		end = len(m.class.Constants)
	}

	for i := start; i < end; i++ {
		idx := classfile.ConstIndex(i + 1)
		line := fmt.Sprintf("%s %s", indexStyle.Render(fmt.Sprintf("#%-4d", idx)), m.poolEntry(idx))
		if i == m.selected {
			line = selectedStyle.Render(fmt.Sprintf("> #%-4d %s", idx, m.poolEntry(idx)))
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m *inspectModel) poolEntry(idx classfile.ConstIndex) string {
	entry, err := m.class.Constants.Resolve(idx)
	if err != nil {
		return dimStyle.Render("<double-width slot>")
	}
	return entry.String()
}

func (m *inspectModel) renderMethods(b *strings.Builder) {
	b.WriteString(fmt.Sprintf("Methods (%d):\n\n", len(m.class.Methods)))

	for i, method := range m.class.Methods {
		line := m.methodLine(method)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + entryStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.selected < len(m.class.Methods) {
		m.renderMethodDetail(b, m.class.Methods[m.selected])
	}
}

func (m *inspectModel) methodLine(method classfile.Method) string {
	name, err := m.class.Constants.UTF8(method.Name)
	if err != nil {
		name = fmt.Sprintf("#%d", method.Name)
	}
	desc, err := m.class.Constants.UTF8(method.Descriptor)
	if err != nil {
		desc = fmt.Sprintf("#%d", method.Descriptor)
	}
	line := name + " " + desc
	if flags := method.Flags.String(); flags != "" {
		line = flags + " " + line
	}
	return line
}

func (m *inspectModel) renderMethodDetail(b *strings.Builder, method classfile.Method) {
	b.WriteString("\n")
	for _, attr := range method.Attributes {
		switch attr := attr.(type) {
		case classfile.CodeAttr:
			b.WriteString(fmt.Sprintf("Code: max_stack=%d max_locals=%d bytecode=%d bytes\n",
				attr.MaxStack, attr.MaxLocals, len(attr.Bytecode)))
			for _, handler := range attr.ExceptionTable {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  handler [%d,%d) -> %d catch #%d\n",
					handler.StartPC, handler.EndPC, handler.HandlerPC, handler.CatchType)))
			}
			for _, sub := range attr.Attributes {
				if table, ok := sub.(classfile.StackMapTableAttr); ok {
					b.WriteString(fmt.Sprintf("StackMapTable: %d frames\n", len(table.Frames)))
					for _, frame := range table.Frames {
						b.WriteString(dimStyle.Render(fmt.Sprintf("  %s tag=%d delta=%d\n",
							frame.Kind, frame.Tag, frame.OffsetDelta)))
					}
				}
			}
		case classfile.ConstantValueAttr:
			b.WriteString(fmt.Sprintf("ConstantValue: #%d\n", attr.Value))
		case classfile.StackMapTableAttr:
			b.WriteString(fmt.Sprintf("StackMapTable: %d frames\n", len(attr.Frames)))
		}
	}
}

func runInteractive(filename string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newInspectModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
