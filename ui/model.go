package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"voicetracker/expense"
	"voicetracker/session"
	"voicetracker/visual"
)

// Controller is the part of session.Controller the UI drives.
type Controller interface {
	Start() error
	Stop() error
	Reset() error
	State() session.State
	Updates() <-chan session.State
	Frames() <-chan visual.Frame
}

type stateMsg struct{ state session.State }

type updatesClosedMsg struct{}

type frameMsg struct{ frame visual.Frame }

type framesDoneMsg struct{}

type actionMsg struct {
	action string
	err    error
}

type exportMsg struct {
	path string
	err  error
}

const spectrumRows = 8

var (
	accent    = lipgloss.Color("#6366F1")
	titleBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFDF5")).Background(accent).Padding(0, 1)
	dim       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errText   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	okText    = lipgloss.NewStyle().Foreground(lipgloss.Color("#25A065"))
	label     = lipgloss.NewStyle().Bold(true)
	recording = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	category  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A855F7"))
)

type model struct {
	controller Controller
	exportDir  string
	now        func() time.Time
	logger     *log.Logger

	state  session.State
	frame  visual.Frame
	frames <-chan visual.Frame
	status string

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	ready    bool
}

func newModel(c Controller, exportDir string, logger *log.Logger) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)
	if logger == nil {
		logger = log.Default()
	}
	return model{
		controller: c,
		exportDir:  exportDir,
		now:        time.Now,
		logger:     logger,
		state:      c.State(),
		spinner:    s,
		width:      80,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.controller.Updates()), m.spinner.Tick)
}

func waitForState(updates <-chan session.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return updatesClosedMsg{}
		}
		return stateMsg{state: s}
	}
}

func waitForFrame(frames <-chan visual.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return framesDoneMsg{}
		}
		return frameMsg{frame: f}
	}
}

func run(action string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{action: action, err: fn()}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case " ", "enter":
			return m, m.toggle()
		case "r":
			return m, m.recordNew()
		case "e":
			if s, ok := m.state.(session.Success); ok {
				return m, m.export(s.Report)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(3, msg.Height-lipgloss.Height(m.headerView())-lipgloss.Height(m.footerView()))
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.viewport.SetContent(m.contentView())

	case stateMsg:
		m.state = msg.state
		if _, ok := msg.state.(session.Recording); ok && m.frames == nil {
			if frames := m.controller.Frames(); frames != nil {
				m.frames = frames
				cmds = append(cmds, waitForFrame(frames))
			}
		}
		if _, ok := msg.state.(session.Recording); !ok {
			m.frame = nil
		}
		if _, ok := msg.state.(session.Idle); ok {
			m.status = ""
		}
		m.viewport.SetContent(m.contentView())
		m.viewport.GotoTop()
		cmds = append(cmds, waitForState(m.controller.Updates()))

	case updatesClosedMsg:
		return m, tea.Quit

	case frameMsg:
		m.frame = msg.frame
		m.viewport.SetContent(m.contentView())
		cmds = append(cmds, waitForFrame(m.frames))

	case framesDoneMsg:
		m.frames = nil
		m.frame = nil

	case actionMsg:
		if msg.err != nil && !errors.Is(msg.err, session.ErrInvalidTransition) {
			m.logger.Warn("session action", "action", msg.action, "error", msg.err)
		}

	case exportMsg:
		if msg.err != nil {
			m.logger.Error("export csv", "error", msg.err)
			m.status = errText.Render("Export failed: " + msg.err.Error())
		} else {
			m.logger.Info("exported csv", "path", msg.path)
			m.status = okText.Render("Saved " + msg.path)
		}
		m.viewport.SetContent(m.contentView())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if _, ok := m.state.(session.Processing); ok {
			m.viewport.SetContent(m.contentView())
		}
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) toggle() tea.Cmd {
	switch m.state.(type) {
	case session.Idle:
		return run("start", m.controller.Start)
	case session.Recording:
		return run("stop", m.controller.Stop)
	case session.Success, session.Failed:
		return m.recordNew()
	}
	return nil
}

func (m model) recordNew() tea.Cmd {
	switch m.state.(type) {
	case session.Success, session.Failed:
	default:
		return nil
	}
	c := m.controller
	return run("record new", func() error {
		if err := c.Reset(); err != nil {
			return err
		}
		return c.Start()
	})
}

func (m model) export(report expense.Report) tea.Cmd {
	dir, now := m.exportDir, m.now()
	return func() tea.Msg {
		path, err := expense.Export(dir, report, now)
		return exportMsg{path: path, err: err}
	}
}

func (m model) View() string {
	body := m.contentView()
	if m.ready {
		body = m.viewport.View()
	}
	return fmt.Sprintf("%s\n%s\n%s", m.headerView(), body, m.footerView())
}

func (m model) headerView() string {
	title := titleBar.Render("Voice Expense Tracker")
	line := strings.Repeat("─", max(0, m.width-lipgloss.Width(title)))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, line)
}

func (m model) footerView() string {
	info := titleBar.Render(m.help())
	line := strings.Repeat("─", max(0, m.width-lipgloss.Width(info)))
	return lipgloss.JoinHorizontal(lipgloss.Center, line, info)
}

func (m model) help() string {
	switch m.state.(type) {
	case session.Idle:
		return "space record • q quit"
	case session.Recording:
		return "space stop • q quit"
	case session.Processing:
		return "q quit"
	case session.Success:
		return "e export csv • r clear & record new • q quit"
	default:
		return "r try again • q quit"
	}
}

func (m model) contentView() string {
	var b strings.Builder
	b.WriteString("\n")

	switch s := m.state.(type) {
	case session.Idle:
		b.WriteString("  Press space to start recording your expenses.\n")
		if s.Notice != "" {
			b.WriteString("\n  " + errText.Render(s.Notice) + "\n")
		}

	case session.Recording:
		fmt.Fprintf(&b, "  %s %s\n\n", recording.Render("● Recording"), formatTime(s.Elapsed))
		if m.frame != nil {
			for _, line := range strings.Split(visual.Render(m.frame, max(2, m.width-4), spectrumRows), "\n") {
				b.WriteString("  " + line + "\n")
			}
		}

	case session.Processing:
		fmt.Fprintf(&b, "  %s Processing audio...\n", m.spinner.View())

	case session.Success:
		b.WriteString(reportView(s.Report))

	case session.Failed:
		b.WriteString("  " + errText.Render(s.Message) + "\n")
	}

	if m.status != "" {
		b.WriteString("\n  " + m.status + "\n")
	}
	return b.String()
}

func reportView(r expense.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s\n  %s\n\n", label.Render("Transcription"), r.Transcription)
	fmt.Fprintf(&b, "  %s\n  %s\n\n", label.Render("Translation"), r.Translation)

	if len(r.Expenses) == 0 {
		b.WriteString("  " + dim.Render("No specific items extracted, but audio was processed.") + "\n")
		return b.String()
	}

	width := 0
	for _, line := range r.Expenses {
		width = max(width, lipgloss.Width(line.Item))
	}
	fmt.Fprintf(&b, "  %s %s\n", label.Render("Expenses"), dim.Render(itemCount(len(r.Expenses))))
	for _, line := range r.Expenses {
		fmt.Fprintf(&b, "  %-*s  %s  %s\n",
			width, line.Item,
			expense.Money(r.Currency, line.Amount),
			categoryStyle(line.Category).Render(line.Category),
		)
	}
	fmt.Fprintf(&b, "\n  %s %s\n", label.Render("Total"), expense.Money(r.Currency, r.TotalAmount))
	return b.String()
}

// categoryStyle dims categories outside expense.Categories. They are shown
// as the model returned them.
func categoryStyle(c string) lipgloss.Style {
	if expense.KnownCategory(c) {
		return category
	}
	return dim
}

func itemCount(n int) string {
	if n == 1 {
		return "(1 item)"
	}
	return fmt.Sprintf("(%d items)", n)
}

// formatTime renders whole seconds as m:ss.
func formatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
