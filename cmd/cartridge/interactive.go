package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// logLines is how much of the log tail the view shows.
const logLines = 8

// interactiveModel steps a headless machine on a timer and shows its
// counters. Every machine call happens inside Update, so the machine is
// only touched from the program's event loop.
type interactiveModel struct {
	ctx      context.Context
	h        *headless
	lines    *lineBuffer
	err      error
	opts     options
	filename string
	status   string
	spinner  spinner.Model
	paused   bool
	done     bool
}

type frameMsg time.Time

func newInteractiveModel(ctx context.Context, h *headless, lines *lineBuffer, opts options) *interactiveModel {
	return &interactiveModel{
		ctx:      ctx,
		h:        h,
		lines:    lines,
		opts:     opts,
		filename: filepath.Base(opts.wasm),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// runInteractive blocks until the user quits, the frame budget is spent
// or the machine fails. The machine error, if any, is returned.
func runInteractive(ctx context.Context, h *headless, lines *lineBuffer, opts options) error {
	model := newInteractiveModel(ctx, h, lines, opts)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return model.err
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameTime, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, nextFrame())
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case " ":
			if !m.done {
				m.paused = !m.paused
			}

		case "s":
			m.takeSnapshot()
		}

	case frameMsg:
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		if m.paused || m.done {
			return m, nextFrame()
		}
		if err := m.h.step(m.ctx); err != nil {
			m.err = err
			m.done = true
			return m, nil
		}
		if n := m.opts.frames; n > 0 && m.h.m.Stats().Frames >= uint64(n) {
			m.done = true
			m.status = fmt.Sprintf("finished %d frames", n)
			return m, nil
		}
		return m, nextFrame()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) takeSnapshot() {
	path := m.opts.snapshot
	if path == "" {
		path = "snapshot.png"
	}
	opts := m.opts
	opts.snapshot = path
	if err := snapshot(m.ctx, m.h.m, opts); err != nil {
		m.status = errorStyle.Render(err.Error())
		return
	}
	m.status = resultStyle.Render("saved " + path)
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Cartridge"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(" ")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("stopped"))
	case m.done:
		b.WriteString(resultStyle.Render("done"))
	case m.paused:
		b.WriteString(pausedStyle.Render("paused"))
	default:
		b.WriteString(m.spinner.View())
	}
	b.WriteString("\n\n")

	s := m.h.m.Stats()
	row := func(label string, value any) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", label)), valueStyle.Render(fmt.Sprint(value)))
	}
	row("frames", s.Frames)
	row("draw calls", s.GPU.DrawCalls)
	row("triangles", s.GPU.Triangles)
	row("commands", s.GPU.Commands)
	row("textures", s.Textures)
	row("meshes", s.Meshes)
	row("sounds", s.Sounds)
	row("memory", fmt.Sprintf("%d KiB", s.MemoryBytes/1024))

	if len(s.Profile) > 0 {
		b.WriteString("\n")
		for _, a := range s.Profile {
			row(a.Label, fmt.Sprintf("%v (%d)", a.Mean, a.Count))
		}
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	if m.lines != nil {
		if tail := m.lines.Tail(logLines); len(tail) > 0 {
			b.WriteString("\n")
			b.WriteString(helpStyle.Render(strings.Join(tail, "\n")))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space pause • s snapshot • q quit"))
	return b.String()
}
