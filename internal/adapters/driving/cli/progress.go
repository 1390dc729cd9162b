package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
	"github.com/chaek-labs/bindery-cli/internal/core/ports/driving"
	"github.com/chaek-labs/bindery-cli/internal/logger"
)

var (
	progressTitleStyle = lipgloss.NewStyle().Bold(true)
	progressDimStyle   = lipgloss.NewStyle().Faint(true)
)

// progressMsg carries one settled book into the progress UI.
type progressMsg driving.BatchProgress

// progressModel renders a batch progress bar.
type progressModel struct {
	bar     progress.Model
	done    int
	total   int
	failed  int
	current string
}

func newProgressModel(total int) progressModel {
	return progressModel{
		bar:   progress.New(progress.WithDefaultGradient()),
		total: total,
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 8
		if width > 0 {
			m.bar.Width = width
		}
		return m, nil

	case progressMsg:
		m.done = msg.Done
		m.total = msg.Total
		m.current = filepath.Base(msg.Book.TextPath)
		if msg.Status == domain.StatusFailed {
			m.failed++
		}

		cmd := m.bar.SetPercent(float64(m.done) / float64(m.total))
		if m.done >= m.total {
			return m, tea.Sequence(cmd, tea.Quit)
		}
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m progressModel) View() string {
	counts := fmt.Sprintf("%d/%d books", m.done, m.total)
	if m.failed > 0 {
		counts += fmt.Sprintf(" (%d failed)", m.failed)
	}
	line := progressTitleStyle.Render("Converting") + " " + progressDimStyle.Render(counts)
	return line + "\n" + m.bar.View() + "\n"
}

// newProgressReporter returns a progress callback plus a finish function.
// On a terminal it runs a bubbletea progress bar; otherwise (or when
// verbose logging would fight the bar) it falls back to plain lines.
func newProgressReporter(cmd *cobra.Command, total int) (func(driving.BatchProgress), func()) {
	if !term.IsTerminal(int(os.Stderr.Fd())) || logger.IsVerbose() {
		report := func(p driving.BatchProgress) {
			cmd.PrintErrf("[%d/%d] %s: %s\n", p.Done, p.Total, filepath.Base(p.Book.TextPath), p.Status)
		}
		return report, func() {}
	}

	// Input stays wired to the shell so that Ctrl+C still raises SIGINT
	// for the batch context.
	prog := tea.NewProgram(newProgressModel(total),
		tea.WithOutput(cmd.ErrOrStderr()), tea.WithInput(nil))

	finished := make(chan struct{})
	go func() {
		_, _ = prog.Run()
		close(finished)
	}()

	report := func(p driving.BatchProgress) {
		prog.Send(progressMsg(p))
	}
	finish := func() {
		prog.Quit()
		<-finished
	}
	return report, finish
}
