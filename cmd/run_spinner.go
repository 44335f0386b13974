package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/otctl/internal/application"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type runDoneMsg struct {
	err error
}

type runProgressMsg application.Progress

type runSpinnerModel struct {
	spinner spinner.Model
	label   string
	start   tea.Cmd
	err     error
	done    bool
}

func newRunSpinnerModel(label string, start tea.Cmd) runSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return runSpinnerModel{
		spinner: s,
		label:   label,
		start:   start,
	}
}

func (m runSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start)
}

func (m runSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case runProgressMsg:
		m.label = progressLabel(application.Progress(msg))
		return m, nil
	case runDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m runSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// runWithSpinner runs work while a spinner on output shows the latest
// progress it reported.
func runWithSpinner(ctx context.Context, output io.Writer, label string, work func(context.Context, func(application.Progress)) error) error {
	var p *tea.Program
	report := func(progress application.Progress) {
		p.Send(runProgressMsg(progress))
	}

	start := func() tea.Msg {
		return runDoneMsg{err: work(ctx, report)}
	}

	p = tea.NewProgram(
		newRunSpinnerModel(label, start),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(runSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}

func progressLabel(progress application.Progress) string {
	switch progress.Phase {
	case application.PhaseStep:
		return fmt.Sprintf("[%d/%d] %s", progress.Index, progress.Total, progress.Message)
	default:
		return progress.Message
	}
}
