package session

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bnema/otctl/internal/application"
	"github.com/bnema/otctl/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const defaultJournalLimit = 10

type RenderOptions struct {
	Now time.Time
	// Journal entries are listed oldest first; only the trailing JournalLimit
	// are shown.
	ShowJournal  bool
	Journal      []domain.JournalEntry
	JournalLimit int
}

// Render draws the persisted session: its run, registered labware and
// pipettes, and the tail of the request journal.
func Render(state domain.SessionState, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderSession(state, opts, s)
	})
}

// RenderReport draws the outcome of a protocol run.
func RenderReport(report application.RunReport) (string, error) {
	return run(func(s styles) string {
		return renderReport(report, s)
	})
}

func renderSession(state domain.SessionState, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Run %s", state.RunID)),
		s.header.Render(fmt.Sprintf("robot: %s", state.BaseURL)),
	}
	if !state.CreatedAt.IsZero() {
		lines = append(lines, s.header.Render("created: "+formatAge(state.CreatedAt, opts.Now)))
	}

	lines = append(lines, s.section.Render(renderLabware(state.Labware, s)))
	lines = append(lines, s.section.Render(renderPipettes(state.Pipettes, s)))
	if opts.ShowJournal {
		lines = append(lines, s.section.Render(renderJournal(opts.Journal, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderLabware(entries []domain.LabwareEntry, s styles) string {
	parts := []string{s.heading.Render(fmt.Sprintf("Labware (%d)", len(entries)))}
	if len(entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("No labware loaded."))...)
	}

	sorted := append([]domain.LabwareEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Slot < sorted[j].Slot })

	width := 0
	for _, entry := range sorted {
		width = max(width, len(entry.Alias))
	}
	for _, entry := range sorted {
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.detail.Render(fmt.Sprintf("slot %-2d %-*s", entry.Slot, width, entry.Alias)),
			" ",
			s.remoteID.Render(entry.RemoteID),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderPipettes(entries []domain.PipetteEntry, s styles) string {
	parts := []string{s.heading.Render(fmt.Sprintf("Pipettes (%d)", len(entries)))}
	if len(entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("No pipettes loaded."))...)
	}

	for _, entry := range entries {
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.detail.Render(fmt.Sprintf("%-5s %s", entry.Mount, entry.Name)),
			" ",
			s.remoteID.Render(entry.RemoteID),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderJournal(entries []domain.JournalEntry, opts RenderOptions, s styles) string {
	limit := opts.JournalLimit
	if limit <= 0 {
		limit = defaultJournalLimit
	}

	parts := []string{s.heading.Render(fmt.Sprintf("Journal (%d)", len(entries)))}
	if len(entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("No requests recorded."))...)
	}

	shown := entries
	if len(shown) > limit {
		parts = append(parts, s.empty.Render(fmt.Sprintf("... %d earlier", len(shown)-limit)))
		shown = shown[len(shown)-limit:]
	}
	for _, entry := range shown {
		parts = append(parts, journalLine(entry, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func journalLine(entry domain.JournalEntry, s styles) string {
	operation := entry.Operation
	if entry.CommandType != "" {
		operation += " " + entry.CommandType
	}

	status := s.ok.Render(fmt.Sprintf("%d", entry.StatusCode))
	if !entry.OK {
		status = s.failed.Render(fmt.Sprintf("%d failed", entry.StatusCode))
	}

	parts := []string{
		s.remoteID.Render(entry.RecordedAt.UTC().Format("15:04:05")),
		" ",
		s.detail.Render(operation),
		" ",
		status,
	}
	if entry.RemoteStatus != "" {
		parts = append(parts, " ", s.remoteID.Render("("+entry.RemoteStatus+")"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderReport(report application.RunReport, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Run %s", report.RunID)),
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.detail.Render("steps: "),
			renderProgressBar(report.StepsCompleted, report.StepsTotal, 24, s),
			" ",
			s.detail.Render(fmt.Sprintf("%d/%d", report.StepsCompleted, report.StepsTotal)),
		),
	}
	if elapsed := report.Elapsed(); elapsed > 0 {
		lines = append(lines, s.header.Render("elapsed: "+elapsed.Round(time.Millisecond).String()))
	}

	if len(report.Aliases) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	ids := make([]string, 0, len(report.Aliases))
	for id := range report.Aliases {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	aliases := []string{s.heading.Render("Labware")}
	for _, id := range ids {
		aliases = append(aliases, s.detail.Render(fmt.Sprintf("%s -> %s", id, report.Aliases[id])))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, aliases...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderProgressBar(done, total, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	fraction := 1.0
	if total > 0 {
		fraction = float64(done) / float64(total)
	}
	filled := int(math.Round(float64(width) * fraction))
	filled = min(max(filled, 0), width)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func formatAge(createdAt, now time.Time) string {
	if now.IsZero() {
		return createdAt.UTC().Format(time.RFC3339)
	}

	age := now.Sub(createdAt)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return plural(int(age.Minutes()), "minute") + " ago"
	case age < 24*time.Hour:
		return plural(int(age.Hours()), "hour") + " ago"
	default:
		return plural(int(age.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
