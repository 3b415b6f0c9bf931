package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dartscorer/internal/engine"
	"dartscorer/internal/game"
)

var (
	subtle = lipgloss.Color("#a6adc8")
	accent = lipgloss.Color("#74c7ec")
	warm   = lipgloss.Color("#fab387")

	titleStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(subtle)
	hotStyle    = lipgloss.NewStyle().Foreground(warm).Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(accent)

	boardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1)
)

// displayScore is the headline number for a player: the remaining score in
// countdown modes, points otherwise.
func displayScore(s *game.Session, p *game.Player) int {
	if s.GameID == game.X01 {
		return p.Residual
	}
	return p.Score
}

func renderBoard(w io.Writer, s *game.Session, colors map[string]string) {
	var b strings.Builder
	header := fmt.Sprintf("%s  leg %d  round %d", s.GameID, s.Leg+1, s.Round+1)
	if t, ok := s.RoundTarget(); ok {
		header += "  target " + string(t)
	}
	b.WriteString(titleStyle.Render(header))

	for i, p := range s.Players {
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[p.ID])).Width(12).Render(p.Name)
		marker := "  "
		if i == s.CurrentPlayer && s.Status == game.StatusRunning {
			marker = hotStyle.Render("▶ ")
		}
		line := fmt.Sprintf("%s%s %5d", marker, name, displayScore(s, p))
		if p.LegsWon > 0 || p.SetsWon > 0 {
			line += mutedStyle.Render(fmt.Sprintf("  legs %d sets %d", p.LegsWon, p.SetsWon))
		}
		if p.Finished || p.Eliminated {
			line += mutedStyle.Render("  done")
		}
		b.WriteString("\n" + line)
	}

	if len(s.TempDarts) > 0 {
		darts := make([]string, len(s.TempDarts))
		for i, d := range s.TempDarts {
			darts[i] = d.String()
		}
		b.WriteString("\n" + mutedStyle.Render("darts: "+strings.Join(darts, " ")))
	}
	_, _ = fmt.Fprintln(w, boardStyle.Render(b.String()))
}

func renderStep(w io.Writer, step engine.Step) {
	if !step.Accepted {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("dropped: "+step.Reason))
		return
	}
	if o := step.Result.Overlay; o != nil {
		_, _ = fmt.Fprintln(w, hotStyle.Render(o.Text))
	}
}

func renderResults(w io.Writer, win game.WinMessage, results []game.ResultSummary) {
	_, _ = fmt.Fprintln(w, titleStyle.Render(win.Title))
	if win.Body != "" {
		_, _ = fmt.Fprintln(w, win.Body)
	}
	for _, r := range results {
		stats := make([]string, 0, len(r.Stats))
		for _, st := range r.Stats {
			v := st.Display
			if v == "" {
				v = fmt.Sprintf("%g", st.Value)
			}
			stats = append(stats, st.Label+" "+v)
		}
		_, _ = fmt.Fprintf(w, "%s  %d  %s\n", r.Name, r.Score, mutedStyle.Render(strings.Join(stats, ", ")))
	}
	if win.NextLabel != "" {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("type 'rematch' to "+strings.ToLower(win.NextLabel)+" or 'quit'"))
	}
}
