package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hamed0406/capprobe/internal/domain"
	"github.com/hamed0406/capprobe/internal/httpapi"
)

type theme struct {
	ok, fail, skip, muted, bold lipgloss.Style
}

// newTheme binds styles to w so colour is dropped when w is not a terminal.
func newTheme(w io.Writer) theme {
	r := lipgloss.NewRenderer(w)
	return theme{
		ok:    r.NewStyle().Foreground(lipgloss.Color("2")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("1")),
		skip:  r.NewStyle().Foreground(lipgloss.Color("3")),
		muted: r.NewStyle().Faint(true),
		bold:  r.NewStyle().Bold(true),
	}
}

func renderBody(w io.Writer, body httpapi.HealthBody, now time.Time) {
	th := newTheme(w)
	p := message.NewPrinter(language.English)

	if body.Status == httpapi.StatusPending {
		fmt.Fprintln(w, th.skip.Render("No run has completed yet (pending)"))
		return
	}

	width := 0
	for _, r := range body.Results {
		width = max(width, len(r.Name))
	}

	passed := 0
	for _, r := range body.Results {
		var mark string
		switch domain.OutcomeKind(r.Outcome) {
		case domain.OutcomeSuccess:
			passed++
			mark = th.ok.Render("✔")
		case domain.OutcomeFailure:
			mark = th.fail.Render("✖")
		default:
			mark = th.skip.Render("↷")
		}
		dur := p.Sprintf("%d µs", r.DurationMicros)
		fmt.Fprintf(w, "%s %-*s %s  %s\n", mark, width, r.Name, th.muted.Render(fmt.Sprintf("%12s", dur)), resultInfo(r))
	}

	summary := p.Sprintf("%d/%d probes passed", passed, len(body.Results))
	fmt.Fprintf(w, "\n%s (%s", th.bold.Render(summary), body.Status)
	if body.CheckedAt != nil {
		fmt.Fprintf(w, ", checked %s", humanize.RelTime(*body.CheckedAt, now, "ago", "from now"))
	}
	fmt.Fprintf(w, ", took %s)\n", time.Duration(body.TotalDurationMicros)*time.Microsecond)
}

func resultInfo(r httpapi.ResultBody) string {
	switch domain.OutcomeKind(r.Outcome) {
	case domain.OutcomeSuccess:
		parts := make([]string, 0, len(r.Details))
		for _, k := range slices.Sorted(maps.Keys(r.Details)) {
			parts = append(parts, k+"="+r.Details[k])
		}
		return strings.Join(parts, " ")
	case domain.OutcomeFailure:
		return r.ErrorKind + ": " + r.Message
	}
	return r.Message
}
