package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/samcharles93/beamlab/internal/beam"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorGood   = lipgloss.Color("#2CD7C7")
	colorMuted  = lipgloss.Color("#5C7A84")
	colorWarn   = lipgloss.Color("#F4D03F")
)

type cardStyles struct {
	box       lipgloss.Style
	title     lipgloss.Style
	heading   lipgloss.Style
	active    lipgloss.Style
	completed lipgloss.Style
	pruned    lipgloss.Style
	score     lipgloss.Style
}

// Cards draws one bordered card per step and a summary card for the
// result. Colour is used only when w is a terminal.
type Cards struct {
	w      io.Writer
	styles cardStyles
}

// NewCards returns a card presenter writing to w.
func NewCards(w io.Writer) *Cards {
	r := lipgloss.NewRenderer(w)
	return &Cards{
		w: w,
		styles: cardStyles{
			box:       r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1),
			title:     r.NewStyle().Bold(true).Foreground(colorAccent),
			heading:   r.NewStyle().Underline(true),
			active:    r.NewStyle(),
			completed: r.NewStyle().Foreground(colorGood).Bold(true),
			pruned:    r.NewStyle().Foreground(colorMuted).Strikethrough(true),
			score:     r.NewStyle().Foreground(colorWarn),
		},
	}
}

// Step implements Presenter.
func (c *Cards) Step(step int, res beam.StepResult) error {
	var b strings.Builder
	b.WriteString(c.styles.title.Render(fmt.Sprintf("step %d", step)))
	fmt.Fprintf(&b, "  %d candidates", res.Expanded)

	c.section(&b, "frontier", res.Frontier, c.styles.active)
	c.section(&b, "completed", res.Completed, c.styles.completed)
	c.section(&b, "pruned", res.Pruned, c.styles.pruned)
	if len(res.Frontier) == 0 && len(res.Completed) == 0 {
		b.WriteString("\n(no surviving hypotheses)")
	}
	_, err := fmt.Fprintln(c.w, c.styles.box.Render(b.String()))
	return err
}

func (c *Cards) section(b *strings.Builder, name string, hyps []beam.Hypothesis, style lipgloss.Style) {
	if len(hyps) == 0 {
		return
	}
	b.WriteString("\n" + c.styles.heading.Render(name))
	width := 0
	for _, h := range hyps {
		width = max(width, lipgloss.Width(display(h)))
	}
	for i, h := range hyps {
		text := display(h)
		fmt.Fprintf(b, "\n %d. %s%s %s", i+1, style.Render(text), strings.Repeat(" ", width-lipgloss.Width(text)),
			c.styles.score.Render(fmt.Sprintf("%8.4f", h.Score)))
	}
}

// Result implements Presenter.
func (c *Cards) Result(res beam.Result) error {
	var b strings.Builder
	b.WriteString(c.styles.title.Render("result"))
	fmt.Fprintf(&b, "  %s after %d steps", reasonText(res.Reason), res.Steps)

	if len(res.Ranking) > 0 {
		b.WriteString("\n" + c.styles.heading.Render("ranked by normalized score"))
		width := 0
		for _, r := range res.Ranking {
			width = max(width, lipgloss.Width(display(r.Hypothesis)))
		}
		for i, r := range res.Ranking {
			text := display(r.Hypothesis)
			fmt.Fprintf(&b, "\n %d. %s%s %s raw %8.4f", i+1, c.styles.completed.Render(text),
				strings.Repeat(" ", width-lipgloss.Width(text)),
				c.styles.score.Render(fmt.Sprintf("%8.4f", r.Normalized)), r.Hypothesis.Score)
		}
		raw := beam.RankRaw(res.Completed)
		if len(raw) > 0 && !sameOrder(raw, res.Ranking) {
			b.WriteString("\n" + c.styles.heading.Render("raw score would pick"))
			fmt.Fprintf(&b, "\n    %s", display(raw[0].Hypothesis))
		}
	}
	if res.Best != nil {
		fmt.Fprintf(&b, "\nbest: %s", c.styles.completed.Render(display(res.Best.Hypothesis)))
	} else {
		b.WriteString("\nbest: none")
	}
	if res.RunID != "" {
		fmt.Fprintf(&b, "\nrun %s", res.RunID)
	}
	_, err := fmt.Fprintln(c.w, c.styles.box.Render(b.String()))
	return err
}

func display(h beam.Hypothesis) string {
	if len(h.Tokens) == 0 {
		return "(root)"
	}
	return h.Text()
}

func reasonText(r beam.Reason) string {
	switch r {
	case beam.ReasonMaxSteps:
		return "step budget reached"
	case beam.ReasonMaxCompleted:
		return "enough hypotheses completed"
	case beam.ReasonExhausted:
		return "beam exhausted"
	default:
		return "still running"
	}
}

func sameOrder(a, b []beam.Ranked) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Hypothesis.Key() != b[i].Hypothesis.Key() {
			return false
		}
	}
	return true
}
