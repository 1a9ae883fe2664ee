package present

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"

	"github.com/samcharles93/beamlab/internal/beam"
)

// Comparison pairs the normalized ranking of a hypothesis set with its raw
// cumulative-score ranking.
type Comparison struct {
	Alpha      float64       `json:"alpha"`
	Penalty    beam.Penalty  `json:"penalty"`
	Normalized []beam.Ranked `json:"normalized"`
	Raw        []beam.Ranked `json:"raw"`
}

// Compare ranks hyps both ways.
func Compare(hyps []beam.Hypothesis, alpha float64, penalty beam.Penalty) Comparison {
	return Comparison{
		Alpha:      alpha,
		Penalty:    penalty,
		Normalized: beam.Rank(hyps, alpha, penalty),
		Raw:        beam.RankRaw(hyps),
	}
}

// WriteComparison prints c as a side-by-side table, or as JSON when format
// is FormatJSON.
func WriteComparison(w io.Writer, c Comparison, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(colorAccent)).
		Headers("#", "normalized", "score", "len", "raw order", "score").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for i := range c.Normalized {
		n, raw := c.Normalized[i], c.Raw[i]
		t.Row(
			strconv.Itoa(i+1),
			display(n.Hypothesis),
			fmt.Sprintf("%.4f", n.Normalized),
			strconv.Itoa(n.Hypothesis.Len()),
			display(raw.Hypothesis),
			fmt.Sprintf("%.4f", raw.Hypothesis.Score),
		)
	}
	_, err := fmt.Fprintf(w, "alpha=%g penalty=%s\n%s\n", c.Alpha, c.Penalty, t.Render())
	return err
}
