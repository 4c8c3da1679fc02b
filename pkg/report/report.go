// Package report renders a reduction step as a human readable terminal
// summary.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/reduction"
)

var (
	colorTitle  = lipgloss.Color("#FF00FF")
	colorHeader = lipgloss.Color("#00FFFF")
	colorAccent = lipgloss.Color("#FFD700")
	colorMuted  = lipgloss.Color("#888888")
)

// Renderer writes styled reports. Colors are dropped automatically when the
// destination is not a terminal.
type Renderer struct {
	r *lipgloss.Renderer

	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	removed lipgloss.Style
	box     lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
}

// NewRenderer creates a renderer targeting w
func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		r:       r,
		title:   r.NewStyle().Bold(true).Foreground(colorTitle),
		label:   r.NewStyle().Foreground(colorHeader).Width(14),
		value:   r.NewStyle().Bold(true),
		removed: r.NewStyle().Bold(true).Foreground(colorAccent),
		box:     r.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(colorHeader).Padding(0, 1),
		muted:   r.NewStyle().Foreground(colorMuted),
		header:  r.NewStyle().Bold(true).Foreground(colorHeader).Padding(0, 1),
	}
}

// Render writes the full report for res to w.
func Render(w io.Writer, res *reduction.Result) error {
	_, err := io.WriteString(w, NewRenderer(w).String(res)+"\n")
	return err
}

// String renders the report.
func (rd *Renderer) String(res *reduction.Result) string {
	sections := []string{
		rd.title.Render("Girvan–Newman step"),
		rd.Summary(res),
		rd.topEdges(res),
		rd.Communities(res),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (rd *Renderer) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, rd.label.Render(label), value)
}

// Summary renders the headline numbers in a bordered box.
func (rd *Renderer) Summary(res *reduction.Result) string {
	removed := rd.muted.Render("none (graph has no edges)")
	if key, ok := res.RemovedEdge(); ok {
		score, _ := res.Original.Betweenness.Get(key)
		removed = rd.removed.Render(fmt.Sprintf("%s (betweenness %s)", key, formatScore(score)))
	}

	rows := []string{
		rd.row("Nodes", rd.value.Render(strconv.Itoa(len(res.Original.Nodes)))),
		rd.row("Edges", rd.value.Render(fmt.Sprintf("%d → %d", len(res.Original.Links), len(res.After.Links)))),
		rd.row("Removed", removed),
		rd.row("Communities", rd.value.Render(strconv.Itoa(len(res.After.Communities)))),
		rd.row("Modularity", rd.value.Render(strconv.FormatFloat(res.After.Modularity, 'f', 4, 64))),
	}
	return rd.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (rd *Renderer) topEdges(res *reduction.Result) string {
	if len(res.Original.TopEdges) == 0 {
		return rd.muted.Render("No edges to rank.")
	}

	removed, _ := res.RemovedEdge()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(rd.r.NewStyle().Foreground(colorHeader)).
		Headers("#", "EDGE", "BETWEENNESS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return rd.header
			}
			if row >= 0 && row < len(res.Original.TopEdges) && res.Original.TopEdges[row].Key == removed {
				return rd.removed.Padding(0, 1)
			}
			return rd.r.NewStyle().Padding(0, 1)
		})

	for i, e := range res.Original.TopEdges {
		t.Row(strconv.Itoa(i+1), string(e.Key), formatScore(e.Score))
	}
	return t.Render()
}

// Communities lists the components left after removal.
func (rd *Renderer) Communities(res *reduction.Result) string {
	lines := []string{rd.title.Render("Communities after removal")}
	for _, c := range res.After.Communities {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			rd.label.Render(fmt.Sprintf("[%d] size %d", c.ID, c.Size)),
			strings.Join(c.Nodes, ", "),
			rd.muted.Render(fmt.Sprintf("(density %.2f)", c.Density)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
