package relocate

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	ansiReset      = "\x1b[0m"
	ansiBoldYellow = "\x1b[1;33m"
	ansiRed        = "\x1b[31m"
	ansiGreen      = "\x1b[32m"
)

// ReportWriter renders operator reports.
type ReportWriter struct {
	Out   io.Writer
	Color bool
	// Resolver shortens absolute paths to project-relative ones when set.
	Resolver *Resolver
}

func (w ReportWriter) heading(title string) {
	if w.Color {
		fmt.Fprintf(w.Out, "%s%s%s\n", ansiBoldYellow, title, ansiReset)
		return
	}
	fmt.Fprintln(w.Out, title)
}

func (w ReportWriter) colored(color, s string) string {
	if !w.Color {
		return s
	}
	return color + s + ansiReset
}

func (w ReportWriter) display(p string) string {
	if w.Resolver != nil {
		if rel, err := w.Resolver.Rel(p); err == nil && !strings.HasPrefix(rel, "../") {
			return rel
		}
	}
	return p
}

// Diagnosis prints the conformance status and its findings.
func (w ReportWriter) Diagnosis(d Diagnosis) {
	switch d.Status {
	case StatusConform:
		fmt.Fprintln(w.Out, w.colored(ansiGreen, fmt.Sprintf("Photo paths conform (%d checked).", d.Checked)))
	case StatusMissing:
		fmt.Fprintln(w.Out, w.colored(ansiRed, fmt.Sprintf("%d referenced photo(s) missing on disk.", len(d.Missing))))
		for _, p := range d.Missing {
			fmt.Fprintf(w.Out, "  %s\n", p)
		}
	default:
		w.heading(fmt.Sprintf("%d of %d photo path(s) need migration", len(d.NonConformant), d.Checked))
		rows := make([][]string, 0, len(d.NonConformant))
		for _, c := range d.NonConformant {
			rows = append(rows, []string{strconv.FormatInt(c.Row, 10), c.Segment, c.Column, c.Value})
		}
		fmt.Fprintln(w.Out, renderTable([]string{"Row", "Segment", "Column", "Path"}, rows, 0))
	}
}

// Duplications prints the shared assets grouped by category.
func (w ReportWriter) Duplications(c Classification) {
	if c.Empty() {
		fmt.Fprintln(w.Out, "No photo is referenced more than once.")
		return
	}
	for _, cat := range ReportOrder {
		assets := c.Assets(cat)
		if len(assets) == 0 {
			continue
		}
		w.heading(fmt.Sprintf("%s: %d", cat.Title(), len(assets)))
		rows := make([][]string, 0, len(assets))
		for _, a := range assets {
			refs := make([]string, len(a.Refs))
			for i, r := range a.Refs {
				refs[i] = r.String()
			}
			rows = append(rows, []string{w.display(a.Path), strings.Join(refs, "\n")})
		}
		fmt.Fprintln(w.Out, renderTable([]string{"Photo", "References (segment:disorder:column)"}, rows, 0))
	}
	if c.HasCrossSegment() {
		fmt.Fprintln(w.Out, w.colored(ansiRed, "Photos shared across segments will be physically copied into each segment directory."))
	}
}

// Plan prints the moves an outcome would perform.
func (w ReportWriter) Plan(o Outcome) {
	w.heading(fmt.Sprintf("Relocation plan (%s)", o.Pair))
	var rows [][]string
	for _, src := range o.Mapping.Sources() {
		for _, dst := range o.Mapping.Destinations(src) {
			action := "move"
			switch {
			case samePath(src, dst):
				action = "keep"
			case len(o.Mapping.Destinations(src)) > 1:
				action = "copy"
			}
			rows = append(rows, []string{action, w.display(src), w.display(dst)})
		}
	}
	fmt.Fprintln(w.Out, renderTable([]string{"Action", "Source", "Destination"}, rows, 0))
	if o.Collisions.Len() > 0 {
		w.Collisions(o.Collisions)
	}
}

// Collisions prints colliding destinations and their claimants.
func (w ReportWriter) Collisions(c CollisionSet) {
	w.heading(fmt.Sprintf("Destination collisions: %d", c.Len()))
	rows := make([][]string, 0, c.Len())
	for _, dest := range c.Paths() {
		claimants := c.Claimants(dest)
		names := make([]string, len(claimants))
		for i, src := range claimants {
			names[i] = w.display(src)
		}
		rows = append(rows, []string{w.display(dest), strings.Join(names, "\n")})
	}
	fmt.Fprintln(w.Out, renderTable([]string{"Destination", "Claimed by"}, rows, 0))
}

// Trail prints the escalation steps.
func (w ReportWriter) Trail(steps []Step) {
	rows := make([][]string, len(steps))
	for i, s := range steps {
		rows[i] = []string{strconv.Itoa(i + 1), s.Pair.String(), strconv.Itoa(s.Collisions)}
	}
	fmt.Fprintln(w.Out, renderTable([]string{"#", "Strategy", "Collisions"}, rows, 2))
}

// renderTable draws a rounded table; columns from rightFrom on are right aligned
// when rightFrom is positive.
func renderTable(headers []string, rows [][]string, rightFrom int) string {
	tw := prettytable.NewWriter()
	tw.SetStyle(prettytable.StyleRounded)

	header := make(prettytable.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		r := make(prettytable.Row, len(headers))
		for i := range headers {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]prettytable.ColumnConfig, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if rightFrom > 0 && i >= rightFrom {
			align = text.AlignRight
		}
		configs[i] = prettytable.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
