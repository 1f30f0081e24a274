package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/idelchi/lrg/pkg/lrg"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// Report is the result of a search, as printed by the formatters.
type Report struct {
	Root    string       `json:"root"`
	Entries []lrg.Entry  `json:"entries"`
	Summary *lrg.Summary `json:"summary"`
	Skipped []string     `json:"skipped,omitempty"`
}

// percent returns the share of size in the total of the report.
func (r Report) percent(size uint64) float64 {
	if r.Summary == nil || r.Summary.TotalBytes == 0 {
		return 0
	}

	return 100.0 * float64(size) / float64(r.Summary.TotalBytes)
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(report Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintPlain outputs one "<size>: <path>" line per entry.
// Directories and links are highlighted when color is true.
func PrintPlain(report Report, writer io.Writer, color bool) error {
	var size, dir, link lipgloss.Style

	if color {
		renderer := lipgloss.NewRenderer(writer)

		size = renderer.NewStyle().Bold(true)
		dir = renderer.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
		link = renderer.NewStyle().Foreground(lipgloss.Color("6"))
	}

	for _, e := range report.Entries {
		path := e.Path

		switch {
		case e.IsDir:
			path = dir.Render(path)
		case e.IsSymlink:
			path = link.Render(path)
		}

		if _, err := fmt.Fprintf(writer, "%s: %s\n", size.Render(humanize.IBytes(e.Size)), path); err != nil {
			return err
		}
	}

	return nil
}

// PrintTable outputs the report in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(report Report, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "Top entries:\t\t")

	for i, e := range report.Entries {
		kind := ""

		switch {
		case e.IsDir:
			kind = " (dir)"
		case e.IsSymlink:
			kind = " (link)"
		}

		fmt.Fprintf(w, "  %d) '%s'%s\t%s (%.1f%%)\n",
			i+1, e.Path, kind, humanize.IBytes(e.Size), report.percent(e.Size))
	}

	if report.Summary == nil {
		return w.Flush()
	}

	summary := report.Summary

	// Stats summary
	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Root:\t%s\n", report.Root)
	fmt.Fprintf(w, "Total files:\t%s\n", humanize.Comma(summary.Files))

	if summary.Dirs > 0 {
		fmt.Fprintf(w, "Total directories:\t%s\n", humanize.Comma(summary.Dirs))
	}

	if summary.Links > 0 {
		fmt.Fprintf(w, "Total links:\t%s\n", humanize.Comma(summary.Links))
	}

	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", humanize.IBytes(summary.TotalBytes), summary.TotalBytes)

	if len(report.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped:\t%d\n", len(report.Skipped))
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", summary.Elapsed)

	return w.Flush()
}
