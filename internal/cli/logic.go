package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/lrg/internal/log"
	"github.com/idelchi/lrg/pkg/lrg"
)

func logic(options Options, stdout, stderr io.Writer) error {
	logger, err := newLogger(options, stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	enableProgress := options.Output != "json" &&
		!options.Debug &&
		isTerminal(stderr)

	walkOptions := options.walkOptions()
	walkOptions.Logger = logger.Named("walk")

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		walkOptions.Progress = func(files int64, bytes uint64) {
			msg := fmt.Sprintf("Scanning… %s entries, %s", humanize.Comma(files), humanize.IBytes(bytes))
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	logger.Debugf("searching %q with %+v", options.Path, options)

	entries, summary, err := rank(options, walkOptions)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	logger.Infof("visited %d entries (%s) in %v, %d skipped",
		summary.Count(), humanize.IBytes(summary.TotalBytes), summary.Elapsed, len(summary.Skipped))

	if summary.Count() == 0 {
		fmt.Fprintln(stderr, "lrg: no files found")

		if options.Output != "json" {
			return nil
		}
	}

	if entries == nil {
		entries = []lrg.Entry{}
	}

	for i := range entries {
		path, err := displayPath(entries[i].Path, options.Absolute)
		if err != nil {
			return err
		}

		entries[i].Path = path
	}

	report := Report{
		Root:    options.Path,
		Entries: entries,
		Summary: summary,
	}

	for _, skipped := range summary.Skipped {
		report.Skipped = append(report.Skipped, skipped.Error())
	}

	switch options.Output {
	case "json":
		return PrintJSON(report, stdout)
	case "table":
		return PrintTable(report, stdout)
	default:
		return PrintPlain(report, stdout, !options.NoColor && isTerminal(stdout))
	}
}

// newLogger builds the diagnostics logger from the log flags.
func newLogger(options Options, stderr io.Writer) (*log.Logger, error) {
	level, err := log.Parse(options.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", lrg.ErrInvalidArgument, err)
	}

	if options.Debug {
		level = log.Debug
	}

	logger := log.NewLogger("lrg", level, stderr, options.LogFile)
	logger.NoColor = options.NoColor || !isTerminal(stderr)
	logger.JSON = options.LogFormat == "json"

	return logger, nil
}

// rank walks the tree and returns the entries to display, best first.
func rank(options Options, walkOptions lrg.Options) ([]lrg.Entry, *lrg.Summary, error) {
	if options.LowMemory {
		top := lrg.NewTopN(options.Number, options.order())

		summary, err := lrg.Walk(options.Path, walkOptions, func(e lrg.Entry) error {
			top.Add(e)

			return nil
		})
		if err != nil {
			return nil, nil, err
		}

		return top.Entries(), summary, nil
	}

	found, err := lrg.New(options.Path, walkOptions)
	if err != nil {
		return nil, nil, err
	}

	switch options.SortBy {
	case "path":
		found.SortByCustom(direction(lrg.ByPath, options.Reverse))
	case "name":
		found.SortByCustom(direction(lrg.ByName, options.Reverse))
	default:
		found.SortBy(options.order())
	}

	return found.Top(options.Number), found.Summary(), nil
}

// direction returns fn, reversed if requested.
func direction(fn func(a, b lrg.Entry) int, reverse bool) func(a, b lrg.Entry) int {
	if reverse {
		return lrg.Reverse(fn)
	}

	return fn
}

// displayPath formats a path for output.
func displayPath(path string, absolute bool) (string, error) {
	if absolute {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolving absolute path of %q: %w", path, err)
		}

		path = abs
	}

	path = filepath.ToSlash(path)

	if trimmed := strings.TrimPrefix(path, "./"); trimmed != "" {
		path = trimmed
	}

	return path, nil
}

// isTerminal reports whether w is attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
