package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/lrg/internal/integration"
	"github.com/idelchi/lrg/internal/log"
	"github.com/idelchi/lrg/pkg/lrg"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// LogLevelEnv is the environment variable holding the default log level.
const LogLevelEnv = "LRG_LOG"

//nolint:gochecknoglobals // Config constant
var (
	allowedOutputs    = []string{"plain", "table", "json"}
	allowedSortBys    = []string{"size", "path", "name"}
	allowedLogFormats = []string{"text", "json"}
)

// Options holds the parsed command-line flags.
type Options struct {
	// Path is the file or directory to search.
	Path string
	// Number is the number of entries to display.
	Number int
	// MaxDepth is the maximum recursion depth, honored when MaxDepthSet is true.
	MaxDepth int
	// MaxDepthSet indicates whether --max-depth was given.
	MaxDepthSet bool
	// MinDepth is the minimum depth at which entries are reported.
	MinDepth int
	// NoRecursion restricts the search to the direct children of Path.
	NoRecursion bool
	// FollowLinks follows symbolic links.
	FollowLinks bool
	// Directories includes directories in the results.
	Directories bool
	// SortBy is the ranking key: size, path or name.
	SortBy string
	// Reverse reverses the ranking.
	Reverse bool
	// Absolute prints absolute paths.
	Absolute bool
	// Output represents output format (plain, table or json).
	Output string
	// LowMemory keeps only the top entries in memory while walking.
	LowMemory bool
	// NoColor disables styled output.
	NoColor bool
	// LogLevel is the minimum level of diagnostics written to stderr.
	LogLevel string
	// LogFile is an optional file receiving diagnostics.
	LogFile string
	// LogFormat is the format of diagnostics (text or json).
	LogFormat string
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Version indicates whether to show version and exit.
	Version bool
	// Integration indicates whether to output integration script.
	Integration bool
}

// validate rejects malformed flag values before anything is walked.
func (o Options) validate() error {
	if o.Number < 0 {
		return fmt.Errorf("%w: number cannot be negative: %d", lrg.ErrInvalidArgument, o.Number)
	}

	if !slices.Contains(allowedOutputs, o.Output) {
		return fmt.Errorf("%w: invalid output format %q: must be one of %v",
			lrg.ErrInvalidArgument, o.Output, allowedOutputs)
	}

	if !slices.Contains(allowedSortBys, o.SortBy) {
		return fmt.Errorf("%w: invalid sort key %q: must be one of %v",
			lrg.ErrInvalidArgument, o.SortBy, allowedSortBys)
	}

	if o.LowMemory && o.SortBy != "size" {
		return fmt.Errorf("%w: --low-memory can only rank by size", lrg.ErrInvalidArgument)
	}

	if !slices.Contains(allowedLogFormats, o.LogFormat) {
		return fmt.Errorf("%w: invalid log format %q: must be one of %v",
			lrg.ErrInvalidArgument, o.LogFormat, allowedLogFormats)
	}

	if _, err := log.Parse(o.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", lrg.ErrInvalidArgument, err)
	}

	return o.walkOptions().Validate()
}

// walkOptions translates the flags into walk options.
func (o Options) walkOptions() lrg.Options {
	opts := lrg.Options{
		MinDepth:    o.MinDepth,
		NoRecursion: o.NoRecursion,
		FollowLinks: o.FollowLinks,
		IncludeDirs: o.Directories,
	}

	if o.MaxDepthSet {
		opts.MaxDepth = lrg.Depth(o.MaxDepth)
	}

	return opts
}

// order returns the size ranking direction.
func (o Options) order() lrg.Order {
	if o.Reverse {
		return lrg.Ascending
	}

	return lrg.Descending
}

// Command builds the root command writing to stdout and stderr.
//
//nolint:funlen // Flag definitions
func (c CLI) Command(stdout, stderr io.Writer) *cobra.Command {
	var options Options

	defaultLevel := os.Getenv(LogLevelEnv)
	if defaultLevel == "" {
		defaultLevel = "warn"
	}

	cmd := &cobra.Command{
		Use:   "lrg [flags] [FILEPATH]",
		Short: "Find the largest files in a directory",
		Long: heredoc.Doc(`
			lrg finds the largest (or smallest) files in a directory tree.

			FILEPATH is the file or directory to search. Defaults to the current
			directory if not specified. When FILEPATH is a file, it is the only result.

			The depth of the direct children of FILEPATH is 0. --no-recursion takes
			precedence over --max-depth and behaves like --max-depth 0.

			Subdirectories that cannot be read are reported and skipped.
		`),
		Example: heredoc.Doc(`
			# The 5 largest files below the current directory
			lrg

			# The 10 largest files and directories in /var/log, without descending
			lrg -n 10 -i -r /var/log

			# The smallest files as JSON
			lrg --reverse -o json ~/src
		`),
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return fmt.Errorf("%w: %w", lrg.ErrInvalidArgument, err)
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Version {
				fmt.Fprintln(stdout, c.version)

				return nil
			}

			if options.Integration {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(stdout, rendered)

				return nil
			}

			options.MaxDepthSet = cmd.Flags().Changed("max-depth")

			if len(args) == 0 {
				options.Path = "."
			} else {
				options.Path = args[0]
			}

			if err := options.validate(); err != nil {
				return err
			}

			return logic(options, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.IntVarP(&options.Number, "number", "n", 5, "Number of entries to list")
	flags.BoolVarP(&options.Directories, "directories", "i", false, "Include directories in the search")
	flags.BoolVarP(&options.FollowLinks, "follow-links", "l", false, "Follow symbolic links")
	flags.BoolVarP(&options.NoRecursion, "no-recursion", "r", false,
		"Only visit the direct children of FILEPATH, takes precedence over --max-depth")
	flags.IntVarP(&options.MaxDepth, "max-depth", "d", 0, "Maximum depth of directories to descend into (default unbounded)")
	flags.IntVar(&options.MinDepth, "min-depth", 0, "Minimum depth at which entries are listed")
	flags.StringVar(&options.SortBy, "sort-by", "size", "Ranking key: size, path or name")
	flags.BoolVar(&options.Reverse, "reverse", false, "Reverse the ranking (smallest first when ranking by size)")
	flags.BoolVarP(&options.Absolute, "absolute", "a", false, "Print absolute paths")
	flags.StringVarP(&options.Output, "output", "o", "plain", "Output format: plain, table or json")
	flags.BoolVar(&options.LowMemory, "low-memory", false, "Keep only the listed entries in memory while searching")
	flags.BoolVar(&options.NoColor, "no-color", false, "Disable colored output")
	flags.StringVar(&options.LogLevel, "log-level", defaultLevel, "Log level: debug, info, warn or error (env "+LogLevelEnv+")")
	flags.StringVar(&options.LogFile, "log-file", "", "Also write diagnostics to this file")
	flags.StringVar(&options.LogFormat, "log-format", "text", "Log format: text or json")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&options.Version, "version", "V", false, "Show version and exit")
	flags.BoolVar(&options.Integration, "init", false, "Output init script for shell usage")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", lrg.ErrInvalidArgument, err)
	})

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command(os.Stdout, os.Stderr).Execute()
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, lrg.ErrInvalidArgument):
		return 2
	default:
		return 1
	}
}
