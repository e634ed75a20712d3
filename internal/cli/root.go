package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Tension     float64
	Friction    float64
	MaxVelocity float64
	FPS         int
	MaxTicks    int
	PrefixCache bool
	NoColor     bool
	LogLevel    string
	LogFile     string
}

// PlayFunc runs the interactive scrubber. The root command calls it when
// no subcommand is given.
type PlayFunc func(cmd *cobra.Command, opts *RootOptions, args []string) error

// ValidLogLevels defines the allowed --log-level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// NewRootCommand creates the root command for the snkscrub CLI.
func NewRootCommand(play PlayFunc) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "snkscrub [chain.yaml]",
		Short: "Scrub through a snake chain",
		Long: `snkscrub animates a snake along a precomputed chain of moves over a
contribution grid. A damped spring eases the view toward whichever chain
index you pick, so the snake glides between states instead of jumping.

With no argument a picker lists the chain files in the current directory
alongside a built-in demo.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if play == nil {
				return NewExitError(ExitCommandError, "interactive mode unavailable")
			}
			return play(cmd, opts, args)
		},
	}

	// Global flags
	cmd.PersistentFlags().Float64Var(&opts.Tension, "tension", 120, "spring tension")
	cmd.PersistentFlags().Float64Var(&opts.Friction, "friction", 20, "spring friction")
	cmd.PersistentFlags().Float64Var(&opts.MaxVelocity, "max-velocity", 50, "velocity limit in chain states per second")
	cmd.PersistentFlags().IntVar(&opts.FPS, "fps", 60, "ticks per second")
	cmd.PersistentFlags().IntVar(&opts.MaxTicks, "max-ticks", 0, "stop a run after this many ticks (0 = unbounded)")
	cmd.PersistentFlags().BoolVar(&opts.PrefixCache, "prefix-cache", false, "reuse replayed chain prefixes between frames")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colour output")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file")

	// Add subcommands
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))

	return cmd
}

func (o *RootOptions) validate() error {
	if !slices.Contains(ValidLogLevels, o.LogLevel) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid log level %q: must be one of %v", o.LogLevel, ValidLogLevels))
	}
	if o.FPS <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid fps %d: must be positive", o.FPS))
	}
	if o.MaxTicks < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid max ticks %d: must not be negative", o.MaxTicks))
	}
	return nil
}
