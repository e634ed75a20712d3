package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/olivier-w/snkscrub/internal/sampler"
	"github.com/olivier-w/snkscrub/internal/scrub"
	"github.com/olivier-w/snkscrub/internal/spring"
	"github.com/olivier-w/snkscrub/internal/util"
)

// DefaultTraceLimit caps a trace whose spring never settles.
const DefaultTraceLimit = 100000

// ValidFormats defines the allowed trace output formats.
var ValidFormats = []string{"text", "json"}

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Target float64
	From   float64
	Limit  int
	Format string
}

// TraceTick is one tick of a traced run.
type TraceTick struct {
	Tick   int     `json:"tick"`
	X      float64 `json:"x"`
	V      float64 `json:"v"`
	Lower  int     `json:"lower"`
	Upper  int     `json:"upper"`
	Blend  float64 `json:"blend"`
	Eaten  int     `json:"eaten"`
	Stable bool    `json:"stable"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Scrubber string        `json:"scrubber"`
	Chain    string        `json:"chain"`
	States   int           `json:"states"`
	Target   float64       `json:"target"`
	Params   spring.Params `json:"params"`
	Ticks    []TraceTick   `json:"ticks"`
	Final    spring.State  `json:"final"`
	Settled  bool          `json:"settled"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [chain.yaml]",
		Short: "Print the spring's path toward a target, tick by tick",
		Long: `Drive a scrubber headlessly toward --target and print every tick:
spring position and velocity, the two chain states it sits between, the
blend weight and how many cells the snake has eaten so far.

Ticks are fired by hand, so a trace runs as fast as it can compute and is
identical on every run.

Examples:
  snkscrub trace --target 12
  snkscrub trace route.yaml --from 40 --target 0 --format json
  snkscrub trace --target 47 --tension 300 --friction 10`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd, args)
		},
	}

	cmd.Flags().Float64Var(&opts.Target, "target", 0, "chain index to move toward (required)")
	_ = cmd.MarkFlagRequired("target")
	cmd.Flags().Float64Var(&opts.From, "from", 0, "chain index the spring starts at")
	cmd.Flags().IntVar(&opts.Limit, "limit", DefaultTraceLimit, "stop after this many ticks")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command, args []string) error {
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}
	if !finite(opts.Target) || !finite(opts.From) {
		return NewExitError(ExitCommandError, "target and start must be finite")
	}
	if opts.Limit <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid limit %d: must be positive", opts.Limit))
	}

	log, closeLog, err := SetupLogging(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	scene, err := LoadScene(sceneArg(args))
	if err != nil {
		return err
	}
	params, err := ResolveParams(cmd, opts.RootOptions, scene)
	if err != nil {
		return err
	}

	rec := &frameRecorder{}
	sched := scrub.NewManualScheduler()
	ctrlOpts := []scrub.Option{
		scrub.WithParams(params),
		scrub.WithMaxTicks(opts.MaxTicks),
		scrub.WithLogger(log),
		scrub.WithStart(opts.From),
	}
	if opts.PrefixCache {
		ctrlOpts = append(ctrlOpts, scrub.WithPrefixCache())
	}
	ctrl, err := scrub.New(scene.Chain, scene.Base, rec, sched, ctrlOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create scrubber", err)
	}
	defer ctrl.Dispose()

	ctrl.SetTarget(opts.Target)

	result := TraceResult{
		Scrubber: ctrl.ID(),
		Chain:    scene.Name,
		States:   ctrl.Len(),
		Target:   ctrl.Status().Spring.Target,
		Params:   params,
		Ticks:    []TraceTick{},
	}
	for sched.Pending() && len(result.Ticks) < opts.Limit {
		sched.Fire()
		st := ctrl.Status()
		f := rec.last
		result.Ticks = append(result.Ticks, TraceTick{
			Tick:   st.Ticks,
			X:      st.Spring.X,
			V:      st.Spring.V,
			Lower:  f.LowerIndex,
			Upper:  f.UpperIndex,
			Blend:  f.Blend,
			Eaten:  len(f.Stack),
			Stable: st.State == scrub.Idle && !st.Bounded,
		})
	}
	st := ctrl.Status()
	result.Final = st.Spring
	result.Settled = st.State == scrub.Idle && !st.Bounded

	if opts.Format == "json" {
		err = outputTraceJSON(cmd.OutOrStdout(), result)
	} else {
		err = outputTraceText(cmd.OutOrStdout(), result)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to write trace", err)
	}

	if !result.Settled {
		return NewExitError(ExitFailure, fmt.Sprintf("spring did not settle within %d ticks", len(result.Ticks)))
	}
	return nil
}

func outputTraceJSON(w io.Writer, result TraceResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func outputTraceText(w io.Writer, result TraceResult) error {
	p := result.Params
	fmt.Fprintf(w, "%s (%d states)  target %.2f  tension %g  friction %g  max-velocity %g  fps %d\n",
		result.Chain, result.States, result.Target, p.Tension, p.Friction, p.MaxVelocity, p.FPS)
	fmt.Fprintf(w, "%6s %10s %10s %6s %6s %6s %6s\n", "tick", "x", "v", "lower", "upper", "blend", "eaten")
	for _, t := range result.Ticks {
		fmt.Fprintf(w, "%6d %10.4f %10.4f %6d %6d %6.3f %6d\n", t.Tick, t.X, t.V, t.Lower, t.Upper, t.Blend, t.Eaten)
	}

	verb := "settled"
	if !result.Settled {
		verb = "stopped"
	}
	_, err := fmt.Fprintf(w, "%s at %s after %d ticks (%s)\n",
		verb, util.FormatPosition(result.Final.X, result.States), len(result.Ticks), util.FormatTicks(len(result.Ticks), p.FPS))
	return err
}

// frameRecorder keeps the last frame the controller rendered.
type frameRecorder struct {
	last     sampler.Frame
	released bool
}

func (r *frameRecorder) Render(f sampler.Frame) { r.last = f }
func (r *frameRecorder) Release()               { r.released = true }

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func sceneArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
