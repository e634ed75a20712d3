package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/olivier-w/snkscrub/internal/draw"
	"github.com/olivier-w/snkscrub/internal/scrub"
	"github.com/olivier-w/snkscrub/internal/util"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Target float64
	From   float64
	Cols   int
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render [chain.yaml]",
		Short: "Animate the snake toward a target on plain stdout",
		Long: `Animate a scrubber toward --target in real time, redrawing the grid in
place on stdout until the spring settles. Interrupting stops the run.

Examples:
  snkscrub render --target 47
  snkscrub render route.yaml --from 10 --target 30 --cols 20 --no-color`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, cmd, args)
		},
	}

	cmd.Flags().Float64Var(&opts.Target, "target", 0, "chain index to move toward (required)")
	_ = cmd.MarkFlagRequired("target")
	cmd.Flags().Float64Var(&opts.From, "from", 0, "chain index the spring starts at")
	cmd.Flags().IntVar(&opts.Cols, "cols", 0, "grid columns to show (0 = all)")

	return cmd
}

func runRender(opts *RenderOptions, cmd *cobra.Command, args []string) error {
	if !finite(opts.Target) || !finite(opts.From) {
		return NewExitError(ExitCommandError, "target and start must be finite")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	canvas := draw.NewCanvas(draw.Options{
		Profile:  ColorProfile(opts.RootOptions),
		Viewport: opts.Cols,
		FPS:      params.FPS,
	})

	// The tick that New queues may go idle before SetTarget replaces it.
	idle := make(chan scrub.Status, 2)
	ctrlOpts := []scrub.Option{
		scrub.WithParams(params),
		scrub.WithMaxTicks(opts.MaxTicks),
		scrub.WithLogger(log),
		scrub.WithStart(opts.From),
		scrub.WithOnIdle(func(st scrub.Status) {
			select {
			case idle <- st:
			default:
			}
		}),
	}
	if opts.PrefixCache {
		ctrlOpts = append(ctrlOpts, scrub.WithPrefixCache())
	}
	ctrl, err := scrub.New(scene.Chain, scene.Base, canvas, scrub.NewTimerScheduler(params.FPS), ctrlOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create scrubber", err)
	}
	defer ctrl.Dispose()

	ctrl.SetTarget(opts.Target)
	target := ctrl.Status().Spring.Target

	out := cmd.OutOrStdout()
	ticker := time.NewTicker(time.Second / time.Duration(params.FPS))
	defer ticker.Stop()

	lines := 0
	for {
		select {
		case <-ctx.Done():
			ctrl.Dispose()
			return WrapExitError(ExitFailure, "render interrupted", ctx.Err())

		case st := <-idle:
			if st.Spring.Target != target {
				continue
			}
			redraw(out, canvas.View(), lines)
			fmt.Fprintf(out, "%s at %s after %d ticks (%s)\n",
				settledVerb(st), util.FormatPosition(st.Spring.X, ctrl.Len()), st.Ticks, util.FormatTicks(st.Ticks, params.FPS))
			if st.Bounded {
				return NewExitError(ExitFailure, fmt.Sprintf("spring did not settle within %d ticks", st.Ticks))
			}
			return nil

		case <-ticker.C:
			lines = redraw(out, canvas.View(), lines)
		}
	}
}

// redraw overwrites the prev lines written last time with view and
// returns how many lines it wrote.
func redraw(w io.Writer, view string, prev int) int {
	if view == "" {
		return prev
	}
	if prev > 0 {
		fmt.Fprintf(w, "\x1b[%dA\r\x1b[J", prev)
	}
	fmt.Fprintln(w, view)
	return lipgloss.Height(view)
}

func settledVerb(st scrub.Status) string {
	if st.Bounded {
		return "stopped"
	}
	return "settled"
}
