package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/olivier-w/snkscrub/internal/cli"
	"github.com/olivier-w/snkscrub/internal/ui"
)

// opener builds a scrubber for the chain file at path. An empty path opens
// the built-in demo.
type opener func(path string) (ui.Model, error)

func newOpener(cmd *cobra.Command, opts *cli.RootOptions, log *slog.Logger) opener {
	return func(path string) (ui.Model, error) {
		return buildScrubModel(path, cmd, opts, log)
	}
}

func buildScrubModel(path string, cmd *cobra.Command, opts *cli.RootOptions, log *slog.Logger) (ui.Model, error) {
	scene, err := cli.LoadScene(path)
	if err != nil {
		return ui.Model{}, err
	}
	params, err := cli.ResolveParams(cmd, opts, scene)
	if err != nil {
		return ui.Model{}, err
	}

	log.Info("opening chain", "path", path, "name", scene.Name, "states", len(scene.Chain))
	return ui.New(scene, ui.Config{
		Params:      params,
		MaxTicks:    opts.MaxTicks,
		PrefixCache: opts.PrefixCache,
		Profile:     cli.ColorProfile(opts),
		Logger:      log,
	})
}
