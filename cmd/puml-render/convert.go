// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/puml-render/internal/convert"
	"github.com/pdiddy/puml-render/internal/history"
	"github.com/pdiddy/puml-render/pkg/types"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <source-file>",
		Short: "Render a PlantUML file to PNG or SVG",
		Long: `Convert runs the PlantUML engine on a single diagram file. The image is
written next to the source file, or into --output-dir when given (the
directory is created if missing). The engine's error output is shown when
the diagram cannot be rendered.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlag("format", cmd.Flags().Lookup("format")); err != nil {
				return err
			}
			return a.v.BindPFlag("output_dir", cmd.Flags().Lookup("output-dir"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, args[0])
		},
	}

	cmd.Flags().String("format", "png", "output format: png or svg")
	cmd.Flags().String("output-dir", "", "directory for the rendered image (created if missing)")
	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, source string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}

	req := types.ConversionRequest{
		SourcePath: source,
		Format:     types.Format(cfg.Format),
		OutputDir:  cfg.OutputDir,
	}
	if err := convert.Validate(req); err != nil {
		return err
	}

	opts := []convert.Option{convert.WithLogger(a.logger)}
	if cfg.History.Enabled() {
		store, err := history.Open(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()
		ctx := cmd.Context()
		opts = append(opts, convert.WithRecorder(func(rec types.HistoryRecord) error {
			_, err := store.Record(ctx, rec)
			return err
		}))
	}

	c := convert.New(cfg.Engine, a.newRunner(), opts...)
	res, err := c.Convert(req, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if !res.Succeeded {
		return fmt.Errorf("%w: %s", errConversionFailed, source)
	}
	return nil
}
