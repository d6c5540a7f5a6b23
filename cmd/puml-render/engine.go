// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/puml-render/internal/convert"
	"github.com/pdiddy/puml-render/internal/engine"
)

func newEngineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "engine",
		Short: "Show where the PlantUML engine is searched for and which one is used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			candidates := cfg.Engine.Candidates
			if len(candidates) == 0 {
				home, _ := os.UserHomeDir()
				candidates = engine.DefaultCandidates(home)
			}

			fmt.Fprintln(w, "Search order:")
			for _, p := range candidates {
				fmt.Fprintf(w, "  %-45s  %s\n", p, presence(p))
			}
			override := cfg.Engine.Override
			if override == "" {
				fmt.Fprintf(w, "  %-45s  %s\n", "$"+engine.OverrideEnv, "unset")
			} else {
				fmt.Fprintf(w, "  %-45s  %s\n", "$"+engine.OverrideEnv+" = "+override, presence(override))
			}

			loc := engine.Locate(candidates, override, engine.FileExists)
			if !loc.Found() {
				return fmt.Errorf("%w: download it from %s or set %s to its location",
					convert.ErrEngineNotFound, engine.DownloadURL, engine.OverrideEnv)
			}
			fmt.Fprintf(w, "\nEngine: %s\n", loc)
			return nil
		},
	}
}

func presence(path string) string {
	if engine.FileExists(path) {
		return "found"
	}
	return "missing"
}
