// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the puml-render CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/puml-render/internal/engine"
	"github.com/pdiddy/puml-render/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// errConversionFailed is returned when the engine ran but rejected the
// diagram. The engine's own error output has already been shown.
var errConversionFailed = errors.New("conversion failed")

// app carries the state shared by all subcommands of one CLI invocation.
type app struct {
	v         *viper.Viper
	newRunner func() engine.Runner
	logger    *log.Logger
}

func newApp(newRunner func() engine.Runner) *app {
	return &app{
		v:         viper.New(),
		newRunner: newRunner,
		logger:    log.New(io.Discard),
	}
}

func newRootCmd(a *app) *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	root := &cobra.Command{
		Use:   "puml-render",
		Short: "Render PlantUML diagrams to PNG or SVG",
		Long: `puml-render converts PlantUML diagram files into PNG or SVG images by
running the PlantUML engine (plantuml.jar) as a child process.

The engine is searched for in ./plantuml.jar, /usr/local/bin/plantuml.jar,
/usr/share/plantuml/plantuml.jar, ~/plantuml.jar and ~/bin/plantuml.jar, then
in the file named by the PLANTUML_JAR environment variable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			a.logger = newLogger(cmd.ErrOrStderr(), level)
			return a.initConfig(cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./puml-render.yaml or ~/.config/puml-render/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().String("history-db", "", "record conversions in this SQLite database")
	_ = a.v.BindPFlag("history.db", root.PersistentFlags().Lookup("history-db"))

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newEngineCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) initConfig(cfgFile string) error {
	v := a.v
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("puml-render")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "puml-render"))
		}
	}

	v.SetDefault("format", string(types.FormatPNG))
	v.SetDefault("engine.java", "java")
	v.SetDefault("history.max_results", 20)

	v.SetEnvPrefix("PUML_RENDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("engine.override", engine.OverrideEnv); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	} else {
		a.logger.Debug("using config file", "path", v.ConfigFileUsed())
	}
	return nil
}

// config returns the merged configuration: flags over environment over
// config file over defaults.
func (a *app) config() (types.RenderConfig, error) {
	var cfg types.RenderConfig
	if err := a.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// run executes the CLI with args and returns the process exit status.
func run(a *app, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errConversionFailed) {
			fmt.Fprintf(stdout, "ERROR: %v\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(newApp(engine.NewOSRunner), os.Args[1:], os.Stdout, os.Stderr))
}
