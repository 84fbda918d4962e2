package main

import (
	"context"
	"fmt"
	"io"

	"github.com/alchemorsel/recipebook/internal/application/catalog"
	"github.com/alchemorsel/recipebook/internal/infrastructure/cli"
	"github.com/alchemorsel/recipebook/internal/infrastructure/config"
	"github.com/alchemorsel/recipebook/internal/infrastructure/container"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/flatfile"
	"github.com/alchemorsel/recipebook/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app carries state shared by every subcommand once PersistentPreRunE has run
type app struct {
	in  io.Reader
	out io.Writer

	configFile string
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	var accessible bool

	rootCmd := &cobra.Command{
		Use:   "recipebook",
		Short: "Manage a recipe catalog stored in a flat file",
		Long: `recipebook keeps recipes in a plain text file, one record per line:

  name,ingredientCount,ingredient_1,...,ingredient_N,calories,category

Run without a subcommand to open the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, cmd.Name() == "serve")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd.Context(), accessible)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./recipebook.yaml)")
	flags.StringP("file", "f", "", "catalog file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Uint64("seed", 0, "seed for surprise suggestions, 0 for random")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.Flags().BoolVar(&accessible, "accessible", false, "line-based prompts for screen readers and pipes")

	rootCmd.AddCommand(
		newListCmd(a),
		newServeCmd(a),
		newExportCmd(a),
	)

	return rootCmd
}

// flagBindings maps persistent flags onto config keys
var flagBindings = map[string]string{
	"file":      "catalog.file",
	"log-level": "app.log_level",
	"seed":      "catalog.random_seed",
}

// commandBindings maps subcommand flags onto config keys, keyed by command name
var commandBindings = map[string]map[string]string{
	"serve": {
		"host":  "server.host",
		"port":  "server.port",
		"watch": "catalog.watch",
	},
	"export": {
		"output": "export.sqlite_path",
	},
}

// setup loads configuration, applies flag overrides and builds the logger
func (a *app) setup(cmd *cobra.Command, logToStdout bool) error {
	_, v, err := config.Load(a.configFile)
	if err != nil {
		return err
	}

	for _, bindings := range []map[string]string{flagBindings, commandBindings[cmd.Name()]} {
		for name, key := range bindings {
			if err := bindChanged(v, key, cmd.Flags().Lookup(name)); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// prompts and listings own stdout
	output := "stderr"
	if logToStdout {
		output = "stdout"
	}

	a.logger, err = logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Debug,
		OutputPaths: []string{output},
		Name:        cfg.App.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// bindChanged binds a flag only when the user set it, so config and env keep precedence over flag defaults
func bindChanged(v *viper.Viper, key string, flag *pflag.Flag) error {
	if flag == nil || !flag.Changed {
		return nil
	}
	return v.BindPFlag(key, flag)
}

// loadCatalog builds a catalog over the configured file and loads it
func (a *app) loadCatalog(ctx context.Context) (*catalog.Service, error) {
	store := flatfile.NewStore(a.cfg.Catalog.File, a.logger)
	svc := catalog.NewService(store, a.logger,
		catalog.WithRandomSource(container.NewRandomSource(a.cfg)),
	)

	report, err := svc.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(report.Skipped) > 0 {
		cli.NewRenderer(a.out, !a.noColor).LoadReport(report)
	}
	return svc, nil
}

func (a *app) runMenu(ctx context.Context, accessible bool) error {
	svc, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}

	prompter := cli.NewHuhPrompter(
		cli.WithIO(a.in, a.out),
		cli.WithAccessible(accessible),
	)
	menu := cli.NewMenu(svc, prompter, cli.NewRenderer(a.out, !a.noColor), a.logger)
	return menu.Run(ctx)
}
