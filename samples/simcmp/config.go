package main

import (
	"os"

	"gopkg.in/urfave/cli.v1"

	"gitlab.com/akita/simcmp/comparison"
	"gitlab.com/akita/simcmp/config"
	"gitlab.com/akita/simcmp/utils"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[file]",
		Description: `The dumpconfig command shows the effective configuration as TOML.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
)

// loadConfig loads the defaults, the config file and the flags, in that
// order.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Defaults()

	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := config.Load(file, &cfg); err != nil {
			return cfg, err
		}
	}

	applyReportFlags(ctx, &cfg)

	if ctx.IsSet(workersFlag.Name) {
		cfg.Matrix.Workers = ctx.Int(workersFlag.Name)
	}

	return cfg, cfg.Validate()
}

func applyReportFlags(ctx *cli.Context, cfg *config.Config) {
	if ctx.Bool(initialFlag.Name) {
		cfg.Report.Initial = true
	}
	if ctx.Bool(trailingFlag.Name) {
		cfg.Report.Trailing = true
	}
	if ctx.Bool(verboseFlag.Name) {
		cfg.Report.Verbose = true
	}
}

func makeComparator(cfg config.Config, console *utils.Console) (*comparison.Comparator, error) {
	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, err
	}

	return comparison.MakeBuilder().
		WithLayout(cfg.Paths).
		WithAnchorLabels(cfg.Anchors.Start, cfg.Anchors.End).
		WithClassifier(classifier).
		WithSelection(cfg.Stages.Selection).
		WithPrintedStages(cfg.Stages.Printed).
		WithCandidateFormat(cfg.Candidate).
		WithOptions(cfg.Metrics).
		WithInitial(cfg.Report.Initial).
		WithTrailing(cfg.Report.Trailing).
		WithAnnotation(cfg.Report.Annotate).
		WithSummary(cfg.Report.JSON).
		WithVerbose(cfg.Report.Verbose).
		WithConsole(console).
		Build(), nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}

	return config.Dump(dump, cfg)
}
