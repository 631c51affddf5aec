// Command simcmp compares the instruction traces of the RTL simulation and
// the performance simulator.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"

	"github.com/tebeka/atexit"
	"gopkg.in/urfave/cli.v1"

	"gitlab.com/akita/simcmp/comparison"
	"gitlab.com/akita/simcmp/report"
	"gitlab.com/akita/simcmp/samples/runner"
	"gitlab.com/akita/simcmp/utils"
)

var (
	archFlag = cli.StringFlag{
		Name:  "arch",
		Usage: "Architecture string, e.g. rv32im_zve32x",
		Value: "rv32im_zve32x",
	}
	vlenFlag = cli.IntFlag{
		Name:  "vlen",
		Usage: "Vector register length in bits",
		Value: 128,
	}
	laneFlag = cli.IntFlag{
		Name:  "lane",
		Usage: "Vector lane width in bits",
		Value: 32,
	}
	targetFlag = cli.StringFlag{
		Name:  "target",
		Usage: "Target program",
	}
	initialFlag = cli.BoolFlag{
		Name:  "initial",
		Usage: "Add the instructions before the window to the report",
	}
	trailingFlag = cli.BoolFlag{
		Name:  "trailing",
		Usage: "Add the instructions after the window to the report",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "Print where the anchors matched",
	}
	workersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "Number of concurrent comparisons",
	}
	addrFlag = cli.StringFlag{
		Name:  "addr",
		Usage: "Listen address of the results server",
		Value: ":8080",
	}

	reportFlags = []cli.Flag{initialFlag, trailingFlag, verboseFlag}
)

var errRunFailed = errors.New("comparison failed")

func main() {
	app := cli.NewApp()
	app.Name = "simcmp"
	app.Usage = "compare RTL and performance simulator traces"
	app.Flags = []cli.Flag{configFileFlag}
	app.Commands = []cli.Command{
		{
			Action:    compare,
			Name:      "compare",
			Usage:     "Compare the traces of one configuration",
			ArgsUsage: "",
			Flags: append([]cli.Flag{
				archFlag, vlenFlag, laneFlag, targetFlag,
			}, reportFlags...),
		},
		{
			Action: matrix,
			Name:   "matrix",
			Usage:  "Compare every configuration of the matrix",
			Flags:  append([]cli.Flag{workersFlag}, reportFlags...),
		},
		{
			Action: serve,
			Name:   "serve",
			Usage:  "Compare the matrix and serve the results over HTTP",
			Flags:  append([]cli.Flag{workersFlag, addrFlag}, reportFlags...),
		},
		dumpConfigCommand,
	}

	if err := app.Run(os.Args); err != nil {
		utils.Std().Error("simcmp", "%v", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func compare(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	target := ctx.String(targetFlag.Name)
	if target == "" {
		return fmt.Errorf("--%s is required", targetFlag.Name)
	}

	console := utils.Std()
	c, err := makeComparator(cfg, console)
	if err != nil {
		return err
	}

	res := c.Run(comparison.Job{
		Arch:      ctx.String(archFlag.Name),
		VLEN:      ctx.Int(vlenFlag.Name),
		LaneWidth: ctx.Int(laneFlag.Name),
		Target:    target,
	})
	if !res.OK {
		return fmt.Errorf("%w: %s: %s", errRunFailed, res.ErrorKind, res.Error)
	}
	return nil
}

func newMatrixRunner(ctx *cli.Context) (*runner.Runner, []comparison.Job, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	c, err := makeComparator(cfg, utils.Std())
	if err != nil {
		return nil, nil, err
	}

	return runner.NewRunner(c, cfg.Matrix.Workers), cfg.Matrix.Jobs(), nil
}

func summarizeMatrix(results []*comparison.Result) {
	console := utils.Std()
	report.WriteMatrix(console.Writer(), runner.MatrixRows(results))

	failed := 0
	for _, res := range results {
		if res != nil && !res.OK {
			failed++
		}
	}
	if failed > 0 {
		console.Warn("matrix", "%d of %d runs failed", failed, len(results))
	}
}

func matrix(ctx *cli.Context) error {
	r, jobs, err := newMatrixRunner(ctx)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := r.Run(sigCtx, jobs)
	summarizeMatrix(results)
	return err
}

func serve(ctx *cli.Context) error {
	r, jobs, err := newMatrixRunner(ctx)
	if err != nil {
		return err
	}

	addr := ctx.String(addrFlag.Name)
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	utils.Std().Info("Server", "Listening on %s", l.Addr())

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return r.Serve(sigCtx, l, jobs, func(results []*comparison.Result, _ error) {
		summarizeMatrix(results)
	})
}
