package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/milk9111/hideseek/logging"
)

func main() {
	var opts options
	flag.StringVar(&opts.level, "level", "meadow", "level name in prefabs/levels/ (basename, .yaml optional)")
	flag.IntVar(&opts.ticks, "ticks", 3600, "number of fixed ticks to simulate")
	flag.IntVar(&opts.tps, "tps", 30, "ticks per simulated second")
	flag.Int64Var(&opts.seed, "seed", 1, "random seed for NPC decisions (0 = time based)")
	flag.BoolVar(&opts.realtime, "realtime", false, "pace ticks to wall-clock time")
	flag.BoolVar(&opts.watch, "watch", false, "hot reload NPC prefabs edited under ./prefabs")
	flag.IntVar(&opts.capacity, "capacity", 8, "inventory slots")
	flag.StringVar(&opts.policy, "policy", "replace", "quest activation policy: replace or reject")
	flag.IntVar(&opts.dialogueDelay, "dialogue-delay", 15, "ticks before the auto player picks a dialogue option")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logJSON := flag.Bool("log-json", false, "log JSON instead of console output")
	flag.Parse()

	logger, err := logging.New(*logLevel, *logJSON)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("sandbox failed", zap.Error(err))
		os.Exit(1)
	}
}
