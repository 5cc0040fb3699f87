// Command solver runs a single wave-selection solve from an instance file
// and writes the selected orders and aisles to a solution file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wms-platform/wave-optimizer-service/internal/application"
	"github.com/wms-platform/wave-optimizer-service/internal/infrastructure/instancefile"
	"github.com/wms-platform/wave-optimizer-service/internal/solver"
	"github.com/wms-platform/wave-optimizer-service/internal/solver/cpsat"
	"github.com/wms-platform/wave-optimizer-service/pkg/logging"
	"github.com/wms-platform/wave-optimizer-service/pkg/metrics"
)

const serviceName = "wave-optimizer-solver"

func main() {
	var (
		engineName   = flag.String("engine", "cpsat", "solve engine (cpsat or enumeration)")
		solveBudget  = flag.Duration("budget", 600*time.Second, "overall solve budget")
		engineBudget = flag.Duration("engine-budget", 540*time.Second, "budget handed to the engine")
		workers      = flag.Int("workers", 0, "engine worker threads (0 = all cores)")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <instance-file> <solution-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	instancePath := flag.Arg(0)
	solutionPath := flag.Arg(1)

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	inst, err := instancefile.ReadFile(instancePath)
	if err != nil {
		logger.WithError(err).Error("Failed to read instance")
		os.Exit(1)
	}
	logger.Info("Instance loaded",
		"path", instancePath,
		"orders", inst.NumOrders(),
		"items", inst.NumItems(),
		"aisles", inst.NumAisles())

	var engine solver.Engine
	switch *engineName {
	case "enumeration":
		engine = solver.NewEnumerationEngine()
	case "cpsat":
		engine = cpsat.New()
	default:
		logger.Error("Unknown engine", "engine", *engineName)
		os.Exit(2)
	}

	config := application.DefaultOptimizerConfig()
	config.OverallBudget = *solveBudget
	config.EngineBudget = *engineBudget
	config.Workers = *workers

	m := metrics.New(metrics.DefaultConfig(serviceName))
	optimizer := application.NewOptimizer(engine, config, logger, m)

	outcome, err := optimizer.Optimize(context.Background(), inst)
	if err != nil {
		logger.WithError(err).Error("Solve failed")
		os.Exit(1)
	}

	if !outcome.Solved {
		logger.Warn("No wave produced",
			"reason", outcome.Reason,
			"detail", outcome.Detail,
			"engineStatus", outcome.Report.EngineStatus)
		os.Exit(1)
	}

	if err := instancefile.WriteSolutionFile(solutionPath, outcome.Solution); err != nil {
		logger.WithError(err).Error("Failed to write solution")
		os.Exit(1)
	}

	logger.Info("Solution written",
		"path", solutionPath,
		"orders", len(outcome.Solution.Orders),
		"aisles", len(outcome.Solution.Aisles),
		"unitsPicked", outcome.UnitsPicked,
		"unitsPerAisle", outcome.UnitsPerAisle,
		"provenOptimal", outcome.Report.ProvenOptimal,
		"duration", outcome.Report.SolveDuration)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
