package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/FACorreiaa/go-itinerary-compare/config"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/plan"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/tabular"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	csvPath := flag.String("csv", cfg.Data.Proposal, "solutions CSV (Solution,User,Slot,POI,Transport)")
	outDir := flag.String("out", cfg.Data.PlansDir, "output directory for <user>/best.json")
	solution := flag.String("solution", "1", "solution number to export")
	flag.Parse()

	table, err := tabular.ReadFile(*csvPath)
	if err != nil {
		logger.Error("Failed to read solutions", slog.String("path", *csvPath), slog.Any("error", err))
		os.Exit(1)
	}

	plans, stats, err := plan.BuildPlans(table, *solution)
	if err != nil {
		logger.Error("Failed to build plans", slog.Any("error", err))
		os.Exit(1)
	}
	if err := plan.WritePlans(*outDir, plans); err != nil {
		logger.Error("Failed to write plans", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Plans written",
		slog.String("out", *outDir),
		slog.String("solution", *solution),
		slog.Int("rows", stats.Rows),
		slog.Int("used", stats.Used),
		slog.Int("users", stats.Users))
}
