package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/openfreight/roadlog/internal/config"
	"github.com/openfreight/roadlog/internal/geocode"
	"github.com/openfreight/roadlog/internal/planner"
	"github.com/openfreight/roadlog/internal/routing"
)

var (
	planCurrent     string
	planOrigin      string
	planDestination string
	planStart       string
	planCycle       []float64
	planJSON        bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a trip from the command line",
	Long:  `Plan a trip and print its stops and daily duty-status logs without starting the server.`,
	Example: `  roadlog plan --current "Chicago, IL" --origin "Springfield, IL" --destination "Denver, CO"
  roadlog plan --current "Dallas, TX" --origin "Houston, TX" --destination "Seattle, WA" --cycle 10,8,0,0,9,11,7,5`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planCurrent, "current", "", "Current location (required)")
	planCmd.Flags().StringVar(&planOrigin, "origin", "", "Pickup location (required)")
	planCmd.Flags().StringVar(&planDestination, "destination", "", "Drop-off location (required)")
	planCmd.Flags().StringVar(&planStart, "start", "", "Trip start time, RFC 3339 (defaults to now)")
	planCmd.Flags().Float64SliceVar(&planCycle, "cycle", nil, "On-duty hours for the last 8 days, oldest first")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Print the raw JSON response")
	_ = planCmd.MarkFlagRequired("current")
	_ = planCmd.MarkFlagRequired("origin")
	_ = planCmd.MarkFlagRequired("destination")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Keep CLI output clean; errors still reach stderr.
	logger := setupLogger(config.LoggingConfig{Level: "error", Format: "text"})

	tripStart := time.Now()
	if planStart != "" {
		tripStart, err = time.Parse(time.RFC3339, planStart)
		if err != nil {
			return fmt.Errorf("invalid --start (want RFC 3339, e.g. 2025-08-07T08:00:00Z): %w", err)
		}
	}

	geocoder, err := geocode.New(geocode.Config{
		BaseURL:   cfg.Geocoding.BaseURL,
		UserAgent: cfg.Geocoding.UserAgent,
		Timeout:   parseDuration(cfg.Geocoding.Timeout, 30*time.Second),
		Retries:   cfg.Geocoding.Retries,
		CacheSize: cfg.Geocoding.CacheSize,
	}, logger)
	if err != nil {
		return err
	}

	router, err := routing.New(routing.Config{
		BaseURL: cfg.Routing.BaseURL,
		Timeout: parseDuration(cfg.Routing.Timeout, 30*time.Second),
		Retries: cfg.Routing.Retries,
	}, logger)
	if err != nil {
		return err
	}

	tripPlanner := planner.New(geocoder, router, plannerConfig(cfg.HOS), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	trip, err := tripPlanner.Plan(ctx, planner.Request{
		CurrentLocation: planCurrent,
		Origin:          planOrigin,
		Destination:     planDestination,
		CycleHoursUsed:  planCycle,
		TripStart:       tripStart,
	})
	if err != nil {
		return err
	}

	if planJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(trip)
	}

	printTrip(trip)
	return nil
}

// printTrip renders a planned trip for the terminal.
func printTrip(trip *planner.Trip) {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	_, _ = cyan.Printf("Trip: %s -> %s -> %s\n", trip.CurrentLocation, trip.Origin, trip.Destination)
	fmt.Printf("  Start:    %s\n", trip.TripStart.Format(time.RFC3339))
	fmt.Printf("  Distance: %.2f miles\n", trip.TotalDistanceMiles)
	fmt.Printf("  Duration: %.2f hours\n", trip.TotalDurationHours)

	_, _ = cyan.Println("\nPlanned stops:")
	for _, stop := range trip.Stops {
		_, _ = yellow.Printf("  Day %d  %-26s %5.2fh", stop.Day, stop.Type, stop.DurationHours)
		if stop.DistanceMiles > 0 {
			fmt.Printf("  %8.2f mi", stop.DistanceMiles)
		} else {
			fmt.Printf("  %11s", "")
		}
		fmt.Printf("  %s\n", stop.Description)
	}

	_, _ = cyan.Println("\nDaily logs:")
	for _, date := range trip.Logs.Dates() {
		day := trip.Logs[date]

		_, _ = green.Printf("  %s\n", date)
		for _, seg := range day.Segments {
			fmt.Printf("    %05.2f - %05.2f  %s\n", seg.StartHour, seg.EndHour, seg.Status)
		}

		fmt.Printf("    totals: off_duty %.2fh, driving %.2fh, on_duty %.2fh\n",
			day.Display.OffDuty, day.Display.Driving, day.Display.OnDuty)
	}
}
