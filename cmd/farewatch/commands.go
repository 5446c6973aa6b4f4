package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/infrastructure/config"
	"farewatch-service/internal/infrastructure/persistence"
	"farewatch-service/internal/interface/provider"
	"farewatch-service/internal/interface/repository"
	"farewatch-service/internal/usecase"
	"farewatch-service/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func searchCmd() *cobra.Command {
	var (
		fromAirport string
		toAirport   string
		date        string
		tripType    string
		seatClass   string
		maxStops    int
		numAdults   int
		fetchMode   string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Perform a single flight search and store the observation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}

			task := entity.SearchTask{
				FromAirport: fromAirport,
				ToAirport:   toAirport,
				Date:        date,
				TripType:    entity.TripType(tripType),
				SeatClass:   entity.SeatClass(seatClass),
				MaxStops:    maxStops,
				NumAdults:   numAdults,
				FetchMode:   entity.FetchMode(fetchMode),
			}
			if _, err := task.DepartureDate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}

			observations := repository.NewGormObservationRepository(db)
			if err := observations.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			fareClient := provider.NewFareClient(cfg.FareAPIURL, cfg.RequestDelay, log)
			ingestor := usecase.NewIngestor(observations, log)

			fmt.Printf("Searching flights from %s to %s on %s...\n", fromAirport, toAirport, date)
			result, err := fareClient.Lookup(ctx, task)
			if err != nil {
				if errors.Is(err, entity.ErrNoAvailability) {
					fmt.Println("No flights found.")
					return nil
				}
				return err
			}

			obs, err := ingestor.Ingest(ctx, result, task)
			if err != nil {
				return err
			}
			if obs == nil {
				fmt.Println("No flights found.")
				return nil
			}

			printObservation(obs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fromAirport, "from-airport", "f", "", "departure airport IATA code (e.g. SEA)")
	cmd.Flags().StringVarP(&toAirport, "to-airport", "t", "", "arrival airport IATA code (e.g. MKE)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "flight date in YYYY-MM-DD format")
	cmd.Flags().StringVar(&tripType, "trip-type", "one-way", "trip type (one-way, round-trip)")
	cmd.Flags().StringVar(&seatClass, "seat-class", "economy", "class of service (economy, business)")
	cmd.Flags().IntVar(&maxStops, "max-stops", 0, "maximum number of stops (0-2)")
	cmd.Flags().IntVar(&numAdults, "num-adults", 1, "number of adult passengers")
	cmd.Flags().StringVar(&fetchMode, "fetch-mode", "normal", "fare source fetch mode (normal, fallback)")
	cmd.MarkFlagRequired("from-airport")
	cmd.MarkFlagRequired("to-airport")
	cmd.MarkFlagRequired("date")

	return cmd
}

func generateBatchCmd() *cobra.Command {
	var (
		fromAirport string
		toAirport   string
		startDate   string
		endDate     string
		outboundDay int
		returnDay   int
		seatClass   string
		maxStops    int
		output      string
	)

	cmd := &cobra.Command{
		Use:   "generate-batch",
		Short: "Generate a task batch file from a date range and weekday rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := loadEnv()
			if err != nil {
				return err
			}

			start, err := time.Parse(entity.TaskDateLayout, startDate)
			if err != nil {
				return fmt.Errorf("start date: %w", err)
			}
			end, err := time.Parse(entity.TaskDateLayout, endDate)
			if err != nil {
				return fmt.Errorf("end date: %w", err)
			}

			opts := entity.DefaultSearchOptions()
			opts.SeatClass = entity.SeatClass(seatClass)
			opts.MaxStops = maxStops

			generator := usecase.NewTaskGenerator(log)
			batch, err := generator.Generate(fromAirport, toAirport, start, end, outboundDay, returnDay, opts)
			if err != nil {
				return err
			}

			batches := repository.NewFileTaskBatchRepository(log)
			savedPath, err := batches.Save(batch, output)
			if err != nil {
				return err
			}

			fmt.Printf("Saved %d tasks to %s\n", len(batch), savedPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fromAirport, "from-airport", "f", "", "departure airport IATA code")
	cmd.Flags().StringVarP(&toAirport, "to-airport", "t", "", "arrival airport IATA code")
	cmd.Flags().StringVar(&startDate, "start-date", "", "start date in YYYY-MM-DD format")
	cmd.Flags().StringVar(&endDate, "end-date", "", "end date in YYYY-MM-DD format")
	cmd.Flags().IntVar(&outboundDay, "outbound-day", 3, "outbound weekday (0=Monday .. 6=Sunday)")
	cmd.Flags().IntVar(&returnDay, "return-day", 6, "return weekday (0=Monday .. 6=Sunday)")
	cmd.Flags().StringVar(&seatClass, "seat-class", "economy", "class of service")
	cmd.Flags().IntVar(&maxStops, "max-stops", 0, "maximum number of stops (0-2)")
	cmd.Flags().StringVarP(&output, "output", "o", "flight_batch.json", "output batch file path")
	cmd.MarkFlagRequired("from-airport")
	cmd.MarkFlagRequired("to-airport")
	cmd.MarkFlagRequired("start-date")
	cmd.MarkFlagRequired("end-date")

	return cmd
}

func runBatchCmd() *cobra.Command {
	var delaySeconds int

	cmd := &cobra.Command{
		Use:   "run-batch <batch-file>",
		Short: "Execute every task in a batch file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}

			batches := repository.NewFileTaskBatchRepository(log)
			batch, err := batches.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d tasks from %s\n", len(batch), args[0])

			delay := cfg.RequestDelay
			if cmd.Flags().Changed("delay") {
				delay = time.Duration(delaySeconds) * time.Second
			}

			executor, err := buildExecutor(ctx, db, cfg, log, delay, nil)
			if err != nil {
				return err
			}
			report := executor.Execute(ctx, batch, delay)
			printReport(report)
			return nil
		},
	}

	cmd.Flags().IntVar(&delaySeconds, "delay", 5, "delay between requests in seconds")

	return cmd
}

func refreshViewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-views",
		Short: "Refresh all analysis views",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}

			refresher := usecase.NewViewRefresher(repository.NewGormAnalysisViewRepository(db), log, nil)
			failures := 0
			for _, res := range refresher.RefreshAll(ctx) {
				if res.Err != nil {
					failures++
					fmt.Printf("FAIL %s: %v\n", res.View, res.Err)
					continue
				}
				fmt.Printf("ok   %s (%s)\n", res.View, res.Duration.Round(time.Millisecond))
			}
			if failures > 0 {
				return fmt.Errorf("%d view(s) failed to refresh", failures)
			}
			return nil
		},
	}
}

func initStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-storage",
		Short: "Create the observation table and analysis views",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadEnv()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}

			if err := repository.NewGormObservationRepository(db).EnsureSchema(ctx); err != nil {
				return fmt.Errorf("create table: %w", err)
			}
			if err := repository.NewGormAnalysisViewRepository(db).CreateViews(ctx); err != nil {
				return err
			}

			fmt.Println("Storage initialized.")
			return nil
		},
	}
}

func loadEnv() (*config.Config, logger.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.NewLogger(), nil
}

func openDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	db, err := persistence.NewPostgresDB(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func printObservation(obs *entity.Observation) {
	fmt.Println("\nFlight Details:")
	fmt.Printf("route: %s -> %s\n", obs.FromAirport, obs.ToAirport)
	if obs.AirlineName != nil {
		fmt.Printf("airline: %s\n", *obs.AirlineName)
	}
	if obs.Departure != nil {
		fmt.Printf("departure: %s\n", obs.Departure.Format("2006-01-02 15:04"))
	}
	if obs.Arrival != nil {
		fmt.Printf("arrival: %s\n", obs.Arrival.Format("2006-01-02 15:04"))
	}
	fmt.Printf("duration: %s\n", obs.Duration)
	if obs.Stops != nil {
		fmt.Printf("stops: %d\n", *obs.Stops)
	}
	fmt.Printf("price: %.2f\n", obs.Price)
	if obs.IsBest != nil && *obs.IsBest {
		fmt.Println("best option: yes")
	}
}

func printReport(report *entity.ExecutionReport) {
	fmt.Printf("\nBatch report %s\n", report.ID)
	fmt.Printf("succeeded: %d  skipped: %d  failed: %d  no results: %d\n",
		report.Succeeded, report.Skipped, report.Failed, report.NoResults)
	for _, task := range report.SkippedTasks {
		fmt.Printf("skipped past date: %s on %s\n", task.Route(), task.Date)
	}
	for _, f := range report.Failures {
		fmt.Printf("failed (%s): %s on %s: %s\n", f.Stage, f.Task.Route(), f.Task.Date, f.Err)
	}
	for _, res := range report.ViewResults {
		if res.Err != nil {
			fmt.Printf("view %s: FAILED: %v\n", res.View, res.Err)
			continue
		}
		fmt.Printf("view %s: refreshed in %s\n", res.View, res.Duration.Round(time.Millisecond))
	}
}
