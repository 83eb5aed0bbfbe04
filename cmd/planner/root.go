package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"trip-planner/internal/di"
	"trip-planner/internal/domain/entity"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. cfg holds the environment values and
// becomes the flag defaults, so flags override env.
func newRootCmd(cfg di.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "trip-planner",
		Short: "AI-powered trip planner",
		Long: `Plans a budget-friendly 1-day itinerary for a destination.

Three roles run in order: a travel researcher, a budget planner and an
itinerary planner, each backed by a language model with web search.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.LLMModel, "model", cfg.LLMModel, "Chat model identifier")
	flags.StringVar(&cfg.LLMBaseURL, "llm-base-url", cfg.LLMBaseURL, "OpenAI-compatible API base URL")
	flags.Float64Var(&cfg.LLMTemperature, "temperature", cfg.LLMTemperature, "Sampling temperature")
	flags.DurationVar(&cfg.LLMTimeout, "llm-timeout", cfg.LLMTimeout, "Timeout for one model call")
	flags.StringVar(&cfg.SearchBaseURL, "search-base-url", cfg.SearchBaseURL, "Serper API base URL")
	flags.IntVar(&cfg.SearchResults, "search-results", cfg.SearchResults, "Results per web search")
	flags.DurationVar(&cfg.SearchTimeout, "search-timeout", cfg.SearchTimeout, "Timeout for one web search")
	flags.IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "Tool-calling rounds per stage")
	flags.DurationVar(&cfg.RunTimeout, "run-timeout", cfg.RunTimeout, "Timeout for a whole planning run")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also write logs to this file")
	flags.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Print stage progress to stdout")

	root.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	root.Flags().BoolVar(&cfg.AccessLogJSON, "access-log-json", cfg.AccessLogJSON, "Write access logs as JSON")

	root.AddCommand(newPlanCmd(&cfg))
	return root
}

func serve(ctx context.Context, cfg di.Config) error {
	container, err := di.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return container.Server.Run(ctx)
}

func newPlanCmd(cfg *di.Config) *cobra.Command {
	var (
		destination string
		budget      int
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan one trip and print the itinerary",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := di.NewContainer(*cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			req := entity.TripRequest{Destination: destination, Budget: budget}.Normalize()
			itinerary, err := container.Planner.Plan(ctx, req, cfg.Operator)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n🗓️ Your 1-Day Itinerary (%s, %d INR)\n\n%s\n", itinerary.Destination, itinerary.Budget, itinerary.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destination, "destination", "d", entity.DefaultDestination, "Trip destination")
	cmd.Flags().IntVarP(&budget, "budget", "b", entity.BudgetDefault, "Budget in INR (100-100000, step 100)")
	cmd.Flags().StringVar(&cfg.Operator.LLMAPIKey, "llm-api-key", cfg.Operator.LLMAPIKey, "Language model API key")
	cmd.Flags().StringVar(&cfg.Operator.SearchAPIKey, "search-api-key", cfg.Operator.SearchAPIKey, "Serper API key")
	return cmd
}
