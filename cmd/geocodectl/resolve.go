package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/weather-geocoder/internal/adapter/opencage"
	"github.com/couchcryptid/weather-geocoder/internal/config"
	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/couchcryptid/weather-geocoder/internal/observability"
	"github.com/spf13/cobra"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var (
		country string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "resolve [address]",
		Short: "Geocode an address against OpenCage and print the selected location",
		Long: `Resolve queries OpenCage using OPENCAGE_API_KEY (and the other service
environment variables) and prints the location the selector picks. Validation
and no-result outcomes are printed as errors with their suggestion, if any.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := observability.NewLogger(cfg)
			if err != nil {
				return err
			}
			sel, err := opts.selector()
			if err != nil {
				return err
			}

			client := opencage.NewClient(cfg.OpenCageAPIKey, cfg.OpenCageBaseURL, cfg.OpenCageTimeout, observability.NewMetrics(), logger)
			resolver := domain.NewResolver(client, sel, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := resolver.Resolve(ctx, args[0], country)
			if err != nil {
				var verr *domain.ValidationError
				if errors.As(err, &verr) && verr.Suggestion != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "suggestion: %s\n", verr.Suggestion)
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "ISO 3166-1 alpha-2 country code to restrict the query to")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "overall timeout for the lookup")
	return cmd
}
