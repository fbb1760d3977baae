package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/weather-geocoder/internal/config"
	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	localeFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "geocodectl",
		Short:         "Parse and resolve addresses with the weather geocoder",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.localeFile, "locale", "", "locale file overriding the built-in heuristic tables")

	cmd.AddCommand(newParseCmd(opts), newOptionsCmd(opts), newResolveCmd(opts))
	return cmd
}

func (o *rootOptions) selector() (*domain.Selector, error) {
	locale, err := config.LoadLocale(o.localeFile)
	if err != nil {
		return nil, err
	}
	return domain.NewSelector(locale), nil
}

func newParseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [address]",
		Short: "Split an address into street, city, province, postcode and country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := opts.selector()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sel.Parse(args[0]))
		},
	}
}

func newOptionsCmd(opts *rootOptions) *cobra.Command {
	var country string
	cmd := &cobra.Command{
		Use:   "options [address]",
		Short: "Show the provider query options chosen for an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := opts.selector()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sel.QueryOptionsFor(args[0], country))
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "ISO 3166-1 alpha-2 country code to restrict the query to")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
