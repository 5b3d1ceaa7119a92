package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/upb/casting-agency/jwks"
)

var jwksCmd = &cobra.Command{
	Use:   "jwks",
	Short: "Fetch the identity provider key set and print its key ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Auth.Enabled() {
			return errors.New("AUTH0_DOMAIN and API_AUDIENCE must be set")
		}

		provider := jwks.NewProvider(jwks.Config{
			URL:     cfg.Auth.KeySetURL(),
			Timeout: cfg.Auth.JWKSTimeout,
		}, logger)

		kids, err := provider.KeyIDs(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", provider.URL(), err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", provider.URL())
		for _, kid := range kids {
			fmt.Fprintf(out, "  %s\n", kid)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jwksCmd)
}
