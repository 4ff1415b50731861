package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/gobarber/gobarber-client/internal/services"
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List service providers",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	svc := services.NewProviderService(current.api, current.store, current.cfg.ProvidersTTL())

	providers, err := svc.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(providers) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No providers found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAVATAR")
	for _, p := range providers {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.AvatarURL)
	}
	return w.Flush()
}
