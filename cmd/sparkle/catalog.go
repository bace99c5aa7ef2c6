package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajju853/sparkle-storefront/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the offline catalog snapshot",
	}
	cmd.AddCommand(newCatalogPullCmd(), newCatalogInfoCmd())
	return cmd
}

func newCatalogPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Fetch the full catalog and store it for offline browsing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := catalog.WriteSnapshot(cmdContext(cmd), storefront.Client, storefront.SnapshotPath())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d products to %s\n", n, storefront.SnapshotPath())
			return nil
		},
	}
}

func newCatalogInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show when the offline snapshot was pulled",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap := catalog.OpenSnapshot(storefront.SnapshotPath())
			fetchedAt, err := snap.FetchedAt()
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshot pulled yet.")
				return nil
			}
			products, err := snap.Products(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot of %d products, pulled %s\n",
				len(products), fetchedAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}
