package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajju853/sparkle-storefront/internal/cart"
	"github.com/ajju853/sparkle-storefront/internal/notify"
)

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage your shopping cart",
	}
	cmd.AddCommand(
		newCartAddCmd(),
		newCartRemoveCmd(),
		newCartUpdateCmd(),
		newCartShowCmd(),
		newCartClearCmd(),
		newCartWatchCmd(),
	)
	return cmd
}

func parseProductID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", arg)
	}
	return id, nil
}

func newCartAddCmd() *cobra.Command {
	var (
		qty     int
		offline bool
	)
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}

			ctx := cmdContext(cmd)
			p, err := storefront.Source(offline).Product(ctx, id)
			if err != nil {
				logger.Warn("product unavailable", zap.Int64("id", id), zap.Error(err))
				fmt.Fprintln(cmd.OutOrStdout(), "Product not found.")
				return nil
			}

			storefront.Cart.Add(ctx, *p, qty)
			return nil
		},
	}
	cmd.Flags().IntVar(&qty, "qty", 1, "quantity to add")
	cmd.Flags().BoolVar(&offline, "offline", false, "look the product up in the pulled snapshot")
	return cmd
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			storefront.Cart.Remove(cmdContext(cmd), id)
			return nil
		},
	}
}

func newCartUpdateCmd() *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "update <product-id>",
		Short: "Set the quantity of a cart item (0 removes it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			storefront.Cart.UpdateQuantity(cmdContext(cmd), id, qty)
			return nil
		},
	}
	cmd.Flags().IntVar(&qty, "qty", 1, "new quantity")
	_ = cmd.MarkFlagRequired("qty")
	return cmd
}

func newCartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart and its order summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			items := storefront.Cart.Items()
			if len(items) == 0 {
				fmt.Fprintln(out, "Your cart is empty.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tQTY\tSUBTOTAL")
			for _, item := range items {
				fmt.Fprintf(tw, "%d\t%s\t$%s\t%d\t$%s\n",
					item.Product.ID, item.Product.Title,
					item.Product.Price.StringFixed(2),
					item.Quantity, item.Subtotal().StringFixed(2))
			}
			_ = tw.Flush()

			sum := storefront.Cart.Summary()
			fmt.Fprintf(out, "\nSubtotal (%d items): $%s\n", sum.Items, sum.Subtotal.StringFixed(2))
			fmt.Fprintln(out, "Shipping: Free")
			fmt.Fprintf(out, "Tax: $%s\n", sum.Tax.StringFixed(2))
			fmt.Fprintf(out, "Total: $%s\n", sum.Total.StringFixed(2))
			return nil
		},
	}
}

func newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove everything from the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			storefront.Cart.Clear(cmdContext(cmd))
			return nil
		},
	}
}

func newCartWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the cart for changes made by other sparkle processes",
		Long: `Watch blocks and reports the cart totals every time another process
writes the cart. Writers race last-writer-wins; watching shows what won.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			ch, err := storefront.State.Watch(ctx, cart.StorageKey)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Watching cart; press Ctrl-C to stop.")
			for range ch {
				// Reload from storage: this process's store is a stale copy
				// once another writer has won.
				fresh := cart.NewStore(storefront.State, logger.Named("cart"), notify.Discard{})
				fmt.Fprintf(out, "cart changed: %d items, $%s\n",
					fresh.TotalItems(), fresh.TotalPrice().StringFixed(2))
			}
			return nil
		},
	}
}
