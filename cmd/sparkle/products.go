package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajju853/sparkle-storefront/internal/browse"
	"github.com/ajju853/sparkle-storefront/internal/catalog"
)

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the product catalog",
	}
	cmd.AddCommand(
		newProductsListCmd(),
		newProductsGetCmd(),
		newProductsCategoriesCmd(),
		newProductsFeaturedCmd(),
	)
	return cmd
}

func newProductsListCmd() *cobra.Command {
	var (
		search     string
		categories []string
		minPrice   float64
		maxPrice   float64
		sortName   string
		offline    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products with optional search, filters, and sorting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)

			sortOpt, err := browse.ParseSort(sortName)
			if err != nil {
				return err
			}

			page, err := browse.LoadPage(ctx, storefront.Source(offline))
			if err != nil {
				// The storefront degrades catalog failures to an empty view.
				logger.Warn("catalog unavailable", zap.Error(err))
				fmt.Fprintln(cmd.OutOrStdout(), "No products available.")
				return nil
			}

			f := browse.Filter{Query: search, Categories: categories}
			if minPrice > 0 {
				f.MinPrice = decimal.NewFromFloat(minPrice)
			}
			if maxPrice > 0 {
				f.MaxPrice = decimal.NewFromFloat(maxPrice)
			}

			products := browse.Apply(page.Products, f, sortOpt)
			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products match.")
				return nil
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "match against title and description")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "restrict to categories (repeatable)")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price")
	cmd.Flags().StringVar(&sortName, "sort", "", "sort order: price-asc, price-desc, rating, title-asc")
	cmd.Flags().BoolVar(&offline, "offline", false, "browse the pulled catalog snapshot")
	return cmd
}

func newProductsGetCmd() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show one product in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			p, err := storefront.Source(offline).Product(cmdContext(cmd), id)
			if err != nil {
				// Missing product and failed fetch collapse to the same view,
				// matching the storefront's behavior.
				logger.Warn("product unavailable", zap.Int64("id", id), zap.Error(err))
				fmt.Fprintln(cmd.OutOrStdout(), "Product not found.")
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", p.Title)
			fmt.Fprintf(out, "  ID:       %d\n", p.ID)
			fmt.Fprintf(out, "  Price:    $%s\n", p.Price.StringFixed(2))
			fmt.Fprintf(out, "  Category: %s\n", p.Category)
			fmt.Fprintf(out, "  Rating:   %.1f (%d reviews)\n", p.Rating.Rate, p.Rating.Count)
			fmt.Fprintf(out, "  Image:    %s\n", p.Image)
			fmt.Fprintf(out, "\n%s\n", p.Description)
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "browse the pulled catalog snapshot")
	return cmd
}

func newProductsCategoriesCmd() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := storefront.Source(offline).Categories(cmdContext(cmd))
			if err != nil {
				logger.Warn("catalog unavailable", zap.Error(err))
				fmt.Fprintln(cmd.OutOrStdout(), "No categories available.")
				return nil
			}
			for _, c := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "browse the pulled catalog snapshot")
	return cmd
}

func newProductsFeaturedCmd() *cobra.Command {
	var (
		category string
		offline  bool
	)
	cmd := &cobra.Command{
		Use:   "featured",
		Short: "Show the storefront's featured products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := storefront.Source(offline).Products(cmdContext(cmd))
			if err != nil {
				logger.Warn("catalog unavailable", zap.Error(err))
				fmt.Fprintln(cmd.OutOrStdout(), "No products available.")
				return nil
			}

			featured := browse.Featured(products, category, 8)
			if len(featured) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products match.")
				return nil
			}
			printProducts(cmd.OutOrStdout(), featured)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "restrict to one category")
	cmd.Flags().BoolVar(&offline, "offline", false, "browse the pulled catalog snapshot")
	return cmd
}

func printProducts(w io.Writer, products []catalog.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tCATEGORY\tRATING")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t$%s\t%s\t%.1f (%d)\n",
			p.ID, p.Title, p.Price.StringFixed(2), p.Category, p.Rating.Rate, p.Rating.Count)
	}
	_ = tw.Flush()
}
