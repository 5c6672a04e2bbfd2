package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"aeroparts/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the product catalog",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := productCatalog.Stats()
			if jsonOutput(cmd) {
				return printJSON(st)
			}
			f := formatter()
			fmt.Printf("categories:     %d\n", st.Categories)
			fmt.Printf("brands:         %d\n", st.Brands)
			fmt.Printf("tags:           %d\n", st.Tags)
			fmt.Printf("specifications: %d\n", st.Specifications)
			fmt.Printf("coupons:        %d\n", st.Coupons)
			fmt.Printf("products:       %d (%d in stock, %d out of stock)\n", st.Products, st.ProductsInStock, st.ProductsOutOfStock)
			fmt.Printf("average price:  %s\n", f.Format(st.AveragePrice))
			fmt.Printf("average score:  %.1f\n", st.AverageScore)
			return nil
		},
	}

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			items := productCatalog.Categories().All()
			if jsonOutput(cmd) {
				return printJSON(items)
			}
			for _, c := range items {
				fmt.Printf("%d | %s | %d products\n", c.ID, c.Name, len(productCatalog.ProductsByCategory(c.ID)))
			}
			return nil
		},
	}

	brandsCmd := &cobra.Command{
		Use:   "brands",
		Short: "List brands",
		RunE: func(cmd *cobra.Command, args []string) error {
			items := productCatalog.Brands().All()
			if jsonOutput(cmd) {
				return printJSON(items)
			}
			for _, b := range items {
				fmt.Printf("%d | %s | %d products\n", b.ID, b.Name, len(productCatalog.ProductsByBrand(b.ID)))
			}
			return nil
		},
	}

	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			items := productCatalog.Tags().All()
			if jsonOutput(cmd) {
				return printJSON(items)
			}
			for _, t := range items {
				fmt.Printf("%d | %s\n", t.ID, t.Name)
			}
			return nil
		},
	}

	var minDiscount float64
	couponsCmd := &cobra.Command{
		Use:   "coupons",
		Short: "List coupons",
		RunE: func(cmd *cobra.Command, args []string) error {
			items := productCatalog.CouponsByMinDiscount(minDiscount)
			if jsonOutput(cmd) {
				return printJSON(items)
			}
			for _, c := range items {
				fmt.Printf("%s | %s | %s\n", c.Code, c.Name, c.FormattedDiscount())
			}
			return nil
		},
	}
	couponsCmd.Flags().Float64Var(&minDiscount, "min-discount", 0, "minimum discount percent")

	var exportFile string
	var exportCategory int
	exportCmd := &cobra.Command{
		Use:   "export --file <file>",
		Short: "Export enriched products to JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportFile == "" {
				return errors.New("--file required")
			}
			start := time.Now()
			out := productCatalog.FilterProducts(catalog.Criteria{CategoryID: exportCategory})
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(exportFile, b, 0o644); err != nil {
				slog.Error("export failed", "file", exportFile, "error", err)
				return err
			}
			slog.Info("catalog exported",
				"file", exportFile,
				"products", len(out),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&exportFile, "file", "", "output file")
	exportCmd.Flags().IntVar(&exportCategory, "category", 0, "category id")

	cmd.AddCommand(statsCmd, categoriesCmd, brandsCmd, tagsCmd, couponsCmd, exportCmd)
	return cmd
}
