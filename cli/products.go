package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"aeroparts/catalog"
	"aeroparts/domain"
)

func printProducts(cmd *cobra.Command, products []domain.ProductDetail) error {
	if jsonOutput(cmd) {
		return printJSON(products)
	}
	for _, p := range products {
		printProductRow(p)
	}
	return nil
}

func printProductRow(p domain.ProductDetail) {
	stock := "in stock"
	if !p.InStock() {
		stock = "out of stock"
	}
	fmt.Printf("%d | %s | %s | %s | %s | %s\n",
		p.ID, p.Name, formatter().Format(p.Price), p.BrandName(), p.StarRating(), stock)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	return id, nil
}

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse products",
	}

	var (
		lCategory, lPage, lPerPage int
		lBrands                    []int
		lTag, lSearch, lSort       string
		lMin, lMax                 int64
		lMinScore                  float64
		lInStock                   bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products with filters, sorting and paging",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := catalog.ParseSortMode(lSort)
			if err != nil {
				return err
			}
			q := catalog.BrowseQuery{
				Criteria: catalog.Criteria{
					CategoryID: lCategory,
					TagName:    lTag,
					InStock:    lInStock,
					Search:     lSearch,
				},
				BrandIDs: lBrands,
				Sort:     mode,
				Page:     lPage,
				PerPage:  lPerPage,
			}
			if cmd.Flags().Changed("min-price") {
				q.MinPrice = catalog.Ptr(lMin)
			}
			if cmd.Flags().Changed("max-price") {
				q.MaxPrice = catalog.Ptr(lMax)
			}
			if cmd.Flags().Changed("min-score") {
				q.MinScore = catalog.Ptr(lMinScore)
			}

			page := productCatalog.Browse(q)
			if jsonOutput(cmd) {
				return printJSON(page)
			}
			fmt.Printf("page %d/%d, %d products\n", page.Page, max(page.TotalPages, 1), page.TotalCount)
			for _, p := range page.Items {
				printProductRow(p)
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&lCategory, "category", 0, "category id")
	listCmd.Flags().IntSliceVar(&lBrands, "brand", nil, "brand id (repeatable)")
	listCmd.Flags().StringVar(&lTag, "tag", "", "tag name")
	listCmd.Flags().Int64Var(&lMin, "min-price", 0, "min price")
	listCmd.Flags().Int64Var(&lMax, "max-price", 0, "max price")
	listCmd.Flags().Float64Var(&lMinScore, "min-score", 0, "min score")
	listCmd.Flags().BoolVar(&lInStock, "in-stock", false, "only products in stock")
	listCmd.Flags().StringVar(&lSearch, "search", "", "text search on name and description")
	listCmd.Flags().StringVar(&lSort, "sort", "", "relevance|price-asc|price-desc|rating")
	listCmd.Flags().IntVar(&lPage, "page", 1, "page number")
	listCmd.Flags().IntVar(&lPerPage, "per-page", catalog.DefaultPerPage, "products per page")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, ok := productCatalog.Product(id)
			if !ok {
				fmt.Fprintln(os.Stderr, domain.NewNotFoundError("product", id))
				return nil
			}
			return printJSON(p)
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search products by name or description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printProducts(cmd, productCatalog.SearchProducts(strings.Join(args, " ")))
		},
	}

	var topLimit int
	topCmd := &cobra.Command{
		Use:   "top",
		Short: "Best rated products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printProducts(cmd, productCatalog.TopRated(topLimit))
		},
	}
	topCmd.Flags().IntVar(&topLimit, "limit", catalog.DefaultLimit, "number of products")

	var featuredLimit int
	featuredCmd := &cobra.Command{
		Use:   "featured",
		Short: "Featured products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printProducts(cmd, productCatalog.Featured(featuredLimit))
		},
	}
	featuredCmd.Flags().IntVar(&featuredLimit, "limit", catalog.DefaultLimit, "number of products")

	cmd.AddCommand(listCmd, getCmd, searchCmd, topCmd, featuredCmd)
	return cmd
}
