package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"aeroparts/cart"
	"aeroparts/domain"
)

// cartReport is the JSON form of `cart show`.
type cartReport struct {
	Session string            `json:"session"`
	Lines   []domain.CartLine `json:"lines"`
	Coupon  *domain.Coupon    `json:"coupon"`
	Totals  cart.Totals       `json:"totals"`
}

func printTotals(t cart.Totals) {
	f := formatter()
	fmt.Printf("items:    %d\n", t.ItemCount)
	fmt.Printf("subtotal: %s\n", f.Format(t.Subtotal))
	if t.Discount > 0 {
		fmt.Printf("discount: -%s\n", f.Format(t.Discount))
	}
	fmt.Printf("shipping: %s\n", f.Format(t.Shipping))
	fmt.Printf("tax:      %s\n", f.Format(t.Tax))
	fmt.Printf("total:    %s\n", f.Format(t.Total))
}

// parseCartItems reads a JSON array or NDJSON stream of cart items.
func parseCartItems(b []byte) ([]domain.CartItem, error) {
	btrim := bytes.TrimSpace(b)
	if len(btrim) == 0 {
		return nil, errors.New("empty file")
	}

	var items []domain.CartItem

	// JSON array
	if btrim[0] == '[' {
		if err := json.Unmarshal(btrim, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	// NDJSON or single JSON object
	scanner := bufio.NewScanner(bytes.NewReader(btrim))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var it domain.CartItem
		if err := json.Unmarshal(line, &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the session cart",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show cart contents and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := cartManager()
			ctx := cmd.Context()
			report := cartReport{
				Session: mgr.Session(),
				Lines:   mgr.Lines(ctx, productCatalog),
				Totals:  mgr.Totals(ctx, productCatalog),
			}
			if c, ok := mgr.AppliedCoupon(ctx); ok {
				report.Coupon = &c
			}
			if report.Lines == nil {
				report.Lines = []domain.CartLine{}
			}
			if jsonOutput(cmd) {
				return printJSON(report)
			}
			if len(report.Lines) == 0 {
				fmt.Println("cart is empty")
				return nil
			}
			f := formatter()
			for _, l := range report.Lines {
				fmt.Printf("%d | %s | %d x %s | %s\n",
					l.Product.ID, l.Product.Name, l.Quantity, f.Format(l.Product.Price), f.Format(l.Subtotal))
			}
			if report.Coupon != nil {
				fmt.Printf("coupon:   %s (%s)\n", report.Coupon.Code, report.Coupon.FormattedDiscount())
			}
			printTotals(report.Totals)
			return nil
		},
	}

	var addQuantity int
	addCmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, ok := productCatalog.Product(id)
			if !ok {
				return domain.NewNotFoundError("product", id)
			}
			if !cartManager().AddItem(cmd.Context(), id, addQuantity) {
				return fmt.Errorf("invalid quantity %d", addQuantity)
			}
			slog.Info("added to cart", "product_id", id, "quantity", addQuantity)
			fmt.Printf("added %d x %s\n", addQuantity, p.Name)
			return nil
		},
	}
	addCmd.Flags().IntVarP(&addQuantity, "quantity", "q", 1, "quantity")

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !cartManager().RemoveItem(cmd.Context(), id) {
				return fmt.Errorf("product %d is not in the cart", id)
			}
			fmt.Println("removed")
			return nil
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <id> <quantity>",
		Short: "Set the quantity of a cart item (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			if !cartManager().UpdateQuantity(cmd.Context(), id, qty) {
				return fmt.Errorf("product %d is not in the cart", id)
			}
			fmt.Println("updated")
			return nil
		},
	}

	var force bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirm(cmd.InOrStdin(), "Empty the cart?") {
				fmt.Println("aborted")
				return nil
			}
			cartManager().Clear(cmd.Context())
			fmt.Println("cleared")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&force, "force", false, "skip confirmation")

	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Number of units in the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(cartManager().ItemCount(cmd.Context()))
			return nil
		},
	}

	totalsCmd := &cobra.Command{
		Use:   "totals",
		Short: "Price the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := cartManager().Totals(cmd.Context(), productCatalog)
			if jsonOutput(cmd) {
				return printJSON(t)
			}
			printTotals(t)
			return nil
		},
	}

	var importFile string
	importCmd := &cobra.Command{
		Use:   "import --file <file>",
		Short: "Add items from a JSON array or NDJSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if importFile == "" {
				return errors.New("--file required")
			}
			b, err := os.ReadFile(importFile)
			if err != nil {
				return err
			}
			items, err := parseCartItems(b)
			if err != nil {
				return err
			}
			for i, it := range items {
				if _, ok := productCatalog.Product(it.ProductID); !ok {
					return fmt.Errorf("item %d: %w", i+1, domain.NewNotFoundError("product", it.ProductID))
				}
				if it.Quantity <= 0 {
					return fmt.Errorf("item %d: invalid quantity %d", i+1, it.Quantity)
				}
			}

			start := time.Now()
			mgr := cartManager()
			for _, it := range items {
				mgr.AddItem(cmd.Context(), it.ProductID, it.Quantity)
			}
			slog.Info("cart imported",
				"items", len(items),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			fmt.Printf("imported %d items\n", len(items))
			return nil
		},
	}
	importCmd.Flags().StringVar(&importFile, "file", "", "input file")

	cmd.AddCommand(showCmd, addCmd, removeCmd, updateCmd, clearCmd, countCmd, totalsCmd, importCmd)
	return cmd
}
