package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"aeroparts/checkout"
	"aeroparts/domain"
	"aeroparts/httpapi"
)

func newCouponCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coupon",
		Short: "Manage the applied coupon",
	}

	applyCmd := &cobra.Command{
		Use:   "apply <code>",
		Short: "Apply a coupon code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := productCatalog.ValidateCoupon(args[0])
			if !v.Valid {
				return fmt.Errorf("coupon %q is not valid", args[0])
			}
			cartManager().ApplyCoupon(cmd.Context(), *v.Coupon)
			fmt.Printf("applied %s (%s)\n", v.Coupon.Code, v.Coupon.FormattedDiscount())
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the applied coupon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cartManager().RemoveCoupon(cmd.Context())
			fmt.Println("removed")
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the applied coupon",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := cartManager().AppliedCoupon(cmd.Context())
			if !ok {
				fmt.Println("no coupon applied")
				return nil
			}
			return printJSON(c)
		},
	}

	cmd.AddCommand(applyCmd, removeCmd, showCmd)
	return cmd
}

func sourceFlag(buyNow bool) checkout.Source {
	if buyNow {
		return checkout.SourceBuyNow
	}
	return checkout.SourceCart
}

func newCheckoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Shipping, buy-now and payment",
	}

	var fields map[string]string
	shippingCmd := &cobra.Command{
		Use:   "shipping",
		Short: "Save the shipping form, or show it when no fields are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := checkoutService(cartManager())
			if len(fields) == 0 {
				info, ok := svc.Shipping(cmd.Context())
				if !ok {
					fmt.Println("no shipping information saved")
					return nil
				}
				return printJSON(info)
			}
			svc.SaveShipping(cmd.Context(), fields)
			fmt.Println("shipping information saved")
			return nil
		},
	}
	shippingCmd.Flags().StringToStringVar(&fields, "field", nil, "shipping form field as key=value (repeatable)")

	var buyQuantity int
	buyNowCmd := &cobra.Command{
		Use:   "buy-now <id>",
		Short: "Select a single product to buy without the cart",
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
			if err := checkoutService(cartManager()).SetBuyNow(cmd.Context(), id, buyQuantity); err != nil {
				return err
			}
			fmt.Printf("buy now: %d x %s\n", buyQuantity, p.Name)
			return nil
		},
	}
	buyNowCmd.Flags().IntVarP(&buyQuantity, "quantity", "q", 1, "quantity")

	var quoteBuyNow bool
	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Price the order without paying",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := checkoutService(cartManager()).Quote(cmd.Context(), sourceFlag(quoteBuyNow))
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(t)
			}
			printTotals(t)
			return nil
		},
	}
	quoteCmd.Flags().BoolVar(&quoteBuyNow, "buy-now", false, "quote the buy-now item instead of the cart")

	var payBuyNow bool
	payCmd := &cobra.Command{
		Use:   "pay",
		Short: "Pay and place the order",
		RunE: func(cmd *cobra.Command, args []string) error {
			source := sourceFlag(payBuyNow)
			slog.Info("processing payment", "source", source, "delay", settings.PaymentDelay)
			order, err := checkoutService(cartManager()).PlaceOrder(cmd.Context(), source)
			if err != nil {
				return err
			}
			return printJSON(order)
		},
	}
	payCmd.Flags().BoolVar(&payBuyNow, "buy-now", false, "pay for the buy-now item instead of the cart")

	lastOrderCmd := &cobra.Command{
		Use:   "last-order",
		Short: "Show the last placed order",
		RunE: func(cmd *cobra.Command, args []string) error {
			order, ok := checkoutService(cartManager()).LastOrder(cmd.Context())
			if !ok {
				fmt.Println("no orders yet")
				return nil
			}
			return printJSON(order)
		},
	}

	cmd.AddCommand(shippingCmd, buyNowCmd, quoteCmd, payCmd, lastOrderCmd)
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := viper.GetString("http-addr")
			// shell lines are not bound to viper
			if f := cmd.Flags().Lookup("addr"); f.Changed {
				addr = f.Value.String()
			}
			if addr == "" {
				return errors.New("--addr required")
			}
			srv := httpapi.NewServer(httpapi.Options{
				Catalog:        productCatalog,
				Store:          stateStore,
				Pricing:        settings.Pricing(),
				Processor:      checkout.NewSimulatedProcessor(settings.PaymentDelay),
				Logger:         slog.Default(),
				DefaultSession: settings.Session,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}
