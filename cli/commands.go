// Package cli provides the Cobra-based CLI for the aeroparts storefront.
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"aeroparts/cart"
	"aeroparts/catalog"
	"aeroparts/checkout"
	"aeroparts/config"
	"aeroparts/domain"
	"aeroparts/fixture"
	"aeroparts/money"
	"aeroparts/store"
)

var (
	rootCmd = newRootCmd()

	settings       = config.Defaults()
	stateStore     domain.StateStore
	productCatalog *catalog.Catalog
)

func init() {
	config.SetDefaults(viper.GetViper())
}

// setup loads configuration and opens the catalog and state store.
func setup(cmd *cobra.Command, args []string) error {
	// IMPORTANT: allow tests to inject store and catalog
	if stateStore != nil && productCatalog != nil {
		return nil
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	settings = cfg
	slog.SetDefault(settings.NewLogger(os.Stderr))

	if productCatalog == nil {
		if productCatalog, err = loadCatalog(settings.Dataset); err != nil {
			return err
		}
	}

	stateStore, err = store.NewStore(cmd.Context(), settings.StoreOptions())
	return err
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	ds, err := fixture.Load(path)
	if err != nil {
		return nil, err
	}
	return catalog.New(ds)
}

// newRootCmd builds the command tree and binds its flags to viper. Only a
// process root is bound; the shell runs its lines on unbound trees so they
// do not steal the bindings from the root that started it.
func newRootCmd() *cobra.Command {
	root := buildRootCmd()
	bindFlags(root)
	return root
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "aeroparts",
		Short:             "A drone and RC parts storefront",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file")
	flags.String("log-level", "info", "log level: debug|info|warn|error")
	flags.String("log-format", "text", "log format: text|json")
	flags.String("store", "file", "state backend: memory|file|redis")
	flags.String("store-file", "data/state.json", "file store path")
	flags.String("redis-addr", "localhost:6379", "redis address")
	flags.String("session", "default", "cart session namespace")
	flags.String("dataset", "", "catalog dataset file (embedded catalog when empty)")
	flags.Int64("shipping-rate", cart.DefaultShippingFlatRate, "flat shipping rate")
	flags.Float64("tax-rate", 0.19, "tax rate in [0,1]")
	flags.StringP("output", "o", "text", "output format: text|json")

	root.AddCommand(
		newCatalogCmd(),
		newProductsCmd(),
		newCartCmd(),
		newCouponCmd(),
		newCheckoutCmd(),
		newServeCmd(),
		newShellCmd(),
	)
	return root
}

func bindFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	for _, name := range []string{
		"config", "log-level", "log-format", "store", "store-file", "redis-addr",
		"session", "dataset", "shipping-rate", "tax-rate",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	if serve, _, err := root.Find([]string{"serve"}); err == nil && serve != root {
		_ = viper.BindPFlag("http-addr", serve.Flags().Lookup("addr"))
	}
}

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := bufio.NewReader(cmd.InOrStdin())
			for {
				fmt.Fprint(cmd.OutOrStdout(), "aeroparts> ")
				line, err := r.ReadString('\n')
				line = strings.TrimSpace(line)
				if line == "exit" || line == "quit" {
					return nil
				}
				if line != "" {
					sub := buildRootCmd()
					sub.SetArgs(strings.Fields(line))
					sub.SetIn(r)
					if err := sub.Execute(); err != nil {
						fmt.Fprintln(os.Stderr, err)
					}
				}
				if err != nil {
					return nil
				}
			}
		},
	}
}

func jsonOutput(cmd *cobra.Command) bool {
	out, _ := cmd.Flags().GetString("output")
	return out == "json"
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// confirm asks a yes/no question on in.
func confirm(in io.Reader, question string) bool {
	fmt.Printf("%s (y/N): ", question)
	var resp string
	if _, err := fmt.Fscanln(in, &resp); err != nil {
		return false
	}
	return resp == "y" || resp == "Y"
}

func formatter() *money.Formatter {
	return money.NewFormatter(settings.LocaleTag())
}

func cartManager() *cart.Manager {
	return cart.NewManager(stateStore, settings.Session, settings.Pricing(), slog.Default())
}

func checkoutService(mgr *cart.Manager) *checkout.Service {
	processor := checkout.NewSimulatedProcessor(settings.PaymentDelay)
	return checkout.NewService(stateStore, mgr, productCatalog, processor, slog.Default())
}

// Execute runs the root command and releases the state store.
func Execute() error {
	err := rootCmd.Execute()
	if c, ok := stateStore.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			slog.Error("failed to close store", "error", cerr)
		}
	}
	return err
}
