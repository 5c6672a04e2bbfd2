package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeroparts/cart"
	"aeroparts/catalog"
	"aeroparts/checkout"
	"aeroparts/config"
	"aeroparts/domain"
	"aeroparts/store"
)

// capture stdout during cobra execution
func captureOutput(f func() error) (string, error) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	err := f()

	w.Close()
	os.Stdout = old
	return <-done, err
}

// reset cobra + global state between tests
func resetCLI() {
	rootCmd = newRootCmd()
	stateStore = nil
	productCatalog = nil
	settings = config.Defaults()
}

// injectState gives the CLI an in-memory store and the embedded catalog so
// setup is skipped.
func injectState(t *testing.T) {
	t.Helper()
	resetCLI()
	stateStore = store.NewInMemoryStore()
	productCatalog = catalog.Default()
	settings.PaymentDelay = 0
	t.Cleanup(resetCLI)
}

// run executes args on a fresh command tree.
func run(args ...string) (string, error) {
	return captureOutput(func() error {
		rootCmd = newRootCmd()
		rootCmd.SetArgs(args)
		return rootCmd.Execute()
	})
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

func decodeOutput[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

type idOnly struct {
	ID int `json:"id"`
}

func ids(items []idOnly) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestProductsCommands(t *testing.T) {
	injectState(t)

	t.Run("list pages", func(t *testing.T) {
		page := decodeOutput[struct {
			TotalCount int      `json:"total_count"`
			TotalPages int      `json:"total_pages"`
			Items      []idOnly `json:"items"`
		}](t, mustRun(t, "products", "list", "--per-page", "5", "-o", "json"))
		assert.Equal(t, 20, page.TotalCount)
		assert.Equal(t, 4, page.TotalPages)
		assert.Len(t, page.Items, 5)
	})

	t.Run("list by brands sorted by price", func(t *testing.T) {
		page := decodeOutput[struct {
			TotalCount int      `json:"total_count"`
			Items      []idOnly `json:"items"`
		}](t, mustRun(t, "products", "list", "--brand", "1", "--brand", "2", "--sort", "price-asc", "--per-page", "20", "-o", "json"))
		require.Equal(t, 8, page.TotalCount)
		assert.Equal(t, 5, page.Items[0].ID)
	})

	t.Run("list text", func(t *testing.T) {
		out := mustRun(t, "products", "list", "--category", "1")
		assert.Contains(t, out, "page 1/1, 2 products")
	})

	t.Run("unknown sort", func(t *testing.T) {
		_, err := run("products", "list", "--sort", "cheapest")
		assert.Error(t, err)
	})

	t.Run("get", func(t *testing.T) {
		p := decodeOutput[idOnly](t, mustRun(t, "products", "get", "1"))
		assert.Equal(t, 1, p.ID)

		out := mustRun(t, "products", "get", "999")
		assert.Empty(t, out)

		_, err := run("products", "get", "abc")
		assert.Error(t, err)
	})

	t.Run("search", func(t *testing.T) {
		got := decodeOutput[[]idOnly](t, mustRun(t, "products", "search", "motor", "-o", "json"))
		assert.Equal(t, []int{1, 2}, ids(got))
	})

	t.Run("top and featured", func(t *testing.T) {
		got := decodeOutput[[]idOnly](t, mustRun(t, "products", "top", "--limit", "3", "-o", "json"))
		assert.Equal(t, []int{1, 9, 13}, ids(got))

		out := mustRun(t, "products", "top", "--limit", "1")
		assert.True(t, strings.HasPrefix(out, "1 | Motor brushless 2207 2450KV AeroX Falcon | "), out)

		got = decodeOutput[[]idOnly](t, mustRun(t, "products", "featured", "-o", "json"))
		assert.Len(t, got, 10)
	})
}

func TestCatalogCommands(t *testing.T) {
	injectState(t)

	st := decodeOutput[catalog.Stats](t, mustRun(t, "catalog", "stats", "-o", "json"))
	assert.Equal(t, 20, st.Products)
	assert.Equal(t, 4, st.Categories)

	assert.Contains(t, mustRun(t, "catalog", "stats"), "average score:  4.6")
	assert.Contains(t, mustRun(t, "catalog", "coupons"), "basic1 | Cupón basico | 10%")
	assert.Empty(t, mustRun(t, "catalog", "coupons", "--min-discount", "50"))

	lines := strings.Split(strings.TrimSpace(mustRun(t, "catalog", "categories")), "\n")
	assert.Len(t, lines, 4)

	path := filepath.Join(t.TempDir(), "export.json")
	mustRun(t, "catalog", "export", "--file", path, "--category", "1")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{13, 14}, ids(decodeOutput[[]idOnly](t, string(b))))
}

func TestCartWorkflow(t *testing.T) {
	injectState(t)

	assert.Contains(t, mustRun(t, "cart", "add", "5", "--quantity", "2"), "added 2 x")
	mustRun(t, "cart", "add", "1")
	assert.Equal(t, "3\n", mustRun(t, "cart", "count"))

	totals := decodeOutput[cart.Totals](t, mustRun(t, "cart", "totals", "-o", "json"))
	assert.Equal(t, cart.Totals{Subtotal: 189700, Shipping: 15000, Tax: 36043, Total: 240743, ItemCount: 3}, totals)

	assert.Equal(t, "applied basic1 (10%)\n", mustRun(t, "coupon", "apply", "BASIC1"))
	totals = decodeOutput[cart.Totals](t, mustRun(t, "cart", "totals", "-o", "json"))
	assert.Equal(t, cart.Totals{Subtotal: 189700, Discount: 18970, Shipping: 15000, Tax: 32439, Total: 218169, ItemCount: 3}, totals)

	c := decodeOutput[domain.Coupon](t, mustRun(t, "coupon", "show"))
	assert.Equal(t, "basic1", c.Code)

	_, err := run("coupon", "apply", "nope")
	assert.Error(t, err)

	out := mustRun(t, "cart", "show")
	assert.Contains(t, out, "coupon:   basic1 (10%)")
	assert.Contains(t, out, "total:")

	mustRun(t, "cart", "update", "5", "0")
	assert.Equal(t, "1\n", mustRun(t, "cart", "count"))

	_, err = run("cart", "remove", "5")
	assert.Error(t, err)
	_, err = run("cart", "update", "5", "2")
	assert.Error(t, err)

	_, err = run("cart", "add", "404")
	assert.True(t, domain.IsNotFoundError(err))
	_, err = run("cart", "add", "1", "--quantity", "0")
	assert.Error(t, err)

	report := decodeOutput[struct {
		Session string            `json:"session"`
		Lines   []json.RawMessage `json:"lines"`
	}](t, mustRun(t, "cart", "show", "-o", "json"))
	assert.Equal(t, "default", report.Session)
	assert.Len(t, report.Lines, 1)

	mustRun(t, "coupon", "remove")
	assert.Equal(t, "no coupon applied\n", mustRun(t, "coupon", "show"))

	mustRun(t, "cart", "clear", "--force")
	assert.Equal(t, "0\n", mustRun(t, "cart", "count"))
	assert.Equal(t, "cart is empty\n", mustRun(t, "cart", "show"))
}

func TestCartClearConfirmation(t *testing.T) {
	injectState(t)
	mustRun(t, "cart", "add", "1")

	clearWith := func(answer string) string {
		out, err := captureOutput(func() error {
			rootCmd = newRootCmd()
			rootCmd.SetIn(strings.NewReader(answer))
			rootCmd.SetArgs([]string{"cart", "clear"})
			return rootCmd.Execute()
		})
		require.NoError(t, err)
		return out
	}

	assert.Contains(t, clearWith("n\n"), "aborted")
	assert.Equal(t, "1\n", mustRun(t, "cart", "count"))

	assert.Contains(t, clearWith("y\n"), "cleared")
	assert.Equal(t, "0\n", mustRun(t, "cart", "count"))
}

type orderOutput struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Items  []struct {
		Product  idOnly `json:"product"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	Totals struct {
		Subtotal int64 `json:"subtotal"`
		Total    int64 `json:"total"`
	} `json:"totals"`
	Shipping map[string]string `json:"shipping"`
}

func TestCheckoutWorkflow(t *testing.T) {
	injectState(t)
	mustRun(t, "cart", "add", "5", "-q", "2")

	_, err := run("checkout", "pay")
	assert.True(t, errors.Is(err, checkout.ErrShippingRequired))

	assert.Equal(t, "no shipping information saved\n", mustRun(t, "checkout", "shipping"))
	mustRun(t, "checkout", "shipping", "--field", "name=Ana", "--field", "city=Bogotá")
	info := decodeOutput[map[string]string](t, mustRun(t, "checkout", "shipping"))
	assert.Equal(t, map[string]string{"name": "Ana", "city": "Bogotá"}, info)

	quote := decodeOutput[cart.Totals](t, mustRun(t, "checkout", "quote", "-o", "json"))
	assert.Equal(t, int64(62362), quote.Total)

	order := decodeOutput[orderOutput](t, mustRun(t, "checkout", "pay"))
	assert.True(t, strings.HasPrefix(order.ID, "AP-"))
	assert.Equal(t, "cart", order.Source)
	assert.Equal(t, int64(62362), order.Totals.Total)
	assert.Equal(t, "Ana", order.Shipping["name"])
	assert.Equal(t, "0\n", mustRun(t, "cart", "count"))

	last := decodeOutput[orderOutput](t, mustRun(t, "checkout", "last-order"))
	assert.Equal(t, order.ID, last.ID)

	_, err = run("checkout", "pay")
	assert.True(t, errors.Is(err, checkout.ErrEmptyCart))
}

func TestCheckoutBuyNow(t *testing.T) {
	injectState(t)
	mustRun(t, "checkout", "shipping", "--field", "name=Ana")
	mustRun(t, "cart", "add", "5")

	_, err := run("checkout", "pay", "--buy-now")
	assert.True(t, errors.Is(err, checkout.ErrNoBuyNowItem))

	_, err = run("checkout", "buy-now", "404")
	assert.True(t, domain.IsNotFoundError(err))

	assert.Contains(t, mustRun(t, "checkout", "buy-now", "1", "-q", "2"), "buy now: 2 x")
	order := decodeOutput[orderOutput](t, mustRun(t, "checkout", "pay", "--buy-now"))
	assert.Equal(t, "buy-now", order.Source)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Product.ID)
	assert.Equal(t, int64(299800), order.Totals.Subtotal)

	// The cart is untouched.
	assert.Equal(t, "1\n", mustRun(t, "cart", "count"))
	_, err = run("checkout", "quote", "--buy-now")
	assert.True(t, errors.Is(err, checkout.ErrNoBuyNowItem))
}

func TestShell(t *testing.T) {
	injectState(t)

	out, err := captureOutput(func() error {
		rootCmd = newRootCmd()
		rootCmd.SetIn(strings.NewReader("cart add 3\n\ncart count\nexit\ncart add 3\n"))
		rootCmd.SetArgs([]string{"shell"})
		return rootCmd.Execute()
	})
	require.NoError(t, err)
	assert.Contains(t, out, "aeroparts> ")
	assert.Contains(t, out, "added 1 x")
	assert.Contains(t, out, "aeroparts> 1\n")

	// Lines after exit are not run.
	assert.Equal(t, "1\n", mustRun(t, "cart", "count"))
}

func TestShellKeepsRootFlagBindings(t *testing.T) {
	injectState(t)

	_, err := captureOutput(func() error {
		rootCmd = newRootCmd()
		rootCmd.SetIn(strings.NewReader("cart count\nproducts top --limit 1\nexit\n"))
		rootCmd.SetArgs([]string{"--session", "kiosk", "--tax-rate", "0.05", "shell"})
		return rootCmd.Execute()
	})
	require.NoError(t, err)

	assert.Equal(t, "kiosk", viper.GetString("session"))
	assert.Equal(t, 0.05, viper.GetFloat64("tax-rate"))
	cfg, err := config.Load(viper.GetViper())
	require.NoError(t, err)
	assert.Equal(t, "kiosk", cfg.Session)
}
