package cli

import (
	"testing"
)

func TestExecuteWrapper(t *testing.T) {
	// no injected state, so setup builds a memory store from flags
	resetCLI()
	defer resetCLI()
	rootCmd.SetArgs([]string{"--store", "memory", "catalog", "stats", "-o", "json"})
	out, err := captureOutput(Execute)
	if err != nil {
		t.Fatalf("Execute wrapper failed: %v", err)
	}
	if out == "" {
		t.Fatal("expected stats output")
	}
	if productCatalog == nil || stateStore == nil {
		t.Fatal("setup did not initialise catalog and store")
	}
}
