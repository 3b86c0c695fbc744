package main

import (
	"testing"

	"github.com/verda-api/verda/internal/app"
	_ "github.com/verda-api/verda/testing"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	app.RefreshTestMode()
	if !app.InTestMode() {
		t.Fatalf("expected test mode to be enabled")
	}
	// Returns immediately; no config, database or listener is touched.
	main()
}
