// Package testing switches the process into test mode when imported, so that
// entrypoints and wiring skip their runtime side effects.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

const testModeEnv = "VERDA_TEST_MODE"

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		if os.Getenv(testModeEnv) == "" {
			_ = os.Setenv(testModeEnv, "1")
		}
	})
}

func init() {
	ensureTestMode()
}

// TestMain can be assigned by packages that want the flag set before m.Run.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
