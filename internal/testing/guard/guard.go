// Package guard switches the process into test mode when imported for side
// effects, so packages under test never start runtime services.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("SHOPDESK_TEST_MODE") == "" {
			_ = os.Setenv("SHOPDESK_TEST_MODE", "1")
		}
		// Test workspaces start empty unless a test opts into the demo data.
		_ = os.Unsetenv("SHOPDESK_SEED_DEMO")
	})
}
