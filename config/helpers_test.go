// ABOUTME: Test helpers for config tests
// ABOUTME: Provides utilities for environment variable management

package config

import (
	"os"
	"strings"
	"testing"
)

// withCleanEnv clears the environment, applies the given vars, and returns a
// cleanup function that restores the original env. Use with t.Cleanup().
func withCleanEnv(t *testing.T, vars map[string]string) func() {
	t.Helper()

	saved := os.Environ()
	os.Clearenv()
	for k, v := range vars {
		os.Setenv(k, v)
	}

	return func() {
		os.Clearenv()
		for _, kv := range saved {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) == 2 {
				os.Setenv(parts[0], parts[1])
			}
		}
	}
}
