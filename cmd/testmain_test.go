package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"thoreinstein.com/skinscout/pkg/credentials"
)

// TestMain isolates the cmd tests from the user's environment: HOME points
// at a scratch directory, config caching is off, and the API key store is a
// plain file instead of the OS keychain.
func TestMain(m *testing.M) {
	os.Setenv("GO_TEST", "true")

	home, err := os.MkdirTemp("", "skinscout-cmd-test")
	if err != nil {
		panic(err)
	}
	os.Setenv("HOME", home)

	newKeyStore = func() credentials.KeyStore {
		return credentials.NewFileStore(filepath.Join(home, credentials.KeyFile))
	}

	code := m.Run()

	os.RemoveAll(home)
	os.Unsetenv("GO_TEST")

	os.Exit(code)
}

// testEnv points the config at apiURL and a file store in a fresh
// directory, which also becomes the working directory. It returns the store
// path.
func testEnv(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()
	storePath := filepath.Join(dir, "store.json")

	t.Setenv("SKINSCOUT_API_BASE_URL", apiURL)
	t.Setenv("SKINSCOUT_API_KEY", "test-key")
	t.Setenv("SKINSCOUT_API_CACHE_TTL", "0s")
	t.Setenv("SKINSCOUT_STORE_BACKEND", "file")
	t.Setenv("SKINSCOUT_STORE_PATH", storePath)
	t.Chdir(dir)

	return storePath
}

// newAPIServer starts a fake aggregation API.
func newAPIServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// executeCommand runs the root command with args and returns its output.
// Flags and config are reset first so tests do not leak into each other.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetConfig()
	resetFlags(rootCmd)
	t.Cleanup(resetConfig)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		switch v := f.Value.(type) {
		case *enumFlag:
			v.value = f.DefValue
		case pflag.SliceValue:
			_ = v.Replace(nil)
		default:
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
