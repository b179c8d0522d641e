package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marcelsud/payment-relay/webhook/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSign(t *testing.T) {
	body := `{"id":"evt_1","type":"payment_approved"}`
	want, err := signature.Sign([]byte("cli-secret"), []byte(body))
	require.NoError(t, err)

	t.Run("stdin", func(t *testing.T) {
		out, err := run(t, body, "--secret", "cli-secret")
		require.NoError(t, err)
		assert.Equal(t, want+"\n", out)
	})

	t.Run("file with header line", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "body.json")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		out, err := run(t, "", "-s", "cli-secret", "--header", path)
		require.NoError(t, err)
		assert.Equal(t, "Cko-Signature: "+want+"\n", out)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "", "-s", "cli-secret", filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading body file")
	})
}

func TestSecret(t *testing.T) {
	t.Run("default size", func(t *testing.T) {
		out, err := run(t, "", "secret")
		require.NoError(t, err)
		assert.Len(t, strings.TrimSpace(out), 64)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := run(t, "", "secret", "--bytes", "8")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret size must be between")
	})
}
