package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteClosesDatabase(t *testing.T) {
	testCases := []struct {
		name      string
		operation string
		expectErr bool
	}{
		{name: "success", operation: OPERATION_GRADES},
		{name: "failing command", operation: "cookies", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetArgs([]string{
				"--config", filepath.Join(dir, "missing.json5"),
				"--db", filepath.Join(dir, "snapshots.db"),
				"history", tc.operation,
			})
			t.Cleanup(func() { rootCmd.SetArgs(nil) })

			err := ExecuteContext(context.Background())
			if tc.expectErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Contains(t, out.String(), "Created")
			}

			require.NotNil(t, current)
			require.NotNil(t, current.conn)
			require.Error(t, current.conn.Ping())
		})
	}
}

func TestReadConfigExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ucassist.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{ username: "someone", keep: 3 }`), 0600))

	cfg, err := readConfig(path, true)
	require.NoError(t, err)
	require.Equal(t, "someone", cfg.Username)
	require.Equal(t, 3, cfg.Keep)

	_, err = readConfig(filepath.Join(dir, "missing.json5"), true)
	require.ErrorIs(t, err, os.ErrNotExist)
}
