//go:build !z3

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolver_Unavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gcl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver: z3\n"), 0o600))

	_, err := RunCommand(t, "eval", "./testdata/abs", "-f", "Abs", "--config", path)
	require.ErrorContains(t, err, `solver "z3" not available`)
}
