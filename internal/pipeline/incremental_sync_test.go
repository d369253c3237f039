package pipeline

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementalSync_Run(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	root := copyFixture(t)
	gitRun := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com"}, args...)...)
		cmd.Dir = root
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	gitRun("init", "-q")
	gitRun("add", ".")
	gitRun("commit", "-q", "-m", "init")

	store := openStore(t)
	opts := DefaultOptions()
	opts.Root = root
	s := NewIncrementalSync(root, New(nil, store, opts), store)
	var out bytes.Buffer
	s.Out = &out
	ctx := context.Background()

	t.Run("clean tree", func(t *testing.T) {
		report, err := s.Run(ctx, false)
		require.NoError(t, err)
		assert.Empty(t, report.Results)
		assert.Contains(t, out.String(), "No changes detected.")
	})

	t.Run("force converts everything", func(t *testing.T) {
		report, err := s.Run(ctx, true)
		require.NoError(t, err)
		assert.Len(t, report.Results, 2)
	})

	calc := filepath.Join(root, "src", "pkg", "calc.kt")
	f, err := os.OpenFile(calc, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("\n// edited\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	t.Run("changed source", func(t *testing.T) {
		report, err := s.Run(ctx, false)
		require.NoError(t, err)
		require.Len(t, report.Results, 1)
		res := report.Results[0]
		assert.True(t, strings.HasSuffix(res.Unit.Dump, "calc.ir.json"))
		assert.Equal(t, calcPrinted, res.Printed)
	})

	t.Run("deleted files are pruned", func(t *testing.T) {
		broken := filepath.Join(root, "src", "pkg", "broken.ir.json")
		require.NoError(t, os.Remove(broken))
		require.NoError(t, os.Remove(filepath.Join(root, "src", "pkg", "broken.kt")))

		_, err := s.Run(ctx, false)
		require.NoError(t, err)
		rec, err := store.GetUnit(ctx, broken)
		require.NoError(t, err)
		assert.Nil(t, rec)
		assert.Contains(t, out.String(), "Removed 1 deleted files.")
	})
}
