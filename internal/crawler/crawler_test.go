package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawler_ScanProject(t *testing.T) {
	root, _ := filepath.Abs("../../testdata/project")

	units, err := NewCrawler().Collect(root)
	require.NoError(t, err)

	t.Run("pairs dumps with sources", func(t *testing.T) {
		require.Len(t, units, 2)
		assert.Equal(t, filepath.Join(root, "src/pkg/broken.ir.json"), units[0].Dump)
		assert.Equal(t, filepath.Join(root, "src/pkg/broken.kt"), units[0].Source)
		assert.Equal(t, filepath.Join(root, "src/pkg/calc.kt"), units[1].Source)
	})

	t.Run("skips ignored directories", func(t *testing.T) {
		for _, u := range units {
			assert.NotContains(t, u.Dump, "/build/")
		}
	})

	t.Run("extra ignored names", func(t *testing.T) {
		units, err := NewCrawler("pkg").Collect(root)
		require.NoError(t, err)
		assert.Empty(t, units)
	})
}

func TestCrawler_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "Orphan.ir.json")
	require.NoError(t, os.WriteFile(dump, []byte("{}"), 0o644))

	units, err := NewCrawler().Collect(dir)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Empty(t, units[0].Source)
}

func TestCrawler_ForSources(t *testing.T) {
	root, _ := filepath.Abs("../../testdata/project")
	calc := filepath.Join(root, "src/pkg/calc.kt")

	units := NewCrawler().ForSources([]string{
		calc,
		filepath.Join(root, "src/pkg/calc.ir.json"),
		filepath.Join(root, "src/pkg/Deleted.kt"),
		filepath.Join(root, "README.md"),
		filepath.Join(root, "build/gen/ignored.kt"),
	})
	require.Len(t, units, 1)
	assert.Equal(t, DumpPath(calc), units[0].Dump)
	assert.Equal(t, calc, units[0].Source)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "a/B.ir.json", DumpPath("a/B.kt"))
	assert.Equal(t, "a/B.kt", SourcePath("a/B.ir.json"))
	assert.True(t, IsDump("x.ir.json"))
	assert.False(t, IsDump("x.json"))
}
