package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ktbridge/internal/bridge"
	"ktbridge/internal/crawler"
	"ktbridge/internal/export"
	"ktbridge/internal/storage"
)

const calcPrinted = "package pkg\n\nfun inc(x: Int): Int {\n    return x + 1\n}\n"

// copyFixture copies the sample project into a temp dir so tests can
// modify it.
func copyFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "src", "pkg")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range []string{"calc.ir.json", "calc.kt", "broken.ir.json", "broken.kt"} {
		data, err := os.ReadFile(filepath.Join("../../testdata/project/src/pkg", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	root, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	return root
}

func openStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "units.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPipeline_Run(t *testing.T) {
	root := copyFixture(t)
	units, err := crawler.NewCrawler().Collect(root)
	require.NoError(t, err)
	require.Len(t, units, 2)

	store := openStore(t)
	out := t.TempDir()
	opts := DefaultOptions()
	opts.Workers = 2
	opts.Root = root
	opts.OutDir = out
	opts.Validate = true
	p := New(zap.NewNop(), store, opts)
	ctx := context.Background()

	report, err := p.Run(ctx, units)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	t.Run("failed file publishes nothing", func(t *testing.T) {
		broken := report.Results[0]
		require.True(t, broken.Failed())
		var unhandled *bridge.UnhandledNodeError
		assert.True(t, errors.As(broken.Err, &unhandled))
		assert.Empty(t, broken.Printed)
		assert.NoFileExists(t, filepath.Join(out, "src", "pkg", "broken"+ExportSuffix))

		rec, err := store.GetUnit(ctx, broken.Unit.Dump)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, storage.StatusFailed, rec.Status)
		assert.Contains(t, rec.Error, "Vararg")
	})

	t.Run("converted file is printed and exported", func(t *testing.T) {
		calc := report.Results[1]
		require.NoError(t, calc.Err)
		assert.Equal(t, calcPrinted, calc.Printed)

		data, err := os.ReadFile(filepath.Join(out, "src", "pkg", "calc"+ExportSuffix))
		require.NoError(t, err)
		assert.NoError(t, export.Validate(data))

		rec, err := store.GetUnit(ctx, calc.Unit.Dump)
		require.NoError(t, err)
		assert.Equal(t, calcPrinted, rec.Printed)
	})

	t.Run("counts", func(t *testing.T) {
		converted, skipped, failed, _ := report.Counts()
		assert.Equal(t, 1, converted)
		assert.Equal(t, 0, skipped)
		assert.Equal(t, 1, failed)
	})

	t.Run("unchanged files are skipped", func(t *testing.T) {
		again, err := p.Run(ctx, units)
		require.NoError(t, err)
		assert.True(t, again.Results[0].Failed(), "failures are retried")
		assert.True(t, again.Results[1].Skipped)
	})

	t.Run("edited source is reconverted", func(t *testing.T) {
		f, err := os.OpenFile(units[1].Source, os.O_APPEND|os.O_WRONLY, 0)
		require.NoError(t, err)
		_, err = f.WriteString("\n// edited\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		again, err := p.Run(ctx, units)
		require.NoError(t, err)
		assert.False(t, again.Results[1].Skipped)
		assert.Equal(t, calcPrinted, again.Results[1].Printed)
	})
}

func TestPipeline_WithoutStore(t *testing.T) {
	root := copyFixture(t)
	units, err := crawler.NewCrawler().Collect(root)
	require.NoError(t, err)

	p := New(nil, nil, DefaultOptions())
	first, err := p.Run(context.Background(), units)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), units)
	require.NoError(t, err)
	assert.Equal(t, first.Results[1].Printed, second.Results[1].Printed)
	assert.False(t, second.Results[1].Skipped)
}

func TestPipeline_MissingFiles(t *testing.T) {
	p := New(nil, nil, DefaultOptions())
	res := p.Convert(context.Background(), crawler.Unit{Dump: filepath.Join(t.TempDir(), "gone.ir.json")})
	assert.True(t, res.Failed())
}

func TestPipeline_Cancelled(t *testing.T) {
	root := copyFixture(t)
	units, err := crawler.NewCrawler().Collect(root)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(nil, nil, DefaultOptions()).Run(ctx, units)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReport_Write(t *testing.T) {
	report := &Report{Results: []Result{
		{Unit: crawler.Unit{Dump: "a.ir.json"}, Err: errors.New("boom")},
		{Unit: crawler.Unit{Dump: "b.ir.json"}, Messages: []bridge.Message{
			{Severity: bridge.SeverityWarning, Text: "unresolved type"},
			{Severity: bridge.SeverityInfo, Text: "note"},
		}},
		{Unit: crawler.Unit{Dump: "c.ir.json"}, Skipped: true},
	}}

	var buf bytes.Buffer
	report.Write(&buf)
	assert.Equal(t,
		"FAIL a.ir.json: boom\n"+
			"WARN b.ir.json: warning at 0..0: unresolved type\n"+
			"1 converted, 1 unchanged, 1 failed, 1 warnings\n",
		buf.String())
	assert.Len(t, report.Failures(), 1)
}
