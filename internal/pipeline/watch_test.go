package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ktbridge/internal/crawler"
)

func TestPipeline_Watch(t *testing.T) {
	root := copyFixture(t)
	dump := filepath.Join(root, "src", "pkg", "calc.ir.json")
	data, err := os.ReadFile(dump)
	require.NoError(t, err)

	p := New(nil, nil, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan Result, 16)
	done := make(chan error, 1)
	go func() {
		done <- p.Watch(ctx, root, crawler.NewCrawler(), func(r Result) {
			select {
			case results <- r:
			default:
			}
		})
	}()

	// The watcher may not be registered yet, so keep touching the dump.
	var got Result
	require.Eventually(t, func() bool {
		_ = os.WriteFile(dump, data, 0o644)
		select {
		case got = <-results:
			return true
		default:
			return false
		}
	}, 5*time.Second, 200*time.Millisecond)

	assert.Equal(t, dump, got.Unit.Dump)
	assert.Equal(t, calcPrinted, got.Printed)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
