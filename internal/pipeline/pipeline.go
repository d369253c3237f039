// Package pipeline converts batches of IR dumps: each file is decoded,
// bridged, printed and recorded on its own, so one broken dump never affects
// the others.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ktbridge/internal/bridge"
	"ktbridge/internal/crawler"
	"ktbridge/internal/ct"
	"ktbridge/internal/export"
	"ktbridge/internal/ir"
	"ktbridge/internal/printer"
	"ktbridge/internal/source"
	"ktbridge/internal/storage"
)

// ExportSuffix replaces crawler.DumpSuffix on exported documents.
const ExportSuffix = ".ct.json"

type Options struct {
	Workers  int
	Bridge   bridge.Options
	// Root anchors the relative layout of OutDir.
	Root     string
	// OutDir receives one JSON export per converted file when set.
	OutDir   string
	Validate bool
}

func DefaultOptions() Options {
	return Options{Workers: 4, Bridge: bridge.DefaultOptions(), Root: "."}
}

// Result is the outcome of one dump. Printed is empty unless the
// conversion succeeded.
type Result struct {
	Unit     crawler.Unit
	Hash     string
	Printed  string
	Messages []bridge.Message
	Skipped  bool
	Err      error
}

func (r Result) Failed() bool { return r.Err != nil }

type Pipeline struct {
	logger *zap.Logger
	store  storage.UnitStore
	opts   Options
}

// New creates a pipeline. store may be nil, in which case nothing is cached
// or recorded.
func New(logger *zap.Logger, store storage.UnitStore, opts Options) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Pipeline{logger: logger, store: store, opts: opts}
}

// Run converts units with at most Workers files in flight. Per-file failures
// are reported in the results; only cancellation fails the run.
func (p *Pipeline) Run(ctx context.Context, units []crawler.Unit) (*Report, error) {
	results := make([]Result, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.Convert(gctx, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results}
	converted, skipped, failed, warnings := report.Counts()
	p.logger.Info("conversion finished",
		zap.Int("converted", converted),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Int("warnings", warnings))
	return report, nil
}

// Convert runs one unit through decode, bridge, print and export.
func (p *Pipeline) Convert(ctx context.Context, u crawler.Unit) Result {
	res := Result{Unit: u}
	log := p.logger.With(zap.String("dump", u.Dump))

	dump, err := os.ReadFile(u.Dump)
	if err != nil {
		res.Err = fmt.Errorf("failed to read dump: %w", err)
		return res
	}
	var src []byte
	if u.Source != "" {
		if src, err = os.ReadFile(u.Source); err != nil {
			res.Err = fmt.Errorf("failed to read source: %w", err)
			return res
		}
	}
	res.Hash = storage.ContentHash(dump, src)

	if p.store != nil {
		fresh, err := p.store.IsFresh(ctx, u.Dump, res.Hash)
		if err != nil {
			res.Err = err
			return res
		}
		if fresh {
			log.Debug("unchanged, skipping")
			res.Skipped = true
			return res
		}
	}

	unit, msgs, err := p.convertDump(ctx, log, dump, src)
	res.Messages = msgs
	if err == nil {
		res.Printed = printer.Print(unit)
		err = p.export(u, unit)
	}
	if err != nil {
		log.Error("conversion failed", zap.Error(err))
		res.Err = err
		res.Printed = ""
		p.unpublish(u)
	}
	p.record(ctx, log, res)
	return res
}

func (p *Pipeline) convertDump(ctx context.Context, log *zap.Logger, dump, src []byte) (*ct.CompilationUnit, []bridge.Message, error) {
	f, err := ir.Decode(bytes.NewReader(dump))
	if err != nil {
		return nil, nil, err
	}
	var helper source.Helper
	if src != nil {
		k, err := source.NewKotlin(ctx, src)
		if err != nil {
			log.Warn("source unavailable, assuming explicit syntax", zap.Error(err))
		} else {
			helper = k
		}
	}
	return bridge.NewBuilder(log, p.opts.Bridge).ConvertFile(f, helper)
}

func (p *Pipeline) exportPath(u crawler.Unit) string {
	rel, err := filepath.Rel(p.opts.Root, u.Dump)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(u.Dump)
	}
	return filepath.Join(p.opts.OutDir, strings.TrimSuffix(rel, crawler.DumpSuffix)+ExportSuffix)
}

func (p *Pipeline) export(u crawler.Unit, unit *ct.CompilationUnit) error {
	if p.opts.OutDir == "" {
		return nil
	}
	data, err := export.Marshal(unit)
	if err != nil {
		return err
	}
	if p.opts.Validate {
		if err := export.Validate(data); err != nil {
			return err
		}
	}
	out := p.exportPath(u)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// unpublish removes an export left over from an earlier successful run.
func (p *Pipeline) unpublish(u crawler.Unit) {
	if p.opts.OutDir == "" {
		return
	}
	if err := os.Remove(p.exportPath(u)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.logger.Warn("failed to remove stale export", zap.Error(err))
	}
}

func (p *Pipeline) record(ctx context.Context, log *zap.Logger, res Result) {
	if p.store == nil {
		return
	}
	rec := &storage.Record{
		Path:        res.Unit.Dump,
		ContentHash: res.Hash,
		Printed:     res.Printed,
		Warnings:    warningTexts(res.Messages),
		Status:      storage.StatusConverted,
	}
	if res.Err != nil {
		rec.Status = storage.StatusFailed
		rec.Error = res.Err.Error()
	}
	if err := p.store.SaveUnit(ctx, rec); err != nil {
		log.Error("failed to record result", zap.Error(err))
	}
}

func warningTexts(msgs []bridge.Message) []string {
	var out []string
	for _, m := range msgs {
		if m.Severity == bridge.SeverityWarning {
			out = append(out, m.String())
		}
	}
	return out
}
