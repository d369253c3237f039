package pipeline

import (
	"context"
	"fmt"
	"io"

	"ktbridge/internal/crawler"
	"ktbridge/internal/git"
	"ktbridge/internal/storage"
)

// IncrementalSync re-converts only the dumps whose Kotlin source or dump
// changed since BaseRef.
type IncrementalSync struct {
	Root     string
	BaseRef  string
	Crawler  *crawler.Crawler
	Pipeline *Pipeline
	Store    storage.UnitStore
	// Out receives progress lines.
	Out      io.Writer
}

type updatePlan struct {
	Units      []crawler.Unit
	Deleted    []string
	FullResync bool
}

func NewIncrementalSync(root string, p *Pipeline, store storage.UnitStore) *IncrementalSync {
	return &IncrementalSync{
		Root:     root,
		BaseRef:  "HEAD",
		Crawler:  crawler.NewCrawler(),
		Pipeline: p,
		Store:    store,
		Out:      io.Discard,
	}
}

// Run converts the changed units. With force and a clean tree every dump
// under Root is converted instead.
func (s *IncrementalSync) Run(ctx context.Context, force bool) (*Report, error) {
	plan, err := s.detectChangesStage(ctx, force)
	if err != nil {
		return nil, err
	}
	if len(plan.Units) == 0 && len(plan.Deleted) == 0 {
		fmt.Fprintln(s.Out, "No changes detected.")
		return &Report{}, nil
	}

	if err := s.pruneStage(ctx, plan.Deleted); err != nil {
		return nil, err
	}

	report, err := s.Pipeline.Run(ctx, plan.Units)
	if err != nil {
		return nil, fmt.Errorf("conversion interrupted: %w", err)
	}
	return report, nil
}

func (s *IncrementalSync) detectChangesStage(ctx context.Context, force bool) (*updatePlan, error) {
	top, err := git.TopLevel(ctx, s.Root)
	if err != nil {
		return nil, err
	}
	changes, err := git.GetChangedFiles(ctx, s.Root, s.BaseRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get git changes: %w", err)
	}

	updated, deleted := git.Paths(top, changes, crawler.SourceSuffix, crawler.DumpSuffix)
	plan := &updatePlan{Units: s.Crawler.ForSources(updated)}
	seen := make(map[string]bool)
	for _, p := range deleted {
		if !crawler.IsDump(p) {
			p = crawler.DumpPath(p)
		}
		if !seen[p] {
			seen[p] = true
			plan.Deleted = append(plan.Deleted, p)
		}
	}

	if force && len(changes) == 0 {
		units, err := s.Crawler.Collect(s.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.Root, err)
		}
		plan.Units = units
		plan.FullResync = true
		fmt.Fprintln(s.Out, "No git changes detected. Converting every dump (--force).")
	} else if len(plan.Units) > 0 {
		fmt.Fprintf(s.Out, "Detected %d changed files.\n", len(plan.Units))
	}
	return plan, nil
}

// pruneStage forgets the results of dumps whose files were deleted.
func (s *IncrementalSync) pruneStage(ctx context.Context, dumps []string) error {
	if len(dumps) == 0 {
		return nil
	}
	for _, d := range dumps {
		s.Pipeline.unpublish(crawler.Unit{Dump: d})
	}
	if s.Store == nil {
		return nil
	}
	if err := s.Store.DeleteUnits(ctx, dumps); err != nil {
		return fmt.Errorf("failed to prune deleted units: %w", err)
	}
	fmt.Fprintf(s.Out, "Removed %d deleted files.\n", len(dumps))
	return nil
}
