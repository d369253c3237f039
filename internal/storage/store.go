package storage

import (
	"context"
	"time"
)

type Status string

const (
	StatusConverted Status = "converted"
	StatusFailed    Status = "failed"
)

// Record is the last conversion result of one IR dump. Failed records keep
// the error and warnings but never printed output.
type Record struct {
	Path        string
	ContentHash string
	Printed     string
	Warnings    []string
	Status      Status
	Error       string
	UpdatedAt   time.Time
}

// Store combines unit persistence with lifecycle management.
type Store interface {
	UnitStore
	Close() error
}

// UnitStore defines operations for persisting conversion results.
type UnitStore interface {
	// SaveUnit upserts the record keyed by its path.
	SaveUnit(ctx context.Context, r *Record) error

	// GetUnit returns nil without error when path was never converted.
	GetUnit(ctx context.Context, path string) (*Record, error)

	// IsFresh reports whether path was already converted from content with
	// the given hash.
	IsFresh(ctx context.Context, path, hash string) (bool, error)

	ListUnits(ctx context.Context) ([]*Record, error)

	DeleteUnits(ctx context.Context, paths []string) error
}
