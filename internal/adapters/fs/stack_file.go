package fs

import (
	"context"
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"

	"github.com/bft-labs/handoff/internal/domain"
)

// ReadStack loads the stack, newest first. A missing file is an empty stack.
func (s *Store) ReadStack(ctx context.Context) ([]domain.StackItem, error) {
	path := s.StackPath()
	if err := checkContext(ctx, "read stack", path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return []domain.StackItem{}, nil
		}
		return nil, &domain.StorageError{Op: "read stack", Target: path, Err: err}
	}

	var records []stackRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &domain.StorageError{Op: "decode stack", Target: path, Err: err}
	}

	items := make([]domain.StackItem, 0, len(records))
	for _, r := range records {
		items = append(items, r.toItem())
	}
	return items, nil
}

// WriteStack atomically replaces the stack file with items.
func (s *Store) WriteStack(ctx context.Context, items []domain.StackItem) error {
	path := s.StackPath()
	if err := checkContext(ctx, "write stack", path); err != nil {
		return err
	}
	if err := s.EnsureDirs(); err != nil {
		return err
	}

	records := make([]stackRecord, 0, len(items))
	for _, item := range items {
		records = append(records, newStackRecord(item))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "encode stack", Target: path, Err: err}
	}
	if err := writeFileAtomic(path, data, s.stageWrite(path)); err != nil {
		return &domain.StorageError{Op: "write stack", Target: path, Err: err}
	}
	return nil
}
