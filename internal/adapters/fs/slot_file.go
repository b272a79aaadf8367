package fs

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bft-labs/handoff/internal/domain"
	"github.com/bft-labs/handoff/internal/ports"
)

// ReadSlot loads the slot stored under name. The boolean is false when the
// slot file does not exist.
func (s *Store) ReadSlot(ctx context.Context, name string) (domain.NamedSlot, bool, error) {
	path := s.slotPath(name)
	if err := checkContext(ctx, "read slot", path); err != nil {
		return domain.NamedSlot{}, false, err
	}

	slot, err := readSlotFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return domain.NamedSlot{}, false, nil
		}
		return domain.NamedSlot{}, false, &domain.StorageError{Op: "read slot", Target: path, Err: err}
	}
	return slot, true, nil
}

// WriteSlot atomically creates or replaces the file for slot.Name.
func (s *Store) WriteSlot(ctx context.Context, slot domain.NamedSlot) error {
	path := s.slotPath(slot.Name)
	if err := checkContext(ctx, "write slot", path); err != nil {
		return err
	}
	if err := s.EnsureDirs(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(newSlotRecord(slot), "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "encode slot", Target: path, Err: err}
	}
	if err := writeFileAtomic(path, data, s.stageWrite(path)); err != nil {
		return &domain.StorageError{Op: "write slot", Target: path, Err: err}
	}
	return nil
}

// DeleteSlot removes the slot file. Fails with *domain.SlotNotFoundError when
// there is no file for name.
func (s *Store) DeleteSlot(ctx context.Context, name string) error {
	path := s.slotPath(name)
	if err := checkContext(ctx, "delete slot", path); err != nil {
		return err
	}

	restore := s.setStamp(path, stamp{deleted: true})
	if err := os.Remove(path); err != nil {
		restore()
		if errors.Is(err, iofs.ErrNotExist) {
			return &domain.SlotNotFoundError{Name: name}
		}
		return &domain.StorageError{Op: "delete slot", Target: path, Err: err}
	}
	return nil
}

// ListSlots returns every readable slot, most recently updated first, ties
// broken by name. A slot file that cannot be read or decoded is logged and
// skipped so that one damaged file does not hide the rest.
func (s *Store) ListSlots(ctx context.Context) ([]domain.NamedSlot, error) {
	dir := s.NamedDir()
	if err := checkContext(ctx, "list slots", dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return []domain.NamedSlot{}, nil
		}
		return nil, &domain.StorageError{Op: "list slots", Target: dir, Err: err}
	}

	slots := make([]domain.NamedSlot, 0, len(entries))
	for _, e := range entries {
		if !IsSlotFile(e.Name()) || e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		slot, err := readSlotFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable slot file",
				ports.String("path", path),
				ports.Err(err))
			continue
		}
		if slot.Name == "" {
			slot.Name = strings.TrimSuffix(e.Name(), slotExt)
		}
		slots = append(slots, slot)
	}

	slices.SortFunc(slots, func(a, b domain.NamedSlot) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return slots, nil
}

// IsSlotFile reports whether a directory entry name looks like a slot file.
func IsSlotFile(name string) bool {
	return filepath.Ext(name) == slotExt && !strings.HasPrefix(name, ".")
}

func readSlotFile(path string) (domain.NamedSlot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.NamedSlot{}, err
	}
	var r slotRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.NamedSlot{}, err
	}
	return r.toSlot(), nil
}
