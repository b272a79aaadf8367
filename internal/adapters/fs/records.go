package fs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/handoff/internal/domain"
)

// isoTime serializes as an ISO-8601 (RFC 3339) UTC timestamp with second
// precision. Parsing also accepts fractional seconds and offsets.
type isoTime time.Time

func (t isoTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339))
}

func (t *isoTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*t = isoTime(parsed)
	return nil
}

// stackRecord is the on-disk form of a stack item. Fields are in key order.
type stackRecord struct {
	Content   string    `json:"content"`
	CreatedAt isoTime   `json:"createdAt"`
	ID        uuid.UUID `json:"id"`
}

func (r stackRecord) toItem() domain.StackItem {
	return domain.StackItem{
		ID:        r.ID,
		Content:   r.Content,
		CreatedAt: time.Time(r.CreatedAt),
	}
}

func newStackRecord(item domain.StackItem) stackRecord {
	return stackRecord{
		Content:   item.Content,
		CreatedAt: isoTime(item.CreatedAt),
		ID:        item.ID,
	}
}

// slotRecord is the on-disk form of a named slot.
type slotRecord struct {
	Content   string  `json:"content"`
	CreatedAt isoTime `json:"createdAt"`
	Name      string  `json:"name"`
	UpdatedAt isoTime `json:"updatedAt"`
}

func (r slotRecord) toSlot() domain.NamedSlot {
	return domain.NamedSlot{
		Name:      r.Name,
		Content:   r.Content,
		CreatedAt: time.Time(r.CreatedAt),
		UpdatedAt: time.Time(r.UpdatedAt),
	}
}

func newSlotRecord(slot domain.NamedSlot) slotRecord {
	return slotRecord{
		Content:   slot.Content,
		CreatedAt: isoTime(slot.CreatedAt),
		Name:      slot.Name,
		UpdatedAt: isoTime(slot.UpdatedAt),
	}
}
