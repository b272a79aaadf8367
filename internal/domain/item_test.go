package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStackItem(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	a := NewStackItem("hello", now)
	b := NewStackItem("hello", now)

	assert.Equal(t, "hello", a.Content)
	assert.Equal(t, now, a.CreatedAt)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "each item gets its own identifier")
}

func TestNamedSlot_Updated(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	later := created.Add(time.Minute)

	slot := NewNamedSlot("ticket", "v1", created)
	assert.Equal(t, created, slot.CreatedAt)
	assert.Equal(t, created, slot.UpdatedAt)

	updated := slot.Updated("v2", later)
	assert.Equal(t, "ticket", updated.Name)
	assert.Equal(t, "v2", updated.Content)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)

	// receiver is untouched
	assert.Equal(t, "v1", slot.Content)
}

func TestCheckContentSize(t *testing.T) {
	require.NoError(t, CheckContentSize(strings.Repeat("x", MaxContentSize)))

	err := CheckContentSize(strings.Repeat("x", MaxContentSize+1))
	var tooLarge *ContentTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, MaxContentSize+1, tooLarge.Size)
	assert.Equal(t, MaxContentSize, tooLarge.Max)

	// size is measured in UTF-8 bytes, not runes
	multiByte := strings.Repeat("é", MaxContentSize/2+1)
	assert.ErrorIs(t, CheckContentSize(multiByte), ErrContentTooLarge)
}

func TestValidateSlotName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"ticket", false},
		{"JIRA-123", false},
		{"my_slot_2", false},
		{"", true},
		{"../etc", true},
		{"a/b", true},
		{"with space", true},
		{"dot.json", true},
		{"ünï", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlotName(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSlotName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
