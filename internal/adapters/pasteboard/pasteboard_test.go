package pasteboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) read() (string, error) { return f.text, f.err }

func newFake(text string) (*System, *fakeClipboard) {
	fc := &fakeClipboard{text: text}
	return &System{read: fc.read}, fc
}

func TestSystem_ChangeCount(t *testing.T) {
	s, fc := newFake("a")

	first, err := s.ChangeCount()
	require.NoError(t, err)

	again, err := s.ChangeCount()
	require.NoError(t, err)
	assert.Equal(t, first, again, "unchanged content keeps the counter")

	fc.text = "b"
	next, err := s.ChangeCount()
	require.NoError(t, err)
	assert.Greater(t, next, first)

	fc.text = "a"
	back, err := s.ChangeCount()
	require.NoError(t, err)
	assert.Greater(t, back, next, "returning to earlier content is still a change")
}

func TestSystem_ChangeCountError(t *testing.T) {
	s, fc := newFake("a")
	_, err := s.ChangeCount()
	require.NoError(t, err)

	fc.err = errors.New("xclip missing")
	_, err = s.ChangeCount()
	assert.Error(t, err)

	fc.err = nil
	count, err := s.ChangeCount()
	require.NoError(t, err)
	assert.Zero(t, count, "a failed sample is not a change")
}

func TestSystem_ReadText(t *testing.T) {
	s, _ := newFake("hello")

	got, err := s.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestHeadless(t *testing.T) {
	var h Headless
	count, err := h.ChangeCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	text, err := h.ReadText()
	require.NoError(t, err)
	assert.Empty(t, text)
}
