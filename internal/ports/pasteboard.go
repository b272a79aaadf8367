package ports

// Pasteboard is the platform clipboard as seen by the poller.
type Pasteboard interface {
	// ChangeCount returns a counter that increases whenever the clipboard
	// content changes. Equal values mean no change since the last sample.
	ChangeCount() (uint64, error)

	// ReadText returns the current clipboard text, or "" if there is none.
	ReadText() (string, error)
}
