// Package watch implements ports.ChangeSource for the handoff storage files.
//
// [Watcher] uses fsnotify on the storage root and the slot directory.
// [PollingWatcher] compares modification stamps on a fixed interval and is the
// fallback where native notification is unavailable. [NewSource] picks one
// according to a [Mode].
//
// All sources deliver notifications from a single goroutine per active
// observation, so a handler never runs concurrently with itself. Events that
// match this process's own last write (see ports.OwnWriteFilter) are dropped.
package watch
