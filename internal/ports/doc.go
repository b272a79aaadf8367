// Package ports defines the interfaces that connect the application layer to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [StackRepository]: reads and replaces the persisted stack
//   - [SlotRepository]: reads, writes, deletes and lists named slots
//   - [Store]: both repositories behind one storage root
//   - [TempSweeper]: removes temporary files abandoned by crashed writers
//   - [ChangeSource]: notifies when backing files change outside this process
//   - [OwnWriteFilter]: recognizes files still as this process last wrote them
//   - [Pasteboard]: the platform clipboard, sampled by the poller
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with the file
// system, fsnotify, the system clipboard and zerolog.
package ports
