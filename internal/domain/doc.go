// Package domain contains the core entities and rules of the handoff store.
//
// This package is the innermost layer. It has no dependencies on the file
// system, logging or the command line, and holds only the data model and the
// errors the rest of the system reports.
//
// # Entities
//
//   - [StackItem]: an immutable entry of the recency stack
//   - [NamedSlot]: a durable, named single-value store
//
// # Limits
//
// The stack holds at most [MaxStackSize] items and no item or slot may hold
// more than [MaxContentSize] bytes of UTF-8 text.
package domain
