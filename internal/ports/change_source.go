package ports

// Scope identifies which part of the persisted state changed.
type Scope int

const (
	// ScopeStack means the stack file changed.
	ScopeStack Scope = iota
	// ScopeSlots means one or more slot files changed.
	ScopeSlots
)

// String returns a human-readable representation of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeStack:
		return "stack"
	case ScopeSlots:
		return "slots"
	default:
		return "unknown"
	}
}

// ChangeHandler is invoked once per detected change batch. A call is a signal
// to re-read the affected scope; it carries no description of the change.
type ChangeHandler func(scope Scope)

// ChangeSource observes the backing files and reports changes made by other
// processes.
type ChangeSource interface {
	// Start begins observation. Calling Start on an active source tears the
	// existing observation down and installs a fresh one.
	Start() error

	// Stop ends observation. Safe to call when not started.
	Stop()

	// Active reports whether the source is currently observing.
	Active() bool
}

// OwnWriteFilter tells a ChangeSource whether the file at path is in the
// state this process last left it in.
type OwnWriteFilter interface {
	IsOwnWrite(path string) bool
}
