// Package log provides the logger adapters wired into the application layer.
package log

import (
	"github.com/bft-labs/handoff/internal/ports"
	pkglog "github.com/bft-labs/handoff/pkg/log"
)

// NewNoopLogger returns a logger that discards all messages.
func NewNoopLogger() ports.Logger {
	return pkglog.NewNoopLogger()
}
