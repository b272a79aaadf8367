package cliconfig

import (
	"io"

	pkglog "github.com/bft-labs/handoff/pkg/log"
)

// Logger returns a zerolog console logger writing to w at the given level.
// Unknown level names fall back to warn; Validate has already rejected them
// for configured values.
func Logger(w io.Writer, level string) *pkglog.ZerologAdapter {
	lvl, err := pkglog.ParseLevel(level)
	if err != nil {
		lvl = pkglog.LevelWarn
	}
	return pkglog.NewZerologAdapter(w, lvl)
}
