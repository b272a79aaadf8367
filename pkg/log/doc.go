// Package log provides the logging abstraction used by handoff components.
//
// Library code logs through the [Logger] interface with typed [Field]s.
// [ZerologAdapter] backs it with zerolog; [NoopLogger] discards everything and
// is what tests and embedders get by default.
//
//	logger := log.NewZerologAdapter(os.Stderr, log.LevelInfo)
//	logger.Warn("skipping unreadable slot", log.String("path", p), log.Err(err))
package log
