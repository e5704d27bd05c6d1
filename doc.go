// Package levelgate holds the level type shared between the levelgate
// generator and the packages it generates constants for.
//
// A package opts in with a go:generate directive:
//
//	//go:generate go tool levelgate generate
//
// The generator resolves the filters in LEVELGATE_FILTERS for the package's
// import path and writes levelgate_gen.go:
//
//	const maxLogLevel = levelgate.Warn
//
//	const (
//		logErrorEnabled = maxLogLevel >= levelgate.Error
//		logWarnEnabled  = maxLogLevel >= levelgate.Warn
//		logInfoEnabled  = maxLogLevel >= levelgate.Info
//		logDebugEnabled = maxLogLevel >= levelgate.Debug
//		logTraceEnabled = maxLogLevel >= levelgate.Trace
//	)
//
// Guarding a call site with one of those constants lets the compiler drop the
// statement entirely:
//
//	if logDebugEnabled {
//		log.Debug("cache miss", zap.String("key", key))
//	}
//
// Filters look like "Warn; github.com/acme/app/internal/db=Trace; github.com/acme/vendored=Off".
// At most one entry may omit the prefix; it becomes the default. The longest
// matching prefix decides, textually (not by path segment). Level names are
// off, error, warn, info, debug and trace, matched case-insensitively, so
// "Warn", "WARN" and "warn" are the same level.
package levelgate
