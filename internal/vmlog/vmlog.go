// Package vmlog provides structured logging for the heap and garbage
// collector, built on github.com/tliron/commonlog with its simple
// backend registered for default output.
package vmlog

import (
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// Logger is the logging surface the heap/gc packages depend on. It is
// satisfied by commonlog.Logger; kept as a local alias so heap/gc code
// only imports this package, not commonlog directly.
type Logger = commonlog.Logger

var defaultLogger = commonlog.GetLogger("soupvm.heap")

// Get returns the package-wide logger used by the heap and collector.
func Get() Logger {
	return defaultLogger
}

// Named returns a sub-logger scoped to the given component name, e.g.
// "gc.scavenge" or "gc.markcompact".
func Named(name string) Logger {
	return commonlog.GetLogger("soupvm.heap." + name)
}
