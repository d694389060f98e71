// Package enumlog provides opt-in, leveled logging for the enumeration
// engine: quiet by default, turned on with an environment variable or
// programmatically, on top of the standard log package.
package enumlog

import (
	"log"
	"os"
	"sync/atomic"
)

var debugEnabled atomic.Bool

func init() {
	if os.Getenv("PEPPERCORE_DEBUG") == "1" {
		debugEnabled.Store(true)
	}
}

// EnableDebug turns on Debugf output for the process. Tests and callers
// that want driver-internals visibility call this instead of setting the
// environment variable.
func EnableDebug() { debugEnabled.Store(true) }

// DisableDebug turns Debugf output back off.
func DisableDebug() { debugEnabled.Store(false) }

// Debugf logs a trace-level message, but only when debugging is enabled;
// these are the driver's per-pop, per-neighborhood internals and are far
// too noisy to print unconditionally.
func Debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	log.Printf("[enum] "+format, args...)
}

// Infof logs an unconditional informational message: resting macrostate
// counts, condensation summaries, that kind of thing.
func Infof(format string, args ...any) {
	log.Printf("[enum] "+format, args...)
}

// Warnf logs an unconditional warning: a dropped oversized reaction or a
// premature finish.
func Warnf(format string, args ...any) {
	log.Printf("[enum] WARN: "+format, args...)
}
