// Package rblog provides leveled logging for the rbdb codec.
//
// It mirrors the logging shape used throughout the codec's ambient tooling:
// a package-level verbosity switch plus Info/Warn/Error/Debug helpers on top
// of the standard log package.
package rblog

import "log"

// Verbose controls whether Debug messages are emitted. CLI entry points set
// this from a -v flag; library code never toggles it itself.
var Verbose = false

// SetVerbose enables or disables debug-level logging.
func SetVerbose(v bool) {
	Verbose = v
}

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+format, args...)
	} else {
		log.Printf("[INFO] %s", format)
	}
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[WARN] "+format, args...)
	} else {
		log.Printf("[WARN] %s", format)
	}
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+format, args...)
	} else {
		log.Printf("[ERROR] %s", format)
	}
}

// Debug logs a debug message, only when Verbose is enabled.
func Debug(format string, args ...interface{}) {
	if !Verbose {
		return
	}
	if len(args) > 0 {
		log.Printf("[DEBUG] "+format, args...)
	} else {
		log.Printf("[DEBUG] %s", format)
	}
}
