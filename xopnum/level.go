// xopnum provides the level constants shared by hosts and the Bunyan layer
package xopnum

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Level is the host-side severity of a span or event.
type Level int32

const (
	// Open Telemetry puts tracing as lower level than debugging.  We don't:
	// TRACE is the most verbose level, as it is for tracing subscribers and
	// for Bunyan.
	TraceLevel Level = 2  // trace
	DebugLevel Level = 5  // debug
	InfoLevel  Level = 9  // info
	WarnLevel  Level = 13 // warn
	ErrorLevel Level = 17 // error
	AlertLevel Level = 20 // alert
)

const MaxLevel = AlertLevel

var levelNames = map[Level]string{
	TraceLevel: "trace",
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
	AlertLevel: "alert",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

// LevelString parses the names produced by Level.String().  "fatal" is
// accepted as an alias for AlertLevel.
func LevelString(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "fatal" {
		return AlertLevel, nil
	}
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return 0, errors.Errorf("%q is not a valid level", s)
}
