package xopnum

// BunyanLevel is the numeric "level" written into Bunyan records.
type BunyanLevel int

// https://github.com/trentm/node-bunyan#levels
const (
	BunyanTrace BunyanLevel = 10
	BunyanDebug BunyanLevel = 20
	BunyanInfo  BunyanLevel = 30
	BunyanWarn  BunyanLevel = 40
	BunyanError BunyanLevel = 50
	BunyanFatal BunyanLevel = 60
)

// LevelMap converts host levels into Bunyan levels.  The numbers
// are part of the wire format: downstream Bunyan tooling filters on
// them, so a LevelMap should only be replaced deliberately.
type LevelMap map[Level]BunyanLevel

// DefaultLevelMap is the table from the Bunyan README.  AlertLevel
// becomes "fatal".
var DefaultLevelMap = LevelMap{
	TraceLevel: BunyanTrace,
	DebugLevel: BunyanDebug,
	InfoLevel:  BunyanInfo,
	WarnLevel:  BunyanWarn,
	ErrorLevel: BunyanError,
	AlertLevel: BunyanFatal,
}

// Bunyan looks up level.  Levels that aren't in the map are rounded
// down to the closest level that is.  Anything below every mapped level
// becomes BunyanTrace.
func (m LevelMap) Bunyan(level Level) BunyanLevel {
	if b, ok := m[level]; ok {
		return b
	}
	var (
		best  Level
		found bool
	)
	for l := range m {
		if l <= level && (!found || l > best) {
			best = l
			found = true
		}
	}
	if !found {
		return BunyanTrace
	}
	return m[best]
}

// Copy returns an independent LevelMap
func (m LevelMap) Copy() LevelMap {
	n := make(LevelMap, len(m))
	for k, v := range m {
		n[k] = v
	}
	return n
}
