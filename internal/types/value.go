package types

import "time"

// Value is the tagged union of typed property values the materializer (L8)
// can produce (spec.md §3 Value).
type Value struct {
	Type ValueType

	Bool    bool
	I16     int16
	I32     int32
	I64     int64
	F32     float32
	F64     float64
	Time    time.Time
	GUID    [16]byte
	Str     string
	Bin     []byte
	Multi   []Value
}

// FiletimeEpoch is 1601-01-01 00:00:00 UTC, the origin of FILETIME values
// (spec.md §3 Value, §4.8).
var FiletimeEpoch = time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)

// filetimeTicksPerSecond is the number of 100-ns ticks in one second.
const filetimeTicksPerSecond = 10_000_000

// FiletimeToTime converts a 100-ns-tick FILETIME value to a time.Time.
func FiletimeToTime(ticks uint64) time.Time {
	seconds := int64(ticks / filetimeTicksPerSecond)
	remainder := int64(ticks % filetimeTicksPerSecond)
	return time.Unix(FiletimeEpoch.Unix()+seconds, remainder*100).UTC()
}

// TimeToFiletime converts a time.Time back into 100-ns ticks since the
// FILETIME epoch.
func TimeToFiletime(t time.Time) uint64 {
	seconds := t.Unix() - FiletimeEpoch.Unix()
	return uint64(seconds)*filetimeTicksPerSecond + uint64(t.Nanosecond()/100)
}
