package wire

import "strconv"

// recordKeys are the channel keys the controller reports, one
// character each: drain voltage, drain current, SWR, reflected power,
// output power, temperature.
const recordKeys = "vcsrpt"

// recordSep separates the key from the value digits.
const recordSep = ".val="

// Record is a decoded state-update record. Raw is a non-negative
// integer in fixed-point tenths (125 means 12.5).
type Record struct {
	Key byte
	Raw int
}

// RecordStatus classifies a frame against the state-update shape
// <key>.val=<digits><terminator>.
type RecordStatus int

const (
	// RecordNone means the frame is not a state-update record.
	RecordNone RecordStatus = iota
	// RecordBad means the frame names a known channel but carries no
	// usable digits; it must be dropped, not relayed.
	RecordBad
	// RecordValue means a valid record was decoded.
	RecordValue
)

// ParseRecord decodes a state-update record from a frame.
func ParseRecord(f Frame) (Record, RecordStatus) {
	if !f.Terminated() {
		return Record{}, RecordNone
	}
	body := f.Command()
	if len(body) < 1+len(recordSep) || string(body[1:1+len(recordSep)]) != recordSep {
		return Record{}, RecordNone
	}
	key := body[0]
	if !validKey(key) {
		return Record{}, RecordNone
	}
	digits := body[1+len(recordSep):]
	if len(digits) == 0 {
		return Record{Key: key}, RecordBad
	}
	for _, b := range digits {
		if b < '0' || b > '9' {
			return Record{Key: key}, RecordBad
		}
	}
	raw, err := strconv.Atoi(string(digits))
	if err != nil {
		return Record{Key: key}, RecordBad
	}
	return Record{Key: key, Raw: raw}, RecordValue
}

func validKey(b byte) bool {
	for i := 0; i < len(recordKeys); i++ {
		if recordKeys[i] == b {
			return true
		}
	}
	return false
}
