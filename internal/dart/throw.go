// Package dart turns raw board input into canonical throw records.
package dart

import (
	"fmt"
	"strconv"
	"strings"
)

// Bull is the base value of both bull segments.
const Bull = 25

// SegmentMiss labels a dart that scored nothing.
const SegmentMiss = "MISS"

// Throw is the canonical record of one dart.
//
// Points defaults to Base*Multiplier; game modes overwrite it with their own
// scoring convention before the throw is recorded.
type Throw struct {
	Segment    string `json:"segment"`
	Base       int    `json:"base"`
	Multiplier int    `json:"multiplier"`
	Points     int    `json:"points"`
	IsMiss     bool   `json:"isMiss"`
}

// Miss returns the canonical miss record.
func Miss() Throw {
	return Throw{Segment: SegmentMiss, IsMiss: true}
}

// New builds a throw from a base and multiplier. Impossible combinations
// (T25, base outside 1..20/25, multiplier outside 1..3) become a miss.
func New(base, multiplier int) Throw {
	if !valid(base, multiplier) {
		return Miss()
	}
	return Throw{
		Segment:    label(base, multiplier),
		Base:       base,
		Multiplier: multiplier,
		Points:     base * multiplier,
	}
}

// Value is the plain board value of the dart, independent of any mode.
func (t Throw) Value() int {
	if t.IsMiss {
		return 0
	}
	return t.Base * t.Multiplier
}

func (t Throw) IsDouble() bool { return !t.IsMiss && t.Multiplier == 2 }
func (t Throw) IsTriple() bool { return !t.IsMiss && t.Multiplier == 3 }
func (t Throw) IsBull() bool   { return !t.IsMiss && t.Base == Bull }

func (t Throw) String() string { return t.Segment }

func valid(base, multiplier int) bool {
	switch {
	case base == Bull:
		return multiplier == 1 || multiplier == 2
	case base >= 1 && base <= 20:
		return multiplier >= 1 && multiplier <= 3
	}
	return false
}

func label(base, multiplier int) string {
	prefix := "S"
	switch multiplier {
	case 2:
		prefix = "D"
	case 3:
		prefix = "T"
	}
	return prefix + strconv.Itoa(base)
}

// SensorRecord is the structured shape produced by an automatic scoring feed.
type SensorRecord struct {
	Segment    string `json:"segment,omitempty"`
	Base       int    `json:"base"`
	Multiplier int    `json:"multiplier"`
}

// Normalize converts any supported raw input into a Throw. Anything it does
// not recognise is a miss so a noisy feed never stalls the game.
//
// Supported inputs: "S20"/"D20"/"T20", "20" (single), "25"/"50" and the
// named bulls, "MISS"/"M"/"0"/"", plain ints with the same meaning as their
// string form, SensorRecord, Throw, and JSON-decoded maps carrying
// "base"/"multiplier" or "segment".
func Normalize(raw any) Throw {
	switch v := raw.(type) {
	case nil:
		return Miss()
	case Throw:
		if v.IsMiss {
			return Miss()
		}
		return New(v.Base, v.Multiplier)
	case *Throw:
		if v == nil {
			return Miss()
		}
		return Normalize(*v)
	case SensorRecord:
		return fromRecord(v)
	case *SensorRecord:
		if v == nil {
			return Miss()
		}
		return fromRecord(*v)
	case string:
		return Parse(v)
	case int:
		return fromNumber(v)
	case int64:
		return fromNumber(int(v))
	case float64:
		if v != float64(int(v)) {
			return Miss()
		}
		return fromNumber(int(v))
	case map[string]any:
		return fromMap(v)
	}
	return Miss()
}

// Parse reads a symbolic segment code.
func Parse(code string) Throw {
	s := strings.ToUpper(strings.TrimSpace(code))
	switch s {
	case "", SegmentMiss, "M", "0", "OUT":
		return Miss()
	case "BULL", "SB", "OB", "SBULL":
		return New(Bull, 1)
	case "DB", "DBULL", "BULLSEYE", "IB":
		return New(Bull, 2)
	}

	multiplier := 1
	switch s[0] {
	case 'S':
		s = s[1:]
	case 'D':
		multiplier = 2
		s = s[1:]
	case 'T':
		multiplier = 3
		s = s[1:]
	default:
		// bare numbers: 25 and 50 name the bull segments
		n, err := strconv.Atoi(s)
		if err != nil {
			return Miss()
		}
		return fromNumber(n)
	}

	base, err := strconv.Atoi(s)
	if err != nil {
		return Miss()
	}
	return New(base, multiplier)
}

func fromNumber(n int) Throw {
	switch {
	case n == 50:
		return New(Bull, 2)
	case n == Bull:
		return New(Bull, 1)
	case n >= 1 && n <= 20:
		return New(n, 1)
	}
	return Miss()
}

func fromRecord(r SensorRecord) Throw {
	if r.Base == 0 && r.Multiplier == 0 && r.Segment != "" {
		return Parse(r.Segment)
	}
	if r.Base == 50 && r.Multiplier == 1 {
		return New(Bull, 2)
	}
	return New(r.Base, r.Multiplier)
}

func fromMap(m map[string]any) Throw {
	if miss, ok := m["isMiss"].(bool); ok && miss {
		return Miss()
	}
	base, hasBase := number(m["base"])
	mult, hasMult := number(m["multiplier"])
	if hasBase && hasMult {
		return fromRecord(SensorRecord{Base: base, Multiplier: mult})
	}
	if seg, ok := m["segment"].(string); ok {
		return Parse(seg)
	}
	return Miss()
}

func number(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), n == float64(int(n))
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// MustParse is Parse for fixtures; it panics on codes that parse to a miss
// unless the code itself names a miss.
func MustParse(code string) Throw {
	t := Parse(code)
	if t.IsMiss && !strings.EqualFold(strings.TrimSpace(code), SegmentMiss) {
		panic(fmt.Sprintf("dart: invalid segment code %q", code))
	}
	return t
}
