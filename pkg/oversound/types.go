package oversound

import (
	"math"
	"strconv"
	"strings"
)

// Price is a non-negative finite amount. Decoding never fails: numbers and
// numeric strings are accepted, anything else becomes 0.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	*p = 0
	s := strings.TrimSpace(string(data))
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	*p = Price(v)
	return nil
}

func (p Price) Float64() float64 { return float64(p) }

// NullInt is an optional integer field such as duration or albumOrder.
// Numbers are truncated, integer strings are parsed, anything else is absent.
type NullInt struct {
	Int   int
	Valid bool
}

func Int(v int) NullInt { return NullInt{Int: v, Valid: true} }

func (n *NullInt) UnmarshalJSON(data []byte) error {
	*n = NullInt{}
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(unq)); err == nil {
			*n = Int(i)
		}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*n = Int(int(f))
	return nil
}

func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(n.Int)), nil
}

// Or returns the value, or def when absent.
func (n NullInt) Or(def int) int {
	if !n.Valid {
		return def
	}
	return n.Int
}
