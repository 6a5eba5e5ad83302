package derived

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const unboundedText = "unbounded"

// ROAS is either a finite return on ad spend or Unbounded, the value for
// revenue earned without any tracked spend. Callers doing arithmetic must
// go through Float or Capped.
type ROAS struct {
	value     float64
	unbounded bool
}

// Unbounded is the ROAS of positive revenue at zero spend.
var Unbounded = ROAS{unbounded: true}

// Finite wraps a regular ratio.
func Finite(v float64) ROAS {
	return ROAS{value: v}
}

// IsUnbounded reports whether r is the Unbounded variant.
func (r ROAS) IsUnbounded() bool { return r.unbounded }

// Float returns the finite value; ok is false for Unbounded.
func (r ROAS) Float() (v float64, ok bool) {
	if r.unbounded {
		return 0, false
	}
	return r.value, true
}

// Capped returns the finite value, or limit for Unbounded.
func (r ROAS) Capped(limit float64) float64 {
	if r.unbounded {
		return limit
	}
	return r.value
}

// Less orders finite values numerically, below Unbounded.
func (r ROAS) Less(o ROAS) bool {
	switch {
	case r.unbounded:
		return false
	case o.unbounded:
		return true
	default:
		return r.value < o.value
	}
}

// Below reports whether r is finite and strictly below floor.
func (r ROAS) Below(floor float64) bool {
	return !r.unbounded && r.value < floor
}

func (r ROAS) String() string {
	if r.unbounded {
		return unboundedText
	}
	return strconv.FormatFloat(r.value, 'f', 2, 64)
}

// MarshalJSON encodes a number, or the string "unbounded".
func (r ROAS) MarshalJSON() ([]byte, error) {
	if r.unbounded {
		return []byte(`"` + unboundedText + `"`), nil
	}
	return json.Marshal(r.value)
}

// UnmarshalJSON accepts what MarshalJSON produces.
func (r *ROAS) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte(`"`+unboundedText+`"`)) {
		*r = Unbounded
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("roas: %w", err)
	}
	*r = Finite(v)
	return nil
}
