package token

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// maxSeconds bounds resolved durations so exp/nbf arithmetic cannot overflow.
const maxSeconds = 1 << 40

var durationPattern = regexp.MustCompile(`^(\d+)\s*([smhdSMHD])$`)

type durationKind uint8

const (
	durationUnset durationKind = iota
	durationSeconds
	durationText
)

// Duration is a relative time span given either as whole seconds or as a
// "<number><unit>" string with unit s, m, h or d. Bare digit strings are
// seconds. The zero Duration is unset, which lets callers fall back to defaults.
type Duration struct {
	kind    durationKind
	seconds uint64
	text    string
}

// Seconds returns a Duration of n seconds.
func Seconds(n uint64) Duration {
	return Duration{kind: durationSeconds, seconds: n}
}

// DurationString returns a Duration parsed lazily from s, e.g. "15m" or "3600".
func DurationString(s string) Duration {
	return Duration{kind: durationText, text: s}
}

// FromDuration converts d to whole seconds. Negative values clamp to zero.
func FromDuration(d time.Duration) Duration {
	if d < 0 {
		d = 0
	}
	return Seconds(uint64(d / time.Second))
}

// IsZero reports whether the Duration is unset.
func (d Duration) IsZero() bool {
	return d.kind == durationUnset
}

func (d Duration) String() string {
	switch d.kind {
	case durationSeconds:
		return strconv.FormatUint(d.seconds, 10) + "s"
	case durationText:
		return d.text
	}
	return ""
}

// Resolve returns the span in seconds. Unparsable input fails with ErrMalformedToken.
func (d Duration) Resolve() (int64, error) {
	switch d.kind {
	case durationSeconds:
		if d.seconds > maxSeconds {
			return 0, fmt.Errorf("%w: duration %d seconds is too large", ErrMalformedToken, d.seconds)
		}
		return int64(d.seconds), nil
	case durationText:
		return parseDuration(d.text)
	}
	return 0, fmt.Errorf("%w: duration is not set", ErrMalformedToken)
}

// Std returns the resolved span as a time.Duration. Spans too long for a
// time.Duration (about 292 years) fail with ErrMalformedToken.
func (d Duration) Std() (time.Duration, error) {
	n, err := d.Resolve()
	if err != nil {
		return 0, err
	}
	if n > int64(math.MaxInt64/time.Second) {
		return 0, fmt.Errorf("%w: duration %d seconds overflows time.Duration", ErrMalformedToken, n)
	}
	return time.Duration(n) * time.Second, nil
}

func (d Duration) or(fallback Duration) Duration {
	if d.IsZero() {
		return fallback
	}
	return d
}

func parseDuration(input string) (int64, error) {
	s := strings.TrimSpace(input)

	unit := uint64(1)
	digits := s
	if !isDigits(s) {
		m := durationPattern.FindStringSubmatch(s)
		if m == nil {
			return 0, fmt.Errorf("%w: invalid duration format %q", ErrMalformedToken, input)
		}
		digits = m[1]
		switch strings.ToLower(m[2]) {
		case "s":
			unit = 1
		case "m":
			unit = 60
		case "h":
			unit = 3600
		case "d":
			unit = 86400
		}
	}

	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n > maxSeconds/unit {
		return 0, fmt.Errorf("%w: duration %q is out of range", ErrMalformedToken, input)
	}
	return int64(n * unit), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
