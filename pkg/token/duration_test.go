package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hseal/pkg/token"
)

func TestDuration_Resolve(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      token.Duration
		want    int64
		wantErr bool
	}{
		{"seconds", token.Seconds(42), 42, false},
		{"zero seconds", token.Seconds(0), 0, false},
		{"digits", token.DurationString("3600"), 3600, false},
		{"padded digits", token.DurationString("  15 "), 15, false},
		{"s", token.DurationString("30s"), 30, false},
		{"m", token.DurationString("15m"), 900, false},
		{"h", token.DurationString("2h"), 7200, false},
		{"d", token.DurationString("1d"), 86400, false},
		{"upper unit", token.DurationString("5M"), 300, false},
		{"space before unit", token.DurationString("10 s"), 10, false},
		{"surrounding space", token.DurationString(" 1h "), 3600, false},
		{"empty", token.DurationString(""), 0, true},
		{"unit only", token.DurationString("h"), 0, true},
		{"unknown unit", token.DurationString("1w"), 0, true},
		{"fraction", token.DurationString("1.5h"), 0, true},
		{"negative", token.DurationString("-1s"), 0, true},
		{"compound", token.DurationString("1h30m"), 0, true},
		{"go syntax", token.DurationString("1h0m0s"), 0, true},
		{"overflow", token.DurationString("99999999999999999999"), 0, true},
		{"too many days", token.DurationString("99999999999d"), 0, true},
		{"too many seconds", token.Seconds(1 << 41), 0, true},
		{"unset", token.Duration{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.in.Resolve()
			if tt.wantErr {
				require.ErrorIs(t, err, token.ErrMalformedToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDuration_Helpers(t *testing.T) {
	t.Parallel()

	assert.True(t, token.Duration{}.IsZero())
	assert.False(t, token.Seconds(0).IsZero())
	assert.Equal(t, "90s", token.Seconds(90).String())
	assert.Equal(t, "15m", token.DurationString("15m").String())

	d, err := token.DurationString("2m").Std()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	_, err = token.DurationString("110000d").Std()
	require.ErrorIs(t, err, token.ErrMalformedToken)

	got, err := token.FromDuration(90*time.Second + 500*time.Millisecond).Resolve()
	require.NoError(t, err)
	assert.Equal(t, int64(90), got)

	got, err = token.FromDuration(-time.Hour).Resolve()
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}
