package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		want    string
		wantErr bool
	}{
		{name: "UTC", tz: "UTC", want: "UTC"},
		{name: "empty string defaults to UTC", tz: "", want: "UTC"},
		{name: "America/Los_Angeles", tz: "America/Los_Angeles", want: "America/Los_Angeles"},
		{name: "invalid timezone", tz: "Mars/Olympus", want: "UTC", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseTimezone(tt.tz)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NotNil(t, loc)
			assert.Equal(t, tt.want, loc.String())
			assert.Equal(t, !tt.wantErr, IsValidTimezone(tt.tz))
		})
	}
}

func TestLocalFormatting(t *testing.T) {
	la := LocationOrUTC("America/Los_Angeles")
	instant := time.Date(2026, 3, 3, 5, 30, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-02", LocalDate(instant, la))
	assert.Equal(t, "21:30", LocalClock(instant, la))
	assert.Equal(t, "2026-03-03", LocalDate(instant, nil))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, la), StartOfDay(instant, la))
	assert.Equal(t, time.UTC, LocationOrUTC("Nowhere/Special"))
}
