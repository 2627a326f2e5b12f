package reportdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_TextInputs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"canonical", "2024-03-15", "2024-03-15"},
		{"unpadded", "2024-3-5", "2024-03-05"},
		{"slashes", "2024/03/15", "2024-03-15"},
		{"surrounding whitespace", "  2024-12-31 ", "2024-12-31"},
		{"leap day", "2024-02-29", "2024-02-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Normalize(FromText(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestNormalize_Missing(t *testing.T) {
	for _, v := range []Value{{}, FromText(""), FromText("   "), FromPicker(time.Time{})} {
		_, err := Normalize(v)
		assert.ErrorIs(t, err, ErrMissing)
	}
}

func TestNormalize_Malformed(t *testing.T) {
	for _, in := range []string{"yesterday", "2024-13-01", "2023-02-29", "15/03/2024", "2024-03", "2024-03-15T10:00:00Z"} {
		_, err := Normalize(FromText(in))
		assert.ErrorIs(t, err, ErrMalformed, "input %q", in)
	}
}

func TestNormalize_PickerKeepsLocalCalendarDay(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC; the local day must win.
	loc := time.FixedZone("EST", -5*60*60)
	picked := time.Date(2024, time.March, 15, 23, 30, 0, 0, loc)

	d, err := Normalize(FromPicker(picked))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", d.String())

	east := time.FixedZone("JST", 9*60*60)
	early := time.Date(2024, time.March, 15, 0, 15, 0, 0, east)
	d, err = Normalize(FromPicker(early))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", d.String())
}

func TestNormalize_SameResultForBothSources(t *testing.T) {
	fromText, err := Normalize(FromText("2024-03-15"))
	require.NoError(t, err)
	fromPicker, err := Normalize(FromPicker(time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)))
	require.NoError(t, err)
	assert.Equal(t, fromText, fromPicker)
}

func TestNormalize_Idempotent(t *testing.T) {
	start := time.Date(2023, time.December, 25, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 500; i++ {
		d, err := Normalize(FromPicker(start.AddDate(0, 0, i)))
		require.NoError(t, err)
		again, err := Normalize(d.Value())
		require.NoError(t, err)
		assert.Equal(t, d, again)
	}
}

func TestDate_AddDays(t *testing.T) {
	d := Date{Year: 2024, Month: time.February, Day: 28}
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2024-02-27", d.AddDays(-1).String())
}

func TestMessage(t *testing.T) {
	_, err := Normalize(FromText(""))
	assert.Equal(t, "Select a date first.", Message(err))
	_, err = Normalize(FromText("nope"))
	assert.Equal(t, "Enter the date as YYYY-MM-DD.", Message(err))
	assert.Equal(t, "", Message(nil))
}
