package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() *Roster {
	return New([]Physician{
		{Name: "Dr. Maria Hernandez", Slots: []string{"09:00", "10:00", "14:00"}},
		{Name: "Dr. James Patel", Slots: []string{"09:30", "14:00"}},
		{Name: "Dr. Sofia Rossi", Slots: nil},
	})
}

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"Dr. Maria Hernandez,09:00,10:00,14:00",
		"",
		",11:00",                       // missing name: skipped
		"Dr. James Patel,09:30,bad,14:00", // bad slot cell dropped, row kept
		"Dr. Sofia Rossi",              // no slots is fine
	}, "\n")

	r, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Maria Hernandez", "Dr. James Patel", "Dr. Sofia Rossi"}, r.Physicians())

	slots, ok := r.Slots("Dr. James Patel")
	require.True(t, ok)
	assert.Equal(t, []string{"09:30", "14:00"}, slots)

	slots, ok = r.Slots("Dr. Sofia Rossi")
	require.True(t, ok)
	assert.Empty(t, slots)

	_, ok = r.Slots("Dr. Nobody")
	assert.False(t, ok)
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("\n,\n"))
	assert.Error(t, err)
}

func TestTableSwap(t *testing.T) {
	table := NewTable(testRoster())
	assert.Equal(t, 3, table.Current().Len())

	replacement := New([]Physician{{Name: "Dr. Lee", Slots: []string{"08:00"}}})
	table.Swap(replacement)
	assert.Equal(t, []string{"Dr. Lee"}, table.Physicians())
}

func TestResolveExactMatch(t *testing.T) {
	r := NewResolver(NewTable(testRoster()))

	res, err := r.Resolve("10:00", "Dr. Maria Hernandez")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Dr. Maria Hernandez", res.Physician)
	assert.Equal(t, "10:00", res.Time)
	assert.False(t, res.Rescheduled)
}

func TestResolveNearestTieKeepsEarlierListed(t *testing.T) {
	table := NewTable(New([]Physician{
		{Name: "Dr. Maria Hernandez", Slots: []string{"09:00", "10:00"}},
	}))
	r := NewResolver(table)

	// 09:40 is 40 minutes from 09:00 and 20 from 10:00.
	res, err := r.Resolve("09:40", "Dr. Maria Hernandez")
	require.NoError(t, err)
	assert.Equal(t, "10:00", res.Time)
	assert.True(t, res.Rescheduled)

	// 09:30 is equidistant; the earlier-listed slot wins.
	res, err = r.Resolve("09:30", "Dr. Maria Hernandez")
	require.NoError(t, err)
	assert.Equal(t, "09:00", res.Time)
	assert.True(t, res.Rescheduled)
}

func TestResolveUnknownPhysician(t *testing.T) {
	r := NewResolver(NewTable(testRoster()))

	res, err := r.Resolve("10:00", "Dr. Nobody")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnknownPhysician)
}

func TestResolveEmptySlotSet(t *testing.T) {
	r := NewResolver(NewTable(testRoster()))

	res, err := r.Resolve("10:00", "Dr. Sofia Rossi")
	require.NoError(t, err)
	assert.Nil(t, res, "empty slot set is no availability, not an error")
}

func TestResolveAnyPhysicianScansInRosterOrder(t *testing.T) {
	r := NewResolver(NewTable(testRoster()))

	// 13:50 rounds to 14:00; both Hernandez and Patel have it, Hernandez is
	// listed first.
	res, err := r.Resolve("13:50", "")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Dr. Maria Hernandez", res.Physician)
	assert.Equal(t, "14:00", res.Time)
	assert.True(t, res.Rescheduled)
}

func TestResolveAnyPhysicianExactRoundedMatchNotRescheduled(t *testing.T) {
	r := NewResolver(NewTable(testRoster()))

	res, err := r.Resolve("09:30", "")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Dr. James Patel", res.Physician)
	assert.Equal(t, "09:30", res.Time)
	assert.False(t, res.Rescheduled)
}

func TestResolveNoAvailabilityAnywhere(t *testing.T) {
	r := NewResolver(NewTable(testRoster()))

	res, err := r.Resolve("03:00", "")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestResolveRejectsMalformedTime(t *testing.T) {
	r := NewResolver(NewTable(testRoster()))

	_, err := r.Resolve("2pm", "")
	assert.Error(t, err)
}

func TestRoundToNearestHalfHour(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"09:15", "09:30"}, // halves round up, pinned
		{"09:45", "10:00"}, // halves round up, pinned
		{"09:14", "09:00"},
		{"09:16", "09:30"},
		{"10:00", "10:00"},
		{"23:50", "00:00"}, // hour wraps at 24
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundToNearestHalfHour(tt.in), "input %s", tt.in)
	}
}
