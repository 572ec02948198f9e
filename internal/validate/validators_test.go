package validate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = func() time.Time {
	// A Friday.
	return time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC)
}

func TestPhone(t *testing.T) {
	fn := Phone("US")
	ctx := context.Background()

	tests := []struct {
		name       string
		raw        string
		accepted   bool
		normalized string
	}{
		{"ten digit US", "415 555 2671", true, "+1 415-555-2671"},
		{"already international", "+14155552671", true, "+1 415-555-2671"},
		{"too short", "555-1234", false, ""},
		{"not a number", "call me maybe", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := fn(ctx, tt.raw)
			assert.Equal(t, tt.accepted, out.Accepted)
			if tt.accepted {
				assert.Equal(t, tt.normalized, out.Normalized)
			} else {
				assert.NotEmpty(t, out.Reason)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	fn := Email()
	ctx := context.Background()

	out := fn(ctx, " Jane.Doe@Example.COM ")
	assert.True(t, out.Accepted)
	assert.Equal(t, "jane.doe@example.com", out.Normalized)

	for _, raw := range []string{"not-an-email", "jane@", "@example.com", "jane@localhost"} {
		out := fn(ctx, raw)
		assert.False(t, out.Accepted, "expected rejection for %q", raw)
	}
}

func TestDateOfBirth(t *testing.T) {
	fn := DateOfBirth()
	ctx := context.Background()

	tests := []struct {
		raw        string
		accepted   bool
		normalized string
	}{
		{"03/05/1980", true, "03-05-1980"},
		{"March 5, 1980", true, "03-05-1980"},
		{"1980-03-05", true, "03-05-1980"},
		{"01/01/2107", false, ""}, // future
		{"yesterday-ish", false, ""},
	}
	for _, tt := range tests {
		out := fn(ctx, tt.raw)
		assert.Equal(t, tt.accepted, out.Accepted, "raw %q", tt.raw)
		if tt.accepted {
			assert.Equal(t, tt.normalized, out.Normalized)
		}
	}
}

func TestAppointmentDateRelative(t *testing.T) {
	fn := AppointmentDate(fixedNow)
	ctx := context.Background()

	out := fn(ctx, "next Tuesday")
	assert.True(t, out.Accepted)
	assert.Equal(t, "06-10-2025", out.Normalized)

	out = fn(ctx, "whenever")
	assert.False(t, out.Accepted)
}

func TestAppointmentTime(t *testing.T) {
	fn := AppointmentTime(fixedNow)
	ctx := context.Background()

	out := fn(ctx, "2pm")
	assert.True(t, out.Accepted)
	assert.Equal(t, "14:00", out.Normalized)

	out = fn(ctx, "10:30")
	assert.True(t, out.Accepted)
	assert.Equal(t, "10:30", out.Normalized)

	out = fn(ctx, "soonish")
	assert.False(t, out.Accepted)
}

func TestNonEmpty(t *testing.T) {
	fn := NonEmpty("insurance ID")
	ctx := context.Background()

	out := fn(ctx, "  ABC-123  ")
	assert.True(t, out.Accepted)
	assert.Equal(t, "ABC-123", out.Normalized)

	out = fn(ctx, "   ")
	assert.False(t, out.Accepted)
	assert.Contains(t, out.Reason, "insurance ID")
}

func TestSafeConvertsPanic(t *testing.T) {
	fn := Safe(func(ctx context.Context, raw string) Outcome {
		panic("validator exploded")
	})
	out := fn(context.Background(), "anything")
	assert.False(t, out.Accepted)
	assert.NotEmpty(t, out.Reason)
}

func TestPhysician(t *testing.T) {
	roster := func() []string {
		return []string{"Dr. Maria Hernandez", "Dr. James Patel", "Dr. Sofia Rossi"}
	}
	fn := Physician(roster)
	ctx := context.Background()

	tests := []struct {
		name     string
		raw      string
		accepted bool
		want     string
	}{
		{"exact with honorific", "Dr. James Patel", true, "Dr. James Patel"},
		{"surname only", "Patel", true, "Dr. James Patel"},
		{"case insensitive", "maria hernandez", true, "Dr. Maria Hernandez"},
		{"transcription slip", "Dr. Patell", true, "Dr. James Patel"},
		{"unknown", "Dr. Nobody", false, ""},
		{"honorific only", "Dr.", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := fn(ctx, tt.raw)
			assert.Equal(t, tt.accepted, out.Accepted)
			if tt.accepted {
				assert.Equal(t, tt.want, out.Normalized)
			} else {
				assert.Equal(t, roster(), out.Alternatives)
			}
		})
	}
}
