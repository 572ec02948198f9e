// Package session owns the per-conversation state: one patient record and
// one appointment request, advanced through monotonic phases by exactly one
// in-flight operation at a time.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hellohealth/intake-platform/internal/patient"
)

// Phase is the conversation stage. It never regresses; Closed is terminal.
type Phase string

const (
	PhaseIntake     Phase = "intake"
	PhaseScheduling Phase = "scheduling"
	PhaseClosed     Phase = "closed"
)

var (
	// ErrNotFound is returned when a session id is unknown.
	ErrNotFound = errors.New("session: not found")

	// ErrPhaseRegression is returned by Advance on an out-of-order transition.
	ErrPhaseRegression = errors.New("session: phase cannot regress")
)

// Session is the unit of conversation state. It is owned by a single caller
// at a time; the Guard in this package enforces that for HTTP entrypoints.
type Session struct {
	ID          string                     `json:"id"`
	Phase       Phase                      `json:"phase"`
	Record      patient.Record             `json:"record"`
	Appointment patient.AppointmentRequest `json:"appointment"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// New opens a session in the Intake phase.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Phase:     PhaseIntake,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

var phaseOrder = map[Phase]int{PhaseIntake: 0, PhaseScheduling: 1, PhaseClosed: 2}

// Advance moves the session to the next phase. Transitions only move
// forward; advancing a closed session fails.
func (s *Session) Advance(next Phase) error {
	from, ok := phaseOrder[s.Phase]
	to, ok2 := phaseOrder[next]
	if !ok || !ok2 || to <= from {
		return fmt.Errorf("%w: %s -> %s", ErrPhaseRegression, s.Phase, next)
	}
	s.Phase = next
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Closed reports whether the session reached its terminal phase.
func (s *Session) Closed() bool { return s.Phase == PhaseClosed }
