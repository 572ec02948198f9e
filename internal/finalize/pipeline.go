// Package finalize orchestrates the end of a conversation: resolve the
// requested slot against the roster, announce any substitution, dispatch the
// confirmation, and close the session. Each step's failure is isolated and
// reported as a typed result; nothing here panics or retries on its own.
package finalize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hellohealth/intake-platform/internal/patient"
	"github.com/hellohealth/intake-platform/internal/roster"
	"github.com/hellohealth/intake-platform/internal/session"
	"github.com/hellohealth/intake-platform/pkg/logging"
)

// Result classifies one finalization attempt.
type Result string

const (
	// ResultSuccess: slot resolved, confirmation delivered, session closed.
	ResultSuccess Result = "success"
	// ResultNoAvailability: no open slot matched; the user should pick a
	// different date, time, or physician. A normal outcome, not an error.
	ResultNoAvailability Result = "no_availability"
	// ResultLookupFailed: the requested physician is unknown to the roster.
	ResultLookupFailed Result = "lookup_failed"
	// ResultNotifyFailed: the slot resolved but the confirmation could not
	// be dispatched; the appointment is treated as not booked.
	ResultNotifyFailed Result = "notify_failed"
)

// Outcome is what the conversation driver relays to the user.
type Outcome struct {
	Result            Result
	Message           string
	Rescheduled       bool
	AssignedTime      string
	AssignedPhysician string
}

// Resolver matches a requested time against physician availability.
type Resolver interface {
	Resolve(requestedTime, physician string) (*roster.Resolution, error)
}

// Notifier dispatches the confirmation carrying the record snapshot.
type Notifier interface {
	SendConfirmation(ctx context.Context, rec *patient.Record, appt *patient.AppointmentRequest) error
}

// NoticeSink receives the one-way "rescheduled to X" notice. Emitting it
// before dispatch is mandatory; silent substitution is forbidden.
type NoticeSink func(ctx context.Context, message string)

// Closer tears down the session transport. Best-effort: a close failure
// never changes the logical result.
type Closer func(ctx context.Context) error

// Pipeline wires the finalization collaborators.
type Pipeline struct {
	resolver Resolver
	notifier Notifier
	closer   Closer
	timeout  time.Duration
	logger   *logging.Logger
}

// New creates a pipeline. closer may be nil; timeout bounds each
// external call and defaults to 10s.
func New(resolver Resolver, notifier Notifier, closer Closer, timeout time.Duration, logger *logging.Logger) *Pipeline {
	if resolver == nil {
		panic("finalize: resolver required")
	}
	if notifier == nil {
		panic("finalize: notifier required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		resolver: resolver,
		notifier: notifier,
		closer:   closer,
		timeout:  timeout,
		logger:   logger,
	}
}

// Finalize runs one attempt for the session, delivering any reschedule
// notice through the supplied sink. It may be re-entered after the user
// supplies a new time (for instance when a reschedule was declined or there
// was no availability); prior record fields are never touched.
func (p *Pipeline) Finalize(ctx context.Context, s *session.Session, notice NoticeSink) Outcome {
	appt := &s.Appointment

	res, err := p.resolver.Resolve(appt.RequestedTime, appt.Physician)
	if err != nil {
		if errors.Is(err, roster.ErrUnknownPhysician) {
			p.logger.Warn("finalize: physician lookup failed", "session_id", s.ID, "physician", appt.Physician)
			return Outcome{
				Result:  ResultLookupFailed,
				Message: "I couldn't find that physician on our roster. Could we pick a different physician or time?",
			}
		}
		p.logger.Error("finalize: resolver failed", "session_id", s.ID, "error", err)
		return Outcome{
			Result:  ResultLookupFailed,
			Message: "I ran into a problem checking availability. Could we try a different date or time?",
		}
	}
	if res == nil {
		p.logger.Info("finalize: no availability", "session_id", s.ID, "requested_time", appt.RequestedTime)
		return Outcome{
			Result:  ResultNoAvailability,
			Message: "I'm sorry, there's no availability at that time. Would a different date, time, or physician work?",
		}
	}

	if res.Rescheduled {
		// The stored request follows the substitution so a later decline
		// re-enters with a genuinely new time, never the same slot again.
		appt.RequestedTime = res.Time
		if notice != nil {
			notice(ctx, fmt.Sprintf("The requested time wasn't open, so your appointment has been rescheduled to %s with %s.", res.Time, res.Physician))
		}
	}

	// Resolved fields are recorded before dispatch so a notification
	// failure leaves them available for a retry of the same attempt.
	appt.ResolvedTime = res.Time
	appt.ResolvedPhysician = res.Physician

	notifyCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.notifier.SendConfirmation(notifyCtx, &s.Record, appt); err != nil {
		p.logger.Error("finalize: confirmation dispatch failed", "session_id", s.ID, "error", err)
		return Outcome{
			Result:      ResultNotifyFailed,
			Message:     "I wasn't able to send your confirmation just now, so the appointment isn't booked yet. Please try again in a little while.",
			Rescheduled: res.Rescheduled,
		}
	}

	if err := s.Advance(session.PhaseClosed); err != nil {
		// The booking and notification already happened; log and move on.
		p.logger.Warn("finalize: could not mark session closed", "session_id", s.ID, "error", err)
	}
	if p.closer != nil {
		closeCtx, cancelClose := context.WithTimeout(ctx, p.timeout)
		defer cancelClose()
		if err := p.closer(closeCtx); err != nil {
			p.logger.Warn("finalize: transport close failed", "session_id", s.ID, "error", err)
		}
	}

	p.logger.Info("finalize: booked",
		"session_id", s.ID, "physician", res.Physician, "time", res.Time, "rescheduled", res.Rescheduled)
	return Outcome{
		Result:            ResultSuccess,
		Message:           fmt.Sprintf("You're all set for %s at %s with %s. Thank you for choosing HelloHealth. Goodbye!", appt.RequestedDate, res.Time, res.Physician),
		Rescheduled:       res.Rescheduled,
		AssignedTime:      res.Time,
		AssignedPhysician: res.Physician,
	}
}
