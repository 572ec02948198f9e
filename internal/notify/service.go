package notify

import (
	"context"
	"fmt"

	"github.com/hellohealth/intake-platform/internal/patient"
	"github.com/hellohealth/intake-platform/pkg/logging"
)

// Service sends the appointment confirmation carrying the full record
// snapshot. Failure is reported as an error, never raised further; the
// finalization pipeline turns it into a typed outcome.
type Service struct {
	email           EmailSender
	backOfficeEmail string
	clinicName      string
	logger          *logging.Logger
}

// NewService creates a notification service. backOfficeEmail receives a copy
// of every confirmation; the patient receives one when an email was collected.
func NewService(email EmailSender, backOfficeEmail, clinicName string, logger *logging.Logger) *Service {
	if email == nil {
		panic("notify: email sender required")
	}
	if clinicName == "" {
		clinicName = "HelloHealth"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:           email,
		backOfficeEmail: backOfficeEmail,
		clinicName:      clinicName,
		logger:          logger,
	}
}

// SendConfirmation dispatches the appointment confirmation. The snapshot
// uses the resolved time, which at this point may differ from what the
// patient first asked for.
func (s *Service) SendConfirmation(ctx context.Context, rec *patient.Record, appt *patient.AppointmentRequest) error {
	subject := fmt.Sprintf("Appointment request confirmed - %s", rec.Name)
	body := fmt.Sprintf(`Thank you for calling %s. Here are the details of your appointment request, we look forward to seeing you!

Date and Time: %s %s
Physician: %s
Patient Name: %s
Date of Birth: %s
Insurance Payer: %s
Insurance ID: %s
Reason for Visit: %s
Address: %s
Phone Number: %s
Email: %s`,
		s.clinicName,
		appt.RequestedDate, appt.ResolvedTime,
		orUnassigned(appt.ResolvedPhysician),
		rec.Name,
		rec.DateOfBirth,
		rec.InsurancePayer,
		rec.InsuranceID,
		rec.VisitReason,
		rec.Address,
		rec.Phone,
		orNone(rec.Email),
	)

	recipients := make([]string, 0, 2)
	if s.backOfficeEmail != "" {
		recipients = append(recipients, s.backOfficeEmail)
	}
	if rec.Email != "" {
		recipients = append(recipients, rec.Email)
	}
	if len(recipients) == 0 {
		return fmt.Errorf("notify: no recipients for confirmation")
	}

	var failed int
	for _, to := range recipients {
		msg := EmailMessage{
			To:      to,
			ToName:  rec.Name,
			Subject: subject,
			Body:    body,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: confirmation send failed", "error", err, "to", to)
			failed++
			continue
		}
		s.logger.Info("notify: confirmation sent", "to", to)
	}

	// The booking is confirmed only if every recipient got the snapshot;
	// a partially delivered confirmation reads as not booked to the caller.
	if failed > 0 {
		return fmt.Errorf("notify: %d confirmation(s) failed", failed)
	}
	return nil
}

func orUnassigned(v string) string {
	if v == "" {
		return "first available"
	}
	return v
}

func orNone(v string) string {
	if v == "" {
		return "not provided"
	}
	return v
}
