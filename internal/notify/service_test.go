package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hellohealth/intake-platform/internal/patient"
)

type mockEmailSender struct {
	sent    []EmailMessage
	failOn  string // fail if To matches this
	callErr error
}

func (m *mockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if m.callErr != nil {
		return m.callErr
	}
	if m.failOn != "" && msg.To == m.failOn {
		return errors.New("mock email error")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func sampleBooking() (*patient.Record, *patient.AppointmentRequest) {
	rec := &patient.Record{
		Name:           "Jane Doe",
		DateOfBirth:    "03-05-1980",
		InsurancePayer: "Blue Shield",
		InsuranceID:    "BS-99881",
		VisitReason:    "annual physical",
		Address:        "12 Main St, Springfield",
		Phone:          "+1 415-555-2671",
		Email:          "jane@example.com",
	}
	appt := &patient.AppointmentRequest{
		Referral:          patient.ReferralYes,
		Physician:         "Dr. James Patel",
		RequestedDate:     "06-10-2025",
		RequestedTime:     "10:00",
		ResolvedTime:      "10:00",
		ResolvedPhysician: "Dr. James Patel",
	}
	return rec, appt
}

func TestSendConfirmationIncludesFullSnapshot(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, "frontdesk@hellohealth.example", "HelloHealth", nil)

	rec, appt := sampleBooking()
	if err := svc.SendConfirmation(context.Background(), rec, appt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected back office + patient email, got %d sends", len(sender.sent))
	}

	body := sender.sent[0].Body
	for _, want := range []string{
		"Jane Doe", "03-05-1980", "Blue Shield", "BS-99881",
		"annual physical", "12 Main St", "+1 415-555-2671",
		"Dr. James Patel", "06-10-2025 10:00",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("confirmation body missing %q:\n%s", want, body)
		}
	}
}

func TestSendConfirmationBackOfficeOnlyWithoutPatientEmail(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, "frontdesk@hellohealth.example", "HelloHealth", nil)

	rec, appt := sampleBooking()
	rec.Email = ""
	if err := svc.SendConfirmation(context.Background(), rec, appt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(sender.sent))
	}
	if sender.sent[0].To != "frontdesk@hellohealth.example" {
		t.Errorf("expected back office recipient, got %s", sender.sent[0].To)
	}
	if !strings.Contains(sender.sent[0].Body, "not provided") {
		t.Errorf("expected missing email marked as not provided")
	}
}

func TestSendConfirmationPartialFailureIsFailure(t *testing.T) {
	sender := &mockEmailSender{failOn: "jane@example.com"}
	svc := NewService(sender, "frontdesk@hellohealth.example", "HelloHealth", nil)

	rec, appt := sampleBooking()
	err := svc.SendConfirmation(context.Background(), rec, appt)
	if err == nil {
		t.Fatal("expected error when a recipient fails")
	}
}

func TestSendConfirmationNoRecipients(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, "", "HelloHealth", nil)

	rec, appt := sampleBooking()
	rec.Email = ""
	if err := svc.SendConfirmation(context.Background(), rec, appt); err == nil {
		t.Fatal("expected error with no recipients")
	}
}
