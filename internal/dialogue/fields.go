package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/hellohealth/intake-platform/internal/patient"
	"github.com/hellohealth/intake-platform/internal/session"
	"github.com/hellohealth/intake-platform/internal/validate"
)

// Field identifies one collectable slot of the structured record.
type Field string

const (
	FieldName           Field = "name"
	FieldDateOfBirth    Field = "date_of_birth"
	FieldInsurancePayer Field = "insurance_payer"
	FieldInsuranceID    Field = "insurance_id"
	FieldVisitReason    Field = "visit_reason"
	FieldAddress        Field = "address"
	FieldPhone          Field = "phone"
	FieldEmail          Field = "email"
	FieldHasReferral    Field = "has_referral"
	FieldPhysician      Field = "physician"
	FieldDate           Field = "date"
	FieldTime           Field = "time"
	// FieldConfirm carries the explicit yes/no answer to the summary.
	FieldConfirm Field = "confirm"
)

// fieldSpec declares one slot of a phase: how to validate it, where it lives
// on the session, and when it is required. Requirement is re-evaluated on
// every submission so conditional rules never go stale.
type fieldSpec struct {
	field     Field
	prompt    string
	validator validate.Func
	get       func(s *session.Session) string
	set       func(s *session.Session, v string)
	required  func(s *session.Session) bool
}

// phaseTable is the declared field set of one conversation phase.
type phaseTable struct {
	phase     session.Phase
	entry     string // instruction spoken when the phase begins
	fields    []fieldSpec
	summary   func(s *session.Session) string
	advanceTo Target
}

func intakeTable(phoneRegion string) phaseTable {
	req := func(*session.Session) bool { return true }
	opt := func(*session.Session) bool { return false }
	return phaseTable{
		phase: session.PhaseIntake,
		entry: "Introduce yourself as the HelloHealth appointment scheduling assistant and explain that you need some patient information to schedule their appointment.",
		fields: []fieldSpec{
			{
				field:     FieldName,
				prompt:    "Could I have your full legal name?",
				validator: validate.NonEmpty("name"),
				get:       func(s *session.Session) string { return s.Record.Name },
				set:       func(s *session.Session, v string) { s.Record.Name = v },
				required:  req,
			},
			{
				field:     FieldDateOfBirth,
				prompt:    "What is your date of birth?",
				validator: validate.DateOfBirth(),
				get:       func(s *session.Session) string { return s.Record.DateOfBirth },
				set:       func(s *session.Session, v string) { s.Record.DateOfBirth = v },
				required:  req,
			},
			{
				field:     FieldInsurancePayer,
				prompt:    "Who is your insurance payer?",
				validator: validate.NonEmpty("insurance payer"),
				get:       func(s *session.Session) string { return s.Record.InsurancePayer },
				set:       func(s *session.Session, v string) { s.Record.InsurancePayer = v },
				required:  req,
			},
			{
				field:     FieldInsuranceID,
				prompt:    "What is your insurance ID or policy number?",
				validator: validate.NonEmpty("insurance ID"),
				get:       func(s *session.Session) string { return s.Record.InsuranceID },
				set:       func(s *session.Session, v string) { s.Record.InsuranceID = v },
				required:  req,
			},
			{
				field:     FieldVisitReason,
				prompt:    "What is the reason for your visit?",
				validator: validate.NonEmpty("reason for the visit"),
				get:       func(s *session.Session) string { return s.Record.VisitReason },
				set:       func(s *session.Session, v string) { s.Record.VisitReason = v },
				required:  req,
			},
			{
				field:     FieldAddress,
				prompt:    "What is your home address?",
				validator: validate.NonEmpty("address"),
				get:       func(s *session.Session) string { return s.Record.Address },
				set:       func(s *session.Session, v string) { s.Record.Address = v },
				required:  req,
			},
			{
				field:     FieldPhone,
				prompt:    "What is the best phone number to reach you?",
				validator: validate.Phone(phoneRegion),
				get:       func(s *session.Session) string { return s.Record.Phone },
				set:       func(s *session.Session, v string) { s.Record.Phone = v },
				required:  req,
			},
			{
				field:     FieldEmail,
				prompt:    "Could I also get an email address? It's optional but recommended.",
				validator: validate.Email(),
				get:       func(s *session.Session) string { return s.Record.Email },
				set:       func(s *session.Session, v string) { s.Record.Email = v },
				required:  opt,
			},
		},
		summary: func(s *session.Session) string {
			return "Here's what I have so far:\n" + s.Record.Summary() +
				"\nIs everything correct?"
		},
		advanceTo: TargetScheduling,
	}
}

func schedulingTable(rosterNames func() []string, clock validate.Clock) phaseTable {
	req := func(*session.Session) bool { return true }
	return phaseTable{
		phase: session.PhaseScheduling,
		entry: "Thank them for the info and now find out their preferred appointment date and time.",
		fields: []fieldSpec{
			{
				field:     FieldHasReferral,
				prompt:    "Were you referred to one of our physicians?",
				validator: yesNo("referral"),
				get: func(s *session.Session) string {
					switch s.Appointment.Referral {
					case patient.ReferralYes:
						return "yes"
					case patient.ReferralNo:
						return "no"
					}
					return ""
				},
				set: func(s *session.Session, v string) {
					if v == "yes" {
						s.Appointment.Referral = patient.ReferralYes
					} else {
						s.Appointment.Referral = patient.ReferralNo
						s.Appointment.Physician = ""
					}
				},
				required: req,
			},
			{
				field:     FieldPhysician,
				prompt:    "Which physician were you referred to?",
				validator: validate.Physician(rosterNames),
				get:       func(s *session.Session) string { return s.Appointment.Physician },
				set:       func(s *session.Session, v string) { s.Appointment.Physician = v },
				// Required only while the referral answer stands at yes.
				required: func(s *session.Session) bool {
					return s.Appointment.Referral == patient.ReferralYes
				},
			},
			{
				field:     FieldDate,
				prompt:    "What day would you like to come in?",
				validator: validate.AppointmentDate(clock),
				get:       func(s *session.Session) string { return s.Appointment.RequestedDate },
				set:       func(s *session.Session, v string) { s.Appointment.RequestedDate = v },
				required:  req,
			},
			{
				field:     FieldTime,
				prompt:    "What time works best for you?",
				validator: validate.AppointmentTime(clock),
				get:       func(s *session.Session) string { return s.Appointment.RequestedTime },
				set:       func(s *session.Session, v string) { s.Appointment.RequestedTime = v },
				required:  req,
			},
		},
		summary: func(s *session.Session) string {
			return "Let me confirm your appointment request:\n" + s.Appointment.Summary() +
				"\nShall I go ahead and schedule it?"
		},
		advanceTo: TargetFinalize,
	}
}

// yesNo normalizes a spoken boolean to "yes" or "no".
func yesNo(label string) validate.Func {
	return func(ctx context.Context, raw string) validate.Outcome {
		v, err := parseYesNo(raw)
		if err != nil {
			return validate.Reject(fmt.Sprintf("Sorry, was that a yes or a no on the %s?", label))
		}
		return validate.Accept(v)
	}
}

func parseYesNo(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "yeah", "yep", "true", "correct", "right", "sure":
		return "yes", nil
	case "no", "n", "nope", "false", "wrong", "incorrect":
		return "no", nil
	}
	return "", fmt.Errorf("not a yes/no answer")
}
