package patient

import (
	"fmt"
	"strings"
)

// Referral is the tri-state answer to "were you referred by a physician?".
type Referral int

const (
	ReferralUnknown Referral = iota
	ReferralYes
	ReferralNo
)

// Record holds the patient information collected during intake. A field is
// either empty (not yet collected) or holds the validator-normalized value;
// raw unvalidated input is never stored.
type Record struct {
	Name           string `json:"name,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	InsurancePayer string `json:"insurance_payer,omitempty"`
	InsuranceID    string `json:"insurance_id,omitempty"`
	VisitReason    string `json:"visit_reason,omitempty"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"` // optional, recommended
}

// AppointmentRequest holds the scheduling information collected after intake.
// ResolvedTime and ResolvedPhysician are set only when finalization succeeds.
type AppointmentRequest struct {
	Referral          Referral `json:"referral"`
	Physician         string   `json:"physician,omitempty"`
	RequestedDate     string   `json:"requested_date,omitempty"` // MM-DD-YYYY
	RequestedTime     string   `json:"requested_time,omitempty"` // HH:MM
	ResolvedTime      string   `json:"resolved_time,omitempty"`
	ResolvedPhysician string   `json:"resolved_physician,omitempty"`
}

// Summary renders the collected intake fields for the confirmation prompt.
func (r *Record) Summary() string {
	var b strings.Builder
	writeLine(&b, "Name", r.Name)
	writeLine(&b, "Date of birth", r.DateOfBirth)
	writeLine(&b, "Insurance payer", r.InsurancePayer)
	writeLine(&b, "Insurance ID", r.InsuranceID)
	writeLine(&b, "Reason for visit", r.VisitReason)
	writeLine(&b, "Address", r.Address)
	writeLine(&b, "Phone", r.Phone)
	if r.Email != "" {
		writeLine(&b, "Email", r.Email)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Summary renders the scheduling details for the confirmation prompt.
func (a *AppointmentRequest) Summary() string {
	var b strings.Builder
	switch a.Referral {
	case ReferralYes:
		writeLine(&b, "Referred physician", a.Physician)
	case ReferralNo:
		writeLine(&b, "Referral", "none")
	}
	writeLine(&b, "Preferred date", a.RequestedDate)
	writeLine(&b, "Preferred time", a.RequestedTime)
	return strings.TrimRight(b.String(), "\n")
}

func writeLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}
