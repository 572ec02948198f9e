package validate

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// NonEmpty accepts any value with visible content, trimmed.
func NonEmpty(label string) Func {
	return func(ctx context.Context, raw string) Outcome {
		v := strings.TrimSpace(raw)
		if v == "" {
			return Reject(fmt.Sprintf("I didn't catch your %s. Could you repeat it?", label))
		}
		return Accept(v)
	}
}

// Phone validates and normalizes a phone number to international format.
// Region supplies the default country for numbers given without a prefix.
func Phone(region string) Func {
	if region == "" {
		region = "US"
	}
	return func(ctx context.Context, raw string) Outcome {
		parsed, err := phonenumbers.Parse(raw, region)
		if err != nil {
			return Reject("That doesn't look like a phone number. Could you say it again, digit by digit?")
		}
		if !phonenumbers.IsValidNumber(parsed) {
			return Reject("That phone number doesn't seem to be valid. Could you double-check it?")
		}
		return Accept(phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL))
	}
}

// Email validates address syntax and normalizes to the bare address.
func Email() Func {
	return func(ctx context.Context, raw string) Outcome {
		addr, err := mail.ParseAddress(strings.TrimSpace(raw))
		if err != nil {
			return Reject("That email address doesn't look right. Could you spell it out?")
		}
		at := strings.LastIndex(addr.Address, "@")
		if at < 1 || !strings.Contains(addr.Address[at:], ".") {
			return Reject("That email address doesn't look right. Could you spell it out?")
		}
		return Accept(strings.ToLower(addr.Address))
	}
}

// dobLayouts covers the spoken and written forms a date of birth arrives in.
var dobLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006-01-02",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
}

// DateOfBirth normalizes a birth date to MM-DD-YYYY. Unlike appointment
// dates, a DOB is always in the past, so no relative parsing applies.
func DateOfBirth() Func {
	return func(ctx context.Context, raw string) Outcome {
		v := strings.TrimSpace(raw)
		for _, layout := range dobLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				if t.After(time.Now()) {
					return Reject("That date of birth is in the future. Could you repeat it?")
				}
				return Accept(t.Format("01-02-2006"))
			}
		}
		return Reject("I couldn't understand that date of birth. Could you give it as month, day, and year?")
	}
}

// Clock lets tests pin the reference time used for relative date parsing.
type Clock func() time.Time

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// AppointmentDate parses absolute and relative dates ("next Tuesday",
// "March 3rd") and normalizes to MM-DD-YYYY.
func AppointmentDate(now Clock) Func {
	if now == nil {
		now = time.Now
	}
	parser := newParser()
	return func(ctx context.Context, raw string) Outcome {
		r, err := parser.Parse(strings.TrimSpace(raw), now())
		if err != nil || r == nil {
			return Reject("I couldn't understand that date. Could you give a day like \"next Tuesday\" or \"March 3rd\"?")
		}
		return Accept(r.Time.Format("01-02-2006"))
	}
}

// AppointmentTime parses clock times ("2pm", "14:30") and normalizes to HH:MM.
func AppointmentTime(now Clock) Func {
	if now == nil {
		now = time.Now
	}
	parser := newParser()
	return func(ctx context.Context, raw string) Outcome {
		r, err := parser.Parse(strings.TrimSpace(raw), now())
		if err != nil || r == nil {
			return Reject("I couldn't understand that time. Could you give a time like \"2pm\" or \"10:30 in the morning\"?")
		}
		return Accept(r.Time.Format("15:04"))
	}
}
