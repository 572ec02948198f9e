// Package validate implements the field validators applied to raw dialogue
// input before anything is stored on the patient record. Every validator
// returns an Outcome; nothing in this package raises past its boundary.
package validate

import "context"

// Outcome is the tagged result of validating one raw field value.
type Outcome struct {
	Accepted     bool
	Normalized   string   // set when Accepted
	Reason       string   // set when rejected
	Alternatives []string // optional recovery hints (e.g. valid physician names)
}

// Accept builds an accepted outcome carrying the normalized value.
func Accept(normalized string) Outcome {
	return Outcome{Accepted: true, Normalized: normalized}
}

// Reject builds a rejected outcome with a user-correctable reason.
func Reject(reason string, alternatives ...string) Outcome {
	return Outcome{Reason: reason, Alternatives: alternatives}
}

// Func validates a single raw value. Implementations must not panic; use
// Safe to enforce that at the boundary.
type Func func(ctx context.Context, raw string) Outcome

// Safe wraps a validator so that any panic is converted into a generic
// rejection instead of crashing the controller.
func Safe(fn Func) Func {
	return func(ctx context.Context, raw string) (out Outcome) {
		defer func() {
			if r := recover(); r != nil {
				out = Reject("Sorry, I couldn't check that. Could you try again?")
			}
		}()
		return fn(ctx, raw)
	}
}
