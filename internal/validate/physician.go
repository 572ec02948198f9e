package validate

import (
	"context"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxNameDistance is the edit-distance tolerance for physician name matching,
// enough for transcription slips like "Patell" for "Patel".
const maxNameDistance = 2

// Physician fuzzy-matches a spoken physician name against the roster.
// names supplies the current roster in listed order; a rejection carries the
// full list so the caller can offer the valid choices.
func Physician(names func() []string) Func {
	return func(ctx context.Context, raw string) Outcome {
		roster := names()
		cleaned := stripHonorific(raw)
		if cleaned == "" {
			return Reject("I didn't catch the physician's name.", roster...)
		}

		needle := strings.ToLower(cleaned)
		for _, name := range roster {
			if strings.Contains(strings.ToLower(name), needle) {
				return Accept(name)
			}
		}

		// Second pass tolerates small transcription errors against the
		// surname and the full name.
		for _, name := range roster {
			candidate := strings.ToLower(stripHonorific(name))
			if levenshtein.ComputeDistance(needle, candidate) <= maxNameDistance {
				return Accept(name)
			}
			parts := strings.Fields(candidate)
			if len(parts) > 0 && levenshtein.ComputeDistance(needle, parts[len(parts)-1]) <= maxNameDistance {
				return Accept(name)
			}
		}

		return Reject("I couldn't find that physician on our roster.", roster...)
	}
}

// stripHonorific drops a leading "Dr." or "Dr" and trims the remainder.
func stripHonorific(name string) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	for _, prefix := range []string{"dr. ", "dr "} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(name[len(prefix):])
		}
	}
	if lower == "dr." || lower == "dr" {
		return ""
	}
	return name
}
