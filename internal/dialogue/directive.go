// Package dialogue implements the slot-filling controller that drives the
// intake and scheduling phases of a conversation. The controller validates
// one field per call and tells the conversation driver what to do next; it
// never speaks to the user and never performs the phase swap itself.
package dialogue

// DirectiveKind tags the controller's per-submission decision.
type DirectiveKind string

const (
	// DirectiveRejected: the value failed validation, record unchanged,
	// re-ask with the attached message.
	DirectiveRejected DirectiveKind = "rejected"
	// DirectiveNeedsMore: at least one required field is still missing;
	// the message is the prompt hint for the next one.
	DirectiveNeedsMore DirectiveKind = "needs_more"
	// DirectiveReadyToConfirm: everything is collected; surface the summary
	// and wait for an explicit confirmation before advancing.
	DirectiveReadyToConfirm DirectiveKind = "ready_to_confirm"
	// DirectiveAdvance: confirmation received; the driver performs the
	// handoff named by Next.
	DirectiveAdvance DirectiveKind = "advance"
)

// Target names what follows a confirmed phase. The driver owns the swap.
type Target string

const (
	// TargetScheduling hands the completed patient record to the
	// scheduling phase.
	TargetScheduling Target = "scheduling"
	// TargetFinalize hands the completed appointment request to the
	// finalization pipeline.
	TargetFinalize Target = "finalize"
)

// Directive is the controller's answer to one field submission.
type Directive struct {
	Kind         DirectiveKind
	Message      string   // rejection reason, prompt hint, or summary
	Alternatives []string // recovery hints on rejection (e.g. roster names)
	Next         Target   // set only for DirectiveAdvance
}

func rejected(message string, alternatives ...string) Directive {
	return Directive{Kind: DirectiveRejected, Message: message, Alternatives: alternatives}
}

func needsMore(prompt string) Directive {
	return Directive{Kind: DirectiveNeedsMore, Message: prompt}
}

func readyToConfirm(summary string) Directive {
	return Directive{Kind: DirectiveReadyToConfirm, Message: summary}
}

func advance(next Target) Directive {
	return Directive{Kind: DirectiveAdvance, Next: next}
}
