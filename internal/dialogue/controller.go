package dialogue

import (
	"context"
	"time"

	"github.com/hellohealth/intake-platform/internal/session"
	"github.com/hellohealth/intake-platform/internal/validate"
	"github.com/hellohealth/intake-platform/pkg/logging"
)

// Config carries everything the controller's validators need; nothing is
// read from ambient globals.
type Config struct {
	// PhoneRegion is the default region for phone numbers given without a
	// country prefix.
	PhoneRegion string
	// RosterNames supplies the current physician roster in listed order.
	RosterNames func() []string
	// Clock pins the reference time for relative date parsing; nil means
	// time.Now.
	Clock validate.Clock
}

// Controller drives collect -> validate -> decide for both phases. One
// instance serves all sessions; per-session state lives on the session.
type Controller struct {
	tables map[session.Phase]phaseTable
	logger *logging.Logger
}

// NewController builds the phase tables from the supplied config.
func NewController(cfg Config, logger *logging.Logger) *Controller {
	if cfg.RosterNames == nil {
		panic("dialogue: roster names source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	intake := intakeTable(cfg.PhoneRegion)
	scheduling := schedulingTable(cfg.RosterNames, cfg.Clock)
	return &Controller{
		tables: map[session.Phase]phaseTable{
			intake.phase:     intake,
			scheduling.phase: scheduling,
		},
		logger: logger,
	}
}

// EntryPrompt returns the instruction spoken when a phase begins.
func (c *Controller) EntryPrompt(phase session.Phase) string {
	if table, ok := c.tables[phase]; ok {
		return table.entry
	}
	return ""
}

// Submit validates one (field, raw value) update against the session's
// current phase and reports what the driver should do next. The session is
// mutated only when the value is accepted.
func (c *Controller) Submit(ctx context.Context, s *session.Session, field Field, raw string) Directive {
	table, ok := c.tables[s.Phase]
	if !ok {
		return rejected("This conversation has already ended.")
	}

	if field == FieldConfirm {
		return c.handleConfirm(s, table, raw)
	}

	spec, ok := findSpec(table, field)
	if !ok {
		return rejected("Sorry, I wasn't expecting that just now. " + c.nextPrompt(s, table))
	}

	outcome := validate.Safe(spec.validator)(ctx, raw)
	if !outcome.Accepted {
		c.logger.Debug("field rejected",
			"session_id", s.ID, "phase", string(s.Phase), "field", string(field), "reason", outcome.Reason)
		return rejected(outcome.Reason, outcome.Alternatives...)
	}

	spec.set(s, outcome.Normalized)
	c.logger.Info("field recorded",
		"session_id", s.ID, "phase", string(s.Phase), "field", string(field))

	// Completeness is recomputed from scratch after every update so
	// conditional requirements reflect the value just stored.
	if prompt, missing := firstMissing(s, table); missing {
		return needsMore(prompt)
	}
	return readyToConfirm(table.summary(s))
}

// handleConfirm applies the explicit confirmation gate. The controller never
// self-declares a phase done: only a yes here produces an Advance.
func (c *Controller) handleConfirm(s *session.Session, table phaseTable, raw string) Directive {
	if prompt, missing := firstMissing(s, table); missing {
		// Nothing to confirm yet; keep collecting.
		return needsMore(prompt)
	}
	answer, err := parseYesNo(raw)
	if err != nil {
		return rejected("Sorry, was that a yes or a no?")
	}
	if answer == "no" {
		// Amend in place: collected fields stay, the driver re-asks what
		// needs to change.
		return needsMore("Okay, please let me know what details need to be updated.")
	}
	c.logger.Info("phase confirmed", "session_id", s.ID, "phase", string(s.Phase))
	return advance(table.advanceTo)
}

func (c *Controller) nextPrompt(s *session.Session, table phaseTable) string {
	if prompt, missing := firstMissing(s, table); missing {
		return prompt
	}
	return table.summary(s)
}

func findSpec(table phaseTable, field Field) (fieldSpec, bool) {
	for _, spec := range table.fields {
		if spec.field == field {
			return spec, true
		}
	}
	return fieldSpec{}, false
}

// firstMissing returns the prompt for the first required-but-absent field in
// declared order.
func firstMissing(s *session.Session, table phaseTable) (string, bool) {
	for _, spec := range table.fields {
		if spec.required(s) && spec.get(s) == "" {
			return spec.prompt, true
		}
	}
	return "", false
}
