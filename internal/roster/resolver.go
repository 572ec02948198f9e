package roster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownPhysician reports a lookup failure: the requested physician is
// not on the roster. Distinct from finding no open slot, which is a normal
// negative outcome.
var ErrUnknownPhysician = errors.New("roster: unknown physician")

// Resolution is a successful availability match.
type Resolution struct {
	Physician string
	Time      string
	// Rescheduled is true when Time differs from the requested time. The
	// caller must tell the user about the substitution before proceeding.
	Rescheduled bool
}

// Resolver matches requested times against the shared roster table.
type Resolver struct {
	table *Table
}

// NewResolver wires a resolver to the shared table.
func NewResolver(table *Table) *Resolver {
	if table == nil {
		panic("roster: table required")
	}
	return &Resolver{table: table}
}

// Resolve finds a slot for the requested HH:MM time. With a physician it
// returns the exact slot or the nearest one; without, it rounds the time to
// the nearest half hour and scans physicians in roster order. A nil
// resolution with nil error means no availability anywhere.
func (r *Resolver) Resolve(requestedTime, physician string) (*Resolution, error) {
	requested, err := minuteOfDay(requestedTime)
	if err != nil {
		return nil, fmt.Errorf("roster: bad requested time %q: %w", requestedTime, err)
	}
	current := r.table.Current()

	if physician != "" {
		slots, ok := current.Slots(physician)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPhysician, physician)
		}
		if len(slots) == 0 {
			return nil, nil
		}
		for _, slot := range slots {
			if slot == requestedTime {
				return &Resolution{Physician: physician, Time: slot}, nil
			}
		}
		nearest := nearestSlot(requested, slots)
		return &Resolution{Physician: physician, Time: nearest, Rescheduled: true}, nil
	}

	rounded := RoundToNearestHalfHour(requestedTime)
	for _, name := range current.Physicians() {
		slots, _ := current.Slots(name)
		for _, slot := range slots {
			if slot == rounded {
				return &Resolution{
					Physician:   name,
					Time:        rounded,
					Rescheduled: rounded != requestedTime,
				}, nil
			}
		}
	}
	return nil, nil
}

// nearestSlot picks the slot with the smallest absolute minute distance.
// Strict less-than keeps the earlier-listed slot on ties.
func nearestSlot(requested int, slots []string) string {
	best := slots[0]
	bestDiff := -1
	for _, slot := range slots {
		m, err := minuteOfDay(slot)
		if err != nil {
			continue
		}
		diff := requested - m
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			best = slot
		}
	}
	return best
}

// RoundToNearestHalfHour rounds HH:MM to the nearest 30-minute boundary.
// Halves round up (09:15 -> 09:30, 09:45 -> 10:00) and the hour wraps at 24.
func RoundToNearestHalfHour(hhmm string) string {
	minutes, err := minuteOfDay(hhmm)
	if err != nil {
		return hhmm
	}
	rounded := ((minutes + 15) / 30) * 30 % (24 * 60)
	return fmt.Sprintf("%02d:%02d", rounded/60, rounded%60)
}

// minuteOfDay parses HH:MM into minutes since midnight.
func minuteOfDay(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("not HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("bad hour")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad minute")
	}
	return h*60 + m, nil
}
