// Package roster holds the physician availability table and the resolver
// that matches a requested appointment time against it. The table is loaded
// once at process start and shared read-only across sessions; reload swaps
// the whole table atomically.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

// Physician is one roster row: a name and the open slots in listed order.
type Physician struct {
	Name  string
	Slots []string // HH:MM, listed order is significant for tie-breaking
}

// Roster is an immutable availability table. Iteration order follows the
// source's row order.
type Roster struct {
	physicians []Physician
	byName     map[string]int
}

// New builds a roster from rows. Later duplicates of a name are ignored.
func New(physicians []Physician) *Roster {
	r := &Roster{byName: make(map[string]int, len(physicians))}
	for _, p := range physicians {
		if _, dup := r.byName[p.Name]; dup {
			continue
		}
		r.byName[p.Name] = len(r.physicians)
		r.physicians = append(r.physicians, p)
	}
	return r
}

// Physicians returns roster names in listed order.
func (r *Roster) Physicians() []string {
	names := make([]string, len(r.physicians))
	for i, p := range r.physicians {
		names[i] = p.Name
	}
	return names
}

// Slots returns the open slots for a physician and whether the physician is
// on the roster at all.
func (r *Roster) Slots(name string) ([]string, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.physicians[i].Slots, true
}

// Len reports the number of physicians.
func (r *Roster) Len() int { return len(r.physicians) }

// Table is the shared handle to the current roster. Reload stores a complete
// replacement; readers never observe a partially updated table.
type Table struct {
	current atomic.Pointer[Roster]
}

// NewTable wraps an initial roster.
func NewTable(r *Roster) *Table {
	t := &Table{}
	t.current.Store(r)
	return t
}

// Current returns the active roster.
func (t *Table) Current() *Roster { return t.current.Load() }

// Swap replaces the whole table.
func (t *Table) Swap(r *Roster) { t.current.Store(r) }

// Physicians returns the active roster's names, for validator wiring.
func (t *Table) Physicians() []string { return t.Current().Physicians() }

// LoadCSV reads a roster from a CSV file where each row is a physician name
// followed by that physician's open HH:MM slots. Malformed rows are skipped.
func LoadCSV(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV reads roster rows from r. Rows without a name are skipped, as are
// unreadable lines; a roster file with zero usable rows is still an error.
func ParseCSV(r io.Reader) (*Roster, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var physicians []Physician
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip unreadable lines rather than failing the load.
			continue
		}
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		var slots []string
		for _, cell := range row[1:] {
			slot := strings.TrimSpace(cell)
			if slot == "" {
				continue
			}
			if _, err := minuteOfDay(slot); err != nil {
				continue
			}
			slots = append(slots, slot)
		}
		physicians = append(physicians, Physician{Name: name, Slots: slots})
	}

	if len(physicians) == 0 {
		return nil, fmt.Errorf("roster: no usable rows")
	}
	return New(physicians), nil
}
