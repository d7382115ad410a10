package appointment

// DiffItem is one changed field between two snapshots. Which fields are set
// depends on Field: Before/After for status, location and title;
// TimeBefore/TimeAfter for time; Changed alone for notes.
type DiffItem struct {
	Field      string     `json:"field"`
	Before     string     `json:"before,omitempty"`
	After      string     `json:"after,omitempty"`
	TimeBefore *TimeBlock `json:"timeBefore,omitempty"`
	TimeAfter  *TimeBlock `json:"timeAfter,omitempty"`
	Changed    bool       `json:"changed,omitempty"`
}

// DiffAppointmentSnapshots lists the fields that differ between prev and
// cur in a fixed order: status, time, location, title, notes. It returns an
// empty list when either snapshot is missing.
func DiffAppointmentSnapshots(prev, cur *Snapshot) []DiffItem {
	items := []DiffItem{}
	if prev == nil || cur == nil {
		return items
	}

	if prev.Status != cur.Status {
		items = append(items, DiffItem{Field: FieldStatus, Before: prev.Status, After: cur.Status})
	}
	if before, after := prev.TimeBlock(), cur.TimeBlock(); before != after {
		items = append(items, DiffItem{Field: FieldTime, TimeBefore: &before, TimeAfter: &after})
	}
	if prev.Location != cur.Location {
		items = append(items, DiffItem{Field: FieldLocation, Before: prev.Location, After: cur.Location})
	}
	if prev.Title != cur.Title {
		items = append(items, DiffItem{Field: FieldTitle, Before: prev.Title, After: cur.Title})
	}
	if prev.NotesHash != cur.NotesHash {
		items = append(items, DiffItem{Field: FieldNotes, Changed: true})
	}
	return items
}
