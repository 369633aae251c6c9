package domain

// SelectionMarkerID is the reserved identity of the single highlighted marker
// that tracks a pending, not-yet-saved map click. Record IDs are UUIDs, so
// the value cannot collide with a saved record.
const SelectionMarkerID = "selection"

// A rendered map marker. Identity is the record ID (or SelectionMarkerID),
// never the coordinate value: two records may share a coordinate.
type Marker struct {
	ID          string
	Position    Coordinate
	Highlighted bool
}

// MarkerDiff lists the add/remove operations that bring a rendered marker set
// in line with the desired one.
type MarkerDiff struct {
	Add    []Marker
	Remove []Marker
}

// Empty reports whether applying the diff would cause zero marker churn.
func (d MarkerDiff) Empty() bool { return len(d.Add) == 0 && len(d.Remove) == 0 }

// DesiredMarkers builds the marker set for a record list plus an optional
// selection: one plain marker per record and at most one highlighted marker.
func DesiredMarkers(records []Record, selection *Coordinate) []Marker {
	markers := make([]Marker, 0, len(records)+1)
	for _, r := range records {
		markers = append(markers, Marker{ID: r.ID, Position: r.Position})
	}
	if selection != nil {
		markers = append(markers, Marker{ID: SelectionMarkerID, Position: *selection, Highlighted: true})
	}
	return markers
}

// Reconcile diffs the desired marker set against the currently rendered one.
// It is a pure function: the same inputs always produce the same diff, and
// unchanged inputs produce an empty diff. A marker whose position or
// highlight differs from its rendered counterpart (the selection marker
// moving between clicks) is replaced via remove+add.
func Reconcile(rendered []Marker, records []Record, selection *Coordinate) MarkerDiff {
	desired := DesiredMarkers(records, selection)

	current := make(map[string]Marker, len(rendered))
	for _, m := range rendered {
		current[m.ID] = m
	}

	var diff MarkerDiff
	wanted := make(map[string]struct{}, len(desired))
	for _, m := range desired {
		wanted[m.ID] = struct{}{}

		prev, ok := current[m.ID]
		if !ok {
			diff.Add = append(diff.Add, m)
			continue
		}
		if prev != m {
			diff.Remove = append(diff.Remove, prev)
			diff.Add = append(diff.Add, m)
		}
	}

	for _, m := range rendered {
		if _, ok := wanted[m.ID]; !ok {
			diff.Remove = append(diff.Remove, m)
		}
	}

	return diff
}
