package domain

import "testing"

func testRecords() []Record {
	return []Record{
		{ID: "b", Name: "Station B", Position: Coordinate{Lat: 2, Lng: 2}},
		{ID: "a", Name: "Station A", Position: Coordinate{Lat: 1, Lng: 1}},
	}
}

func TestReconcileIdempotent(t *testing.T) {
	records := testRecords()
	sel := &Coordinate{Lat: 3, Lng: 3}

	first := Reconcile(nil, records, sel)
	if len(first.Add) != 3 || len(first.Remove) != 0 {
		t.Fatalf("initial diff = %+v, want 3 adds and no removes", first)
	}

	rendered := first.Add
	second := Reconcile(rendered, records, sel)
	if !second.Empty() {
		t.Fatalf("re-reconcile with unchanged inputs produced churn: %+v", second)
	}
}

func TestReconcileRemovesDeletedRecord(t *testing.T) {
	records := testRecords()
	rendered := DesiredMarkers(records, nil)

	diff := Reconcile(rendered, records[:1], nil)
	if len(diff.Add) != 0 {
		t.Fatalf("unexpected adds: %+v", diff.Add)
	}
	if len(diff.Remove) != 1 || diff.Remove[0].ID != "a" {
		t.Fatalf("removes = %+v, want exactly marker a", diff.Remove)
	}
}

func TestReconcileSelectionLifecycle(t *testing.T) {
	records := testRecords()
	rendered := DesiredMarkers(records, nil)

	// Selection appears: exactly one highlighted marker is added.
	sel := &Coordinate{Lat: 5, Lng: 5}
	diff := Reconcile(rendered, records, sel)
	if len(diff.Add) != 1 || len(diff.Remove) != 0 {
		t.Fatalf("diff = %+v, want one add", diff)
	}
	if diff.Add[0].ID != SelectionMarkerID || !diff.Add[0].Highlighted {
		t.Fatalf("selection marker = %+v", diff.Add[0])
	}

	// Selection moves: the highlighted marker is replaced, not duplicated.
	rendered = DesiredMarkers(records, sel)
	moved := &Coordinate{Lat: 6, Lng: 6}
	diff = Reconcile(rendered, records, moved)
	if len(diff.Add) != 1 || len(diff.Remove) != 1 {
		t.Fatalf("moved-selection diff = %+v, want one add and one remove", diff)
	}
	if diff.Remove[0].ID != SelectionMarkerID || diff.Add[0].Position != *moved {
		t.Fatalf("moved-selection diff = %+v", diff)
	}

	// Selection cleared: the highlighted marker is removed.
	rendered = DesiredMarkers(records, moved)
	diff = Reconcile(rendered, records, nil)
	if len(diff.Add) != 0 || len(diff.Remove) != 1 || diff.Remove[0].ID != SelectionMarkerID {
		t.Fatalf("cleared-selection diff = %+v", diff)
	}
}

func TestReconcileSharedCoordinate(t *testing.T) {
	// Marker identity is the record ID, so two records at the same spot
	// produce two markers.
	records := []Record{
		{ID: "x", Position: Coordinate{Lat: 1, Lng: 1}},
		{ID: "y", Position: Coordinate{Lat: 1, Lng: 1}},
	}
	diff := Reconcile(nil, records, nil)
	if len(diff.Add) != 2 {
		t.Fatalf("adds = %+v, want markers for both records", diff.Add)
	}
}
