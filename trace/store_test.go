package trace

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/moncel/intake/dbopen"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db := dbopen.OpenMemory(t)
	s := NewStore(db)
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func sampleRecord(inputID string) *Record {
	return &Record{
		InputID:        inputID,
		ReceivedAt:     time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC),
		Format:         "email",
		Intent:         "complaint",
		Extraction:     `{"fields":{"tone":"angry"},"risk_flags":["hostile-tone"]}`,
		Action:         "escalate",
		Reason:         "hostile-tone",
		Target:         "/crm",
		DispatchStatus: "delivered",
		DispatchDetail: "/crm",
	}
}

func TestStore_AppendAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := sampleRecord("in-1")
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.RecordID == "" {
		t.Error("Append did not assign a record ID")
	}
	if rec.RecordedAt.IsZero() {
		t.Error("Append did not stamp RecordedAt")
	}

	got, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	r := got[0]
	if r.RecordID != rec.RecordID || r.InputID != "in-1" {
		t.Errorf("ids = %q/%q, want %q/in-1", r.RecordID, r.InputID, rec.RecordID)
	}
	if r.Format != "email" || r.Intent != "complaint" || r.Action != "escalate" {
		t.Errorf("record = %+v", r)
	}
	if !r.ReceivedAt.Equal(rec.ReceivedAt) {
		t.Errorf("received_at = %v, want %v", r.ReceivedAt, rec.ReceivedAt)
	}
	if !strings.Contains(r.Extraction, "hostile-tone") {
		t.Errorf("extraction = %q", r.Extraction)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := sampleRecord(fmt.Sprintf("in-%d", i))
		if err := s.Append(ctx, rec); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := s.List(ctx, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	for i, want := range []string{"in-4", "in-3", "in-2"} {
		if got[i].InputID != want {
			t.Errorf("got[%d].InputID = %q, want %q", i, got[i].InputID, want)
		}
	}
}

func TestStore_AppendPreservesExplicitID(t *testing.T) {
	s := testStore(t)
	rec := sampleRecord("in-x")
	rec.RecordID = "trc_fixed"
	if err := s.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.RecordID != "trc_fixed" {
		t.Errorf("record ID rewritten to %q", rec.RecordID)
	}
}

func TestStore_DuplicateRecordIDRejected(t *testing.T) {
	// WHAT: record_id is unique, a replayed append surfaces as an error
	// instead of silently duplicating the audit trail.
	s := testStore(t)
	ctx := context.Background()

	rec := sampleRecord("in-dup")
	rec.RecordID = "trc_same"
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("first append: %v", err)
	}
	again := sampleRecord("in-dup")
	again.RecordID = "trc_same"
	if err := s.Append(ctx, again); err == nil {
		t.Fatal("second append with same record ID succeeded, want error")
	}
}

func TestStore_ListDefaultLimit(t *testing.T) {
	s := testStore(t)
	if _, err := s.List(context.Background(), 0); err != nil {
		t.Fatalf("list with zero limit: %v", err)
	}
}

func TestMemory_AppendAndSnapshot(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := m.Append(ctx, sampleRecord(fmt.Sprintf("in-%d", i))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got := m.Records()
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	// Snapshot is a copy, mutating it must not affect the recorder.
	got[0].InputID = "mutated"
	if m.Records()[0].InputID != "in-0" {
		t.Error("snapshot aliases internal storage")
	}
}
