package operation

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
	"github.com/msto63/alarmview/foundation/core/log"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(SQLiteConfig{
		Path:   filepath.Join(t.TempDir(), "db", "operations.db"),
		Logger: log.Discard(),
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleOperation(number string, ts time.Time) *Operation {
	return &Operation{
		Number:    number,
		Timestamp: ts,
		Keyword:   "B 3 - Brand Wohngebäude",
		Comment:   "Rauch aus Dachstuhl",
		Location: Location{
			Street: "Hauptstraße 1",
			City:   "Ansbach",
		},
		Resources: []Resource{
			{Name: "FL ANS 1/44-1 LF 20", Equipment: []string{"Atemschutz"}},
			{Name: "FL ANS 1/30-1 DLK 23/12"},
		},
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2026, 10, 18, 8, 15, 0, 0, time.UTC)
	op := sampleOperation("T 4.1 261018 0815", ts)

	if err := store.Save(ctx, op); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if op.ID == "" {
		t.Fatal("Save() should assign an ID")
	}

	got, err := store.Get(ctx, op.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got.Number != op.Number || got.Keyword != op.Keyword || got.Comment != op.Comment {
		t.Errorf("Get() = %+v", got)
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
	if got.Location != op.Location {
		t.Errorf("Location = %+v", got.Location)
	}
	if len(got.Resources) != 2 || got.Resources[0].Name != "FL ANS 1/44-1 LF 20" || got.Resources[0].Equipment[0] != "Atemschutz" {
		t.Errorf("Resources = %+v", got.Resources)
	}
	if got.IsAcknowledged() {
		t.Error("new operation should not be acknowledged")
	}
}

func TestSQLiteStore_SaveUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	op := sampleOperation("1", time.Now())
	if err := store.Save(ctx, op); err != nil {
		t.Fatal(err)
	}

	op.Comment = "Nachalarmierung"
	op.Resources = append(op.Resources, Resource{Name: "FL ANS 1/11-1 MTW"})
	if err := store.Save(ctx, op); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, op.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Comment != "Nachalarmierung" || len(got.Resources) != 3 {
		t.Errorf("update not stored: %+v", got)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count() = %d, %v; want 1", n, err)
	}
}

func TestSQLiteStore_SaveInvalid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		op   *Operation
	}{
		{"nil", nil},
		{"empty", &Operation{}},
		{"bad id", &Operation{ID: "not-a-uuid", Number: "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Save(ctx, tt.op)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Save() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestSQLiteStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), NewID())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("error code = %v", mdwerror.GetCode(err))
	}
}

func TestSQLiteStore_ListRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	for i, number := range []string{"a", "b", "c", "d"} {
		if err := store.Save(ctx, sampleOperation(number, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	ops, err := store.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}

	want := []string{"d", "c", "b"}
	if len(ops) != len(want) {
		t.Fatalf("ListRecent() returned %d operations, want %d", len(ops), len(want))
	}
	for i := range want {
		if ops[i].Number != want[i] {
			t.Errorf("ops[%d] = %s, want %s", i, ops[i].Number, want[i])
		}
	}

	all, err := store.ListRecent(ctx, 0)
	if err != nil || len(all) != 4 {
		t.Errorf("ListRecent(0) = %d, %v; want default limit covering all 4", len(all), err)
	}
}

func TestSQLiteStore_Acknowledge(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	op := sampleOperation("1", time.Now())
	if err := store.Save(ctx, op); err != nil {
		t.Fatal(err)
	}

	at := time.Date(2026, 10, 18, 8, 20, 0, 0, time.UTC)
	if err := store.Acknowledge(ctx, op.ID, at); err != nil {
		t.Fatalf("Acknowledge() error = %v", err)
	}

	got, err := store.Get(ctx, op.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsAcknowledged() || !got.AcknowledgedAt.Equal(at) {
		t.Errorf("AcknowledgedAt = %v, want %v", got.AcknowledgedAt, at)
	}

	if err := store.Acknowledge(ctx, NewID(), at); !errors.Is(err, ErrNotFound) {
		t.Errorf("Acknowledge(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_SaveKeepsAcknowledgment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	op := sampleOperation("1", time.Now())
	if err := store.Save(ctx, op); err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, 10, 18, 8, 20, 0, 0, time.UTC)
	if err := store.Acknowledge(ctx, op.ID, at); err != nil {
		t.Fatal(err)
	}

	// the dispatch center re-sends the operation without local state
	resent := sampleOperation("1", op.Timestamp)
	resent.ID = op.ID
	resent.Comment = "Nachalarmierung"
	if err := store.Save(ctx, resent); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, op.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsAcknowledged() || !got.AcknowledgedAt.Equal(at) {
		t.Errorf("AcknowledgedAt after re-save = %v, want %v", got.AcknowledgedAt, at)
	}
	if got.Comment != "Nachalarmierung" {
		t.Errorf("Comment = %q, update not stored", got.Comment)
	}

	later := at.Add(time.Minute)
	resent.AcknowledgedAt = &later
	if err := store.Save(ctx, resent); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, op.ID); got == nil || !got.AcknowledgedAt.Equal(later) {
		t.Errorf("explicit acknowledgment should replace the stored one: %+v", got)
	}
}
