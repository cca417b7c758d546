package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/jisooooooooooo/sportus/internal/store/migrations"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenAppliesMigrations(t *testing.T) {
	st := openMemory(t)

	for _, table := range []string{"credentials", "selections"} {
		var name string
		err := st.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("%s table not created: %v", table, err)
		}
	}

	v, err := migrations.Version(st.db)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != 2 {
		t.Errorf("schema version=%d, want 2", v)
	}
}

func TestOpenFileReopens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sportus.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := st.SetAccessToken(ctx, "persisted"); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	got, err := st.AccessToken(ctx)
	if err != nil {
		t.Fatalf("AccessToken: %v", err)
	}
	if got != "persisted" {
		t.Errorf("token=%q, want persisted", got)
	}
}

func TestAccessTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	st := openMemory(t)

	if _, err := st.AccessToken(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("empty store: err=%v, want ErrNoToken", err)
	}

	if err := st.SetAccessToken(ctx, "  first  "); err != nil {
		t.Fatal(err)
	}
	if err := st.SetAccessToken(ctx, "second"); err != nil {
		t.Fatal(err)
	}
	got, err := st.AccessToken(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "second" {
		t.Errorf("token=%q, want second", got)
	}

	if err := st.ClearAccessToken(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := st.AccessToken(ctx); !errors.Is(err, ErrNoToken) {
		t.Errorf("after clear: err=%v, want ErrNoToken", err)
	}
	if err := st.ClearAccessToken(ctx); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestSetAccessTokenTrims(t *testing.T) {
	ctx := context.Background()
	st := openMemory(t)

	if err := st.SetAccessToken(ctx, "\tabc\n"); err != nil {
		t.Fatal(err)
	}
	got, _ := st.AccessToken(ctx)
	if got != "abc" {
		t.Errorf("token=%q, want abc", got)
	}
	if err := st.SetAccessToken(ctx, "   "); err == nil {
		t.Error("expected error for blank token")
	}
}

func TestRecordSelection(t *testing.T) {
	ctx := context.Background()
	st := openMemory(t)

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	in := []Selection{
		{PlaceID: 11, Name: "강남 수영장", Category: "SWIMMING", Feed: "courses", SelectedAt: base},
		{PlaceID: 12, Name: "역삼 클라이밍", Category: "CLIMBING", Feed: "facilities", SelectedAt: base.Add(time.Minute)},
		{PlaceID: 13, Name: "선릉 요가", Category: "YOGA", Feed: "courses", SelectedAt: base.Add(2 * time.Minute)},
	}
	for _, sel := range in {
		id, err := st.RecordSelection(ctx, sel)
		if err != nil {
			t.Fatalf("RecordSelection: %v", err)
		}
		if id == 0 {
			t.Error("expected non-zero id")
		}
	}

	got, err := st.RecentSelections(ctx, 2)
	if err != nil {
		t.Fatalf("RecentSelections: %v", err)
	}
	want := []Selection{in[2], in[1]}
	opts := cmp.Options{
		cmpopts.IgnoreFields(Selection{}, "ID"),
		cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) }),
	}
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("selections (-want +got):\n%s", diff)
	}
}

func TestRecordSelectionStampsTime(t *testing.T) {
	ctx := context.Background()
	st := openMemory(t)

	before := time.Now().Add(-time.Second)
	if _, err := st.RecordSelection(ctx, Selection{PlaceID: 1, Name: "a", Category: "GOLF", Feed: "courses"}); err != nil {
		t.Fatal(err)
	}
	got, err := st.RecentSelections(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d selections, want 1", len(got))
	}
	if got[0].SelectedAt.Before(before) {
		t.Errorf("SelectedAt=%v, want after %v", got[0].SelectedAt, before)
	}
}

func TestRecentSelectionsNonPositiveLimit(t *testing.T) {
	st := openMemory(t)
	got, err := st.RecentSelections(context.Background(), 0)
	if err != nil || got != nil {
		t.Errorf("RecentSelections(0)=%v, %v", got, err)
	}
}
