package repository

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenAuditDisabled(t *testing.T) {
	store, err := OpenAudit(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("OpenAudit with empty DSN: %v", err)
	}
	if err := store.Record(context.Background(), AuditEvent{SessionID: "s", Event: "upload"}); err != nil {
		t.Errorf("nop store Record: %v", err)
	}
	events, err := store.Recent(context.Background(), 10)
	if err != nil || events != nil {
		t.Errorf("nop store Recent = %v, %v", events, err)
	}
}

func TestAuditRoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "audit.db")

	store, err := OpenAudit(ctx, dsn, nil)
	if err != nil {
		t.Fatalf("OpenAudit: %v", err)
	}
	defer store.Close()

	for _, e := range []AuditEvent{
		{SessionID: "op", Event: "upload", Detail: "clients.xlsx: 2 clients"},
		{SessionID: "op", Event: "process", Detail: "Jane Doe"},
		{SessionID: "op", Event: "generate", Detail: "Jane Doe"},
	} {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s): %v", e.Event, err)
		}
	}

	events, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for _, e := range events {
		if e.SessionID != "op" || e.ID.String() == "00000000-0000-0000-0000-000000000000" {
			t.Errorf("bad event row: %+v", e)
		}
	}
}
