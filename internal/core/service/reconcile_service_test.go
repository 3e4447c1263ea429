package service

import (
	"context"
	"errors"
	"testing"

	"github.com/99minutos/forum-system/internal/core/domain"
)

func TestReconcileService_CorrectsDrift(t *testing.T) {
	f := newPostFixture()
	b := mustCreateBoard(t, f.boards, alice, "Tech", true)
	f.createPost(t, alice, b.ID, "one")
	f.store.boards[b.ID].PostCount = 5

	svc := NewReconcileService(stubBoardRepo{f.store}, discardLogger)
	drift, err := svc.Reconcile(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if drift != 4 {
		t.Fatalf("drift = %d, want 4", drift)
	}
	if got := f.store.boards[b.ID].PostCount; got != 1 {
		t.Fatalf("post_count = %d, want 1", got)
	}

	drift, _ = svc.Reconcile(context.Background(), b.ID)
	if drift != 0 {
		t.Fatalf("second pass drift = %d, want 0", drift)
	}
}

func TestReconcileService_MissingBoard(t *testing.T) {
	svc := NewReconcileService(stubBoardRepo{newStubStore()}, discardLogger)
	if _, err := svc.Reconcile(context.Background(), 7); !errors.Is(err, domain.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
}

func TestReconcileService_BoardIDs(t *testing.T) {
	f := newPostFixture()
	mustCreateBoard(t, f.boards, alice, "a", true)
	mustCreateBoard(t, f.boards, bob, "b", false)

	ids, err := NewReconcileService(stubBoardRepo{f.store}, discardLogger).BoardIDs(context.Background())
	if err != nil || len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("unexpected ids %v (err %v)", ids, err)
	}
}
