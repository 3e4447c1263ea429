package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
	"github.com/99minutos/forum-system/internal/core/ports"
)

const (
	alice int64 = 1
	bob   int64 = 2
)

func newBoardFixture() (*BoardService, *stubStore) {
	store := newStubStore()
	return NewBoardService(stubBoardRepo{store}, discardLogger), store
}

func mustCreateBoard(t *testing.T, svc *BoardService, owner int64, name string, public bool) *domain.Board {
	t.Helper()
	b, err := svc.CreateBoard(context.Background(), owner, ports.CreateBoardInput{Name: name, Public: public})
	if err != nil {
		t.Fatalf("create board %q: %v", name, err)
	}
	return b
}

func TestBoardService_Create(t *testing.T) {
	svc, _ := newBoardFixture()

	b := mustCreateBoard(t, svc, alice, "  Tech ", true)
	if b.OwnerID != alice || b.Name != "Tech" || !b.Public || b.PostCount != 0 {
		t.Fatalf("unexpected board: %+v", b)
	}

	if _, err := svc.CreateBoard(context.Background(), bob, ports.CreateBoardInput{Name: "Tech"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate name: expected conflict, got %v", err)
	}
	if _, err := svc.CreateBoard(context.Background(), bob, ports.CreateBoardInput{Name: "  "}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("blank name: expected invalid input, got %v", err)
	}
}

func TestBoardService_Get_PrivateHiddenFromNonOwner(t *testing.T) {
	svc, _ := newBoardFixture()
	b := mustCreateBoard(t, svc, alice, "Secret", false)

	if _, err := svc.GetBoard(context.Background(), bob, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("non-owner: expected not found, got %v", err)
	}
	if _, err := svc.GetBoard(context.Background(), alice, b.ID); err != nil {
		t.Fatalf("owner: unexpected error %v", err)
	}
}

func TestBoardService_Get_Missing(t *testing.T) {
	svc, _ := newBoardFixture()
	if _, err := svc.GetBoard(context.Background(), alice, 999); !errors.Is(err, domain.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
}

func TestBoardService_Update(t *testing.T) {
	svc, _ := newBoardFixture()
	pub := mustCreateBoard(t, svc, alice, "Public", true)
	priv := mustCreateBoard(t, svc, alice, "Private", false)

	updated, err := svc.UpdateBoard(context.Background(), alice, pub.ID, ports.UpdateBoardInput{Name: "Renamed", Public: false})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != "Renamed" || updated.Public {
		t.Fatalf("update not applied: %+v", updated)
	}

	// Renamed board is private now; bob no longer sees it.
	if _, err := svc.UpdateBoard(context.Background(), bob, pub.ID, ports.UpdateBoardInput{Name: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.UpdateBoard(context.Background(), bob, priv.ID, ports.UpdateBoardInput{Name: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	visible := mustCreateBoard(t, svc, alice, "Visible", true)
	if _, err := svc.UpdateBoard(context.Background(), bob, visible.ID, ports.UpdateBoardInput{Name: "x", Public: true}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("visible board, non-owner: expected forbidden, got %v", err)
	}
}

func TestBoardService_Delete(t *testing.T) {
	svc, store := newBoardFixture()
	b := mustCreateBoard(t, svc, alice, "Doomed", true)

	if err := svc.DeleteBoard(context.Background(), bob, b.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner delete: expected forbidden, got %v", err)
	}
	if err := svc.DeleteBoard(context.Background(), alice, b.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := store.boards[b.ID]; ok {
		t.Fatal("board still stored after delete")
	}
}

func TestBoardService_List_NormalisesPage(t *testing.T) {
	svc, store := newBoardFixture()

	if _, err := svc.ListBoards(context.Background(), alice, ports.ListBoardsInput{Page: pagination.Request{Limit: 1000, Offset: -3}}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.lastFilter.Page.Limit != pagination.MaxLimit || store.lastFilter.Page.Offset != 0 {
		t.Fatalf("page not normalised: %+v", store.lastFilter.Page)
	}
	if store.lastFilter.ViewerID != alice {
		t.Fatalf("viewer not propagated: %+v", store.lastFilter)
	}
}

func TestBoardService_List_FifteenBoards(t *testing.T) {
	svc, _ := newBoardFixture()
	for i := 0; i < 15; i++ {
		mustCreateBoard(t, svc, alice, fmt.Sprintf("board-%02d", i), true)
	}

	first, err := svc.ListBoards(context.Background(), alice, ports.ListBoardsInput{Page: pagination.Request{Limit: 10}})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if first.Total != 15 || len(first.Items) != 10 || first.NextCursor == nil {
		t.Fatalf("unexpected first page: total=%d items=%d cursor=%v", first.Total, len(first.Items), first.NextCursor)
	}

	second, err := svc.ListBoards(context.Background(), alice, ports.ListBoardsInput{Page: pagination.Request{Limit: 10, Cursor: *first.NextCursor}})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if second.Total != 15 || len(second.Items) != 5 || second.NextCursor != nil {
		t.Fatalf("unexpected second page: total=%d items=%d cursor=%v", second.Total, len(second.Items), second.NextCursor)
	}
}

func TestBoardService_List_StoreError(t *testing.T) {
	svc, store := newBoardFixture()
	store.listErr = domain.Unavailable("list boards", errStoreDown)

	if _, err := svc.ListBoards(context.Background(), alice, ports.ListBoardsInput{}); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
