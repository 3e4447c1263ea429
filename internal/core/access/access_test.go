package access

import (
	"errors"
	"testing"

	"github.com/99minutos/forum-system/internal/core/domain"
)

const (
	alice int64 = 1
	bob   int64 = 2
)

func board(owner int64, public bool) *domain.Board {
	return &domain.Board{ID: 10, Name: "b", OwnerID: owner, Public: public}
}

func TestCanViewBoard(t *testing.T) {
	cases := []struct {
		name   string
		board  *domain.Board
		actor  int64
		expect bool
	}{
		{"public, non-owner", board(alice, true), bob, true},
		{"private, owner", board(alice, false), alice, true},
		{"private, non-owner", board(alice, false), bob, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanViewBoard(tc.board, tc.actor); got != tc.expect {
				t.Fatalf("CanViewBoard = %v, want %v", got, tc.expect)
			}
		})
	}
}

func TestCanMutateBoard_OwnerOnly(t *testing.T) {
	if !CanMutateBoard(board(alice, true), alice) {
		t.Fatal("owner must be able to mutate")
	}
	if CanMutateBoard(board(alice, true), bob) {
		t.Fatal("public flag must not grant mutation")
	}
}

func TestCanCreatePost(t *testing.T) {
	if !CanCreatePost(board(alice, true), bob) {
		t.Fatal("anyone may post into a public board")
	}
	if CanCreatePost(board(alice, false), bob) {
		t.Fatal("non-owner must not post into a private board")
	}
	if !CanCreatePost(board(alice, false), alice) {
		t.Fatal("owner may post into own private board")
	}
}

func TestCanMutatePost_IndependentOfBoardOwner(t *testing.T) {
	post := &domain.Post{ID: 1, BoardID: 10, OwnerID: bob}

	for _, b := range []*domain.Board{board(alice, true), board(bob, true), board(alice, false)} {
		if !CanMutatePost(post, bob) {
			t.Fatalf("post owner must control the post (board owner %d)", b.OwnerID)
		}
		if CanMutatePost(post, b.OwnerID) && b.OwnerID != bob {
			t.Fatalf("board owner %d must not control someone else's post", b.OwnerID)
		}
	}
}

func TestAuthorizeBoardWrite(t *testing.T) {
	if err := AuthorizeBoardWrite(board(alice, false), bob); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("hidden board: expected not found, got %v", err)
	}
	if err := AuthorizeBoardWrite(board(alice, true), bob); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("visible board: expected forbidden, got %v", err)
	}
	if err := AuthorizeBoardWrite(board(alice, false), alice); err != nil {
		t.Fatalf("owner: unexpected error %v", err)
	}
}

func TestAuthorizePostRead(t *testing.T) {
	post := &domain.Post{ID: 1, BoardID: 10, OwnerID: alice}
	if err := AuthorizePostRead(post, board(alice, false), bob); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected post not found, got %v", err)
	}
	if err := AuthorizePostRead(post, board(alice, true), bob); err != nil {
		t.Fatalf("public board: unexpected error %v", err)
	}
}

func TestAuthorizePostWrite(t *testing.T) {
	post := &domain.Post{ID: 1, BoardID: 10, OwnerID: alice}

	if err := AuthorizePostWrite(post, board(alice, true), bob); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("visible post, non-owner: expected forbidden, got %v", err)
	}
	if err := AuthorizePostWrite(post, board(alice, false), bob); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("hidden post: expected not found, got %v", err)
	}

	// A post left behind on a board that turned private still belongs to its author.
	own := &domain.Post{ID: 2, BoardID: 10, OwnerID: bob}
	if err := AuthorizePostWrite(own, board(alice, false), bob); err != nil {
		t.Fatalf("post owner: unexpected error %v", err)
	}
}
