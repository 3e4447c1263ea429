// Package access decides what an account may do with a board or post.
//
// The Can* functions are pure predicates. The Authorize* helpers apply the
// failure policy: a resource the actor cannot see is reported as not found,
// a resource the actor can see but not change is reported as forbidden.
package access

import "github.com/99minutos/forum-system/internal/core/domain"

func CanViewBoard(b *domain.Board, actorID int64) bool {
	return b.Public || b.OwnerID == actorID
}

func CanMutateBoard(b *domain.Board, actorID int64) bool {
	return b.OwnerID == actorID
}

func CanCreatePost(b *domain.Board, actorID int64) bool {
	return b.Public || b.OwnerID == actorID
}

// CanViewPost follows the visibility of the post's board.
func CanViewPost(_ *domain.Post, b *domain.Board, actorID int64) bool {
	return CanViewBoard(b, actorID)
}

// CanMutatePost depends only on post ownership; the board owner has no say.
func CanMutatePost(p *domain.Post, actorID int64) bool {
	return p.OwnerID == actorID
}

func AuthorizeBoardRead(b *domain.Board, actorID int64) error {
	if !CanViewBoard(b, actorID) {
		return domain.ErrBoardNotFound
	}
	return nil
}

func AuthorizeBoardWrite(b *domain.Board, actorID int64) error {
	if !CanViewBoard(b, actorID) {
		return domain.ErrBoardNotFound
	}
	if !CanMutateBoard(b, actorID) {
		return domain.ErrForbidden
	}
	return nil
}

func AuthorizePostCreate(b *domain.Board, actorID int64) error {
	if !CanCreatePost(b, actorID) {
		return domain.ErrBoardNotFound
	}
	return nil
}

func AuthorizePostRead(p *domain.Post, b *domain.Board, actorID int64) error {
	if !CanViewPost(p, b, actorID) {
		return domain.ErrPostNotFound
	}
	return nil
}

func AuthorizePostWrite(p *domain.Post, b *domain.Board, actorID int64) error {
	if !CanViewPost(p, b, actorID) && !CanMutatePost(p, actorID) {
		return domain.ErrPostNotFound
	}
	if !CanMutatePost(p, actorID) {
		return domain.ErrForbidden
	}
	return nil
}
