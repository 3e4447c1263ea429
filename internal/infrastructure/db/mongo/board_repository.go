package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
	"github.com/99minutos/forum-system/internal/core/ports"
)

type BoardRepository struct {
	db    *mongo.Database
	col   *mongo.Collection
	posts *mongo.Collection
}

func NewBoardRepository(db *mongo.Database) *BoardRepository {
	return &BoardRepository{
		db:    db,
		col:   db.Collection(collectionBoards),
		posts: db.Collection(collectionPosts),
	}
}

type mongoBoard struct {
	ID        int64  `bson:"_id"`
	Name      string `bson:"name"`
	Public    bool   `bson:"public"`
	OwnerID   int64  `bson:"owner_id"`
	PostCount int64  `bson:"post_count"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (m mongoBoard) toDomain() *domain.Board {
	return &domain.Board{
		ID:        m.ID,
		Name:      m.Name,
		Public:    m.Public,
		OwnerID:   m.OwnerID,
		PostCount: m.PostCount,
		CreatedAt: unixToTime(m.CreatedAt),
		UpdatedAt: unixToTime(m.UpdatedAt),
	}
}

func (r *BoardRepository) Create(ctx context.Context, b *domain.Board) (*domain.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionBoards)
	if err != nil {
		return nil, err
	}

	doc := mongoBoard{
		ID:        id,
		Name:      b.Name,
		Public:    b.Public,
		OwnerID:   b.OwnerID,
		CreatedAt: b.CreatedAt.Unix(),
		UpdatedAt: b.UpdatedAt.Unix(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapErr("insert board", err, nil, domain.ErrBoardNameTaken)
	}
	return doc.toDomain(), nil
}

func (r *BoardRepository) FindByID(ctx context.Context, id int64) (*domain.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoBoard
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mapErr("find board", err, domain.ErrBoardNotFound, nil)
	}
	return doc.toDomain(), nil
}

func (r *BoardRepository) Update(ctx context.Context, b *domain.Board) (*domain.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":       b.Name,
		"public":     b.Public,
		"updated_at": b.UpdatedAt.Unix(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoBoard
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": b.ID}, update, opts).Decode(&doc); err != nil {
		return nil, mapErr("update board", err, domain.ErrBoardNotFound, domain.ErrBoardNameTaken)
	}
	return doc.toDomain(), nil
}

func (r *BoardRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return withTx(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.posts.DeleteMany(sc, bson.M{"board_id": id}); err != nil {
			return fmt.Errorf("delete board posts: %w", err)
		}
		res, err := r.col.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete board: %w", err)
		}
		if res.DeletedCount == 0 {
			return domain.ErrBoardNotFound
		}
		return nil
	})
}

func (r *BoardRepository) List(ctx context.Context, f ports.ListBoardsFilter) (*pagination.Page[*domain.Board], error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	page := f.Page.Normalize()
	visible := visibleTo(f.ViewerID)

	total, err := r.col.CountDocuments(ctx, visible)
	if err != nil {
		return nil, mapErr("count boards", err, nil, nil)
	}

	filter := visible
	if page.HasCursor() {
		after, err := r.cursorFilter(ctx, f.ViewerID, f.OrderByPostCount, page.Cursor)
		if err != nil {
			return nil, err
		}
		filter = bson.M{"$and": bson.A{visible, after}}
	}

	opts := options.Find().
		SetSort(boardSort(f.OrderByPostCount)).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.FetchSize()))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr("list boards", err, nil, nil)
	}
	var docs []mongoBoard
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr("list boards", err, nil, nil)
	}

	boards := make([]*domain.Board, 0, len(docs))
	for _, d := range docs {
		boards = append(boards, d.toDomain())
	}
	return pagination.NewPage(total, boards, page.Limit, boardID), nil
}

// cursorFilter resumes after the cursor board. In post_count order the
// cursor's current count positions the window; a cursor board that vanished or
// is hidden from the viewer falls back to id order after it.
func (r *BoardRepository) cursorFilter(ctx context.Context, viewerID int64, byPostCount bool, cursor int64) (bson.M, error) {
	if !byPostCount {
		return afterID(cursor), nil
	}

	var doc mongoBoard
	err := r.col.FindOne(ctx, cursorLookup(viewerID, cursor), options.FindOne().SetProjection(bson.M{"post_count": 1})).Decode(&doc)
	switch {
	case err == nil:
		return afterPostCount(doc.PostCount, cursor), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return afterID(cursor), nil
	default:
		return nil, mapErr("resolve cursor", err, nil, nil)
	}
}

func (r *BoardRepository) IDs(ctx context.Context) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapErr("list board ids", err, nil, nil)
	}
	var docs []struct {
		ID int64 `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr("list board ids", err, nil, nil)
	}

	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (r *BoardRepository) RecountPosts(ctx context.Context, id int64) (before, after int64, err error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = withTx(ctx, r.db, func(sc mongo.SessionContext) error {
		var doc mongoBoard
		if err := r.col.FindOne(sc, bson.M{"_id": id}).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domain.ErrBoardNotFound
			}
			return fmt.Errorf("find board: %w", err)
		}
		live, err := r.posts.CountDocuments(sc, bson.M{"board_id": id})
		if err != nil {
			return fmt.Errorf("count posts: %w", err)
		}
		before, after = doc.PostCount, live
		if before == after {
			return nil
		}
		if _, err := r.col.UpdateOne(sc, bson.M{"_id": id}, bson.M{"$set": bson.M{"post_count": after}}); err != nil {
			return fmt.Errorf("set post_count: %w", err)
		}
		return nil
	})
	return before, after, err
}

func visibleTo(viewerID int64) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"owner_id": viewerID},
		bson.M{"public": true},
	}}
}

// cursorLookup matches the cursor board only when the viewer can see it.
func cursorLookup(viewerID, cursor int64) bson.M {
	return bson.M{"$and": bson.A{bson.M{"_id": cursor}, visibleTo(viewerID)}}
}

func afterID(cursor int64) bson.M {
	return bson.M{"_id": bson.M{"$gt": cursor}}
}

func afterPostCount(count, cursor int64) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"post_count": bson.M{"$lt": count}},
		bson.M{"post_count": count, "_id": bson.M{"$gt": cursor}},
	}}
}

func boardSort(byPostCount bool) bson.D {
	if byPostCount {
		return bson.D{{Key: "post_count", Value: -1}, {Key: "_id", Value: 1}}
	}
	return bson.D{{Key: "_id", Value: 1}}
}

func boardID(b *domain.Board) int64 { return b.ID }
