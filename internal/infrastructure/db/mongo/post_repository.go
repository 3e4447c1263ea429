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

type PostRepository struct {
	db     *mongo.Database
	col    *mongo.Collection
	boards *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		db:     db,
		col:    db.Collection(collectionPosts),
		boards: db.Collection(collectionBoards),
	}
}

type mongoPost struct {
	ID        int64  `bson:"_id"`
	BoardID   int64  `bson:"board_id"`
	Title     string `bson:"title"`
	Content   string `bson:"content"`
	OwnerID   int64  `bson:"owner_id"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (m mongoPost) toDomain() *domain.Post {
	return &domain.Post{
		ID:        m.ID,
		BoardID:   m.BoardID,
		Title:     m.Title,
		Content:   m.Content,
		OwnerID:   m.OwnerID,
		CreatedAt: unixToTime(m.CreatedAt),
		UpdatedAt: unixToTime(m.UpdatedAt),
	}
}

// Create allocates the id outside the transaction; an aborted insert only
// leaves a gap in the sequence.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionPosts)
	if err != nil {
		return nil, err
	}

	doc := mongoPost{
		ID:        id,
		BoardID:   p.BoardID,
		Title:     p.Title,
		Content:   p.Content,
		OwnerID:   p.OwnerID,
		CreatedAt: p.CreatedAt.Unix(),
		UpdatedAt: p.UpdatedAt.Unix(),
	}

	err = withTx(ctx, r.db, func(sc mongo.SessionContext) error {
		res, err := r.boards.UpdateOne(sc, bson.M{"_id": p.BoardID}, bson.M{"$inc": bson.M{"post_count": 1}})
		if err != nil {
			return fmt.Errorf("increment post_count: %w", err)
		}
		if res.MatchedCount == 0 {
			return domain.ErrBoardNotFound
		}
		if _, err := r.col.InsertOne(sc, doc); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoPost
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mapErr("find post", err, domain.ErrPostNotFound, nil)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":      p.Title,
		"content":    p.Content,
		"updated_at": p.UpdatedAt.Unix(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoPost
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": p.ID}, update, opts).Decode(&doc); err != nil {
		return nil, mapErr("update post", err, domain.ErrPostNotFound, nil)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return withTx(ctx, r.db, func(sc mongo.SessionContext) error {
		var doc mongoPost
		if err := r.col.FindOneAndDelete(sc, bson.M{"_id": id}).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domain.ErrPostNotFound
			}
			return fmt.Errorf("delete post: %w", err)
		}
		_, err := r.boards.UpdateOne(sc,
			bson.M{"_id": doc.BoardID, "post_count": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"post_count": -1}},
		)
		if err != nil {
			return fmt.Errorf("decrement post_count: %w", err)
		}
		return nil
	})
}

func (r *PostRepository) ListByBoard(ctx context.Context, f ports.ListPostsFilter) (*pagination.Page[*domain.Post], error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	page := f.Page.Normalize()
	inBoard := bson.M{"board_id": f.BoardID}

	total, err := r.col.CountDocuments(ctx, inBoard)
	if err != nil {
		return nil, mapErr("count posts", err, nil, nil)
	}

	filter := inBoard
	if page.HasCursor() {
		filter = bson.M{"board_id": f.BoardID, "_id": bson.M{"$gt": page.Cursor}}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.FetchSize()))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr("list posts", err, nil, nil)
	}
	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr("list posts", err, nil, nil)
	}

	posts := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toDomain())
	}
	return pagination.NewPage(total, posts, page.Limit, func(p *domain.Post) int64 { return p.ID }), nil
}
