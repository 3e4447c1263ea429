package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/forum-system/internal/core/domain"
)

type AccountRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{db: db, col: db.Collection(collectionAccounts)}
}

type mongoAccount struct {
	ID           int64  `bson:"_id"`
	Email        string `bson:"email"`
	FullName     string `bson:"full_name"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
}

func (m mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:           m.ID,
		Email:        m.Email,
		FullName:     m.FullName,
		PasswordHash: m.PasswordHash,
		CreatedAt:    unixToTime(m.CreatedAt),
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionAccounts)
	if err != nil {
		return nil, err
	}

	doc := mongoAccount{
		ID:           id,
		Email:        domain.NormalizeEmail(a.Email),
		FullName:     a.FullName,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt.Unix(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapErr("insert account", err, nil, domain.ErrEmailTaken)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr("find account", err, domain.ErrAccountNotFound, nil)
	}
	return doc.toDomain(), nil
}
