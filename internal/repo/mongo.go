package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/xxxsen/cardkeep/internal/config"
	"github.com/xxxsen/cardkeep/internal/model"
	appErr "github.com/xxxsen/cardkeep/internal/pkg/errors"
)

const (
	usersCollection = "users"
	cardsCollection = "cards"
)

func init() {
	Register(config.StoreMongo, openMongoStore)
}

type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	users  *mongoUserRepo
	cards  *mongoCardRepo
}

func openMongoStore(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if timeout := cfg.Timeout(); timeout > 0 {
		opts.SetTimeout(timeout)
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return newMongoStore(client, cfg.Database), nil
}

func newMongoStore(client *mongo.Client, database string) *mongoStore {
	db := client.Database(database)
	return &mongoStore{
		client: client,
		db:     db,
		users:  &mongoUserRepo{coll: db.Collection(usersCollection)},
		cards:  &mongoCardRepo{coll: db.Collection(cardsCollection)},
	}
}

func (s *mongoStore) Users() UserStore {
	return s.users
}

func (s *mongoStore) Cards() CardStore {
	return s.cards
}

// Migrate creates the unique indexes that back email and card id uniqueness.
func (s *mongoStore) Migrate(ctx context.Context) error {
	_, err := s.users.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	_, err = s.cards.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_id"),
		},
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_owner"),
		},
	})
	if err != nil {
		return fmt.Errorf("create cards index: %w", err)
	}
	return nil
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

func (r *mongoUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return appErr.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *mongoUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErr.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

type mongoCardRepo struct {
	coll *mongo.Collection
}

func (r *mongoCardRepo) Create(ctx context.Context, card *model.Card) error {
	if _, err := r.coll.InsertOne(ctx, card); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return appErr.ErrConflict
		}
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

func (r *mongoCardRepo) ListByOwner(ctx context.Context, owner string) ([]model.Card, error) {
	cursor, err := r.coll.Find(ctx, bson.D{{Key: "owner", Value: owner}}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find cards: %w", err)
	}
	cards := make([]model.Card, 0)
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	return cards, nil
}

func (r *mongoCardRepo) GetByOwner(ctx context.Context, owner, id string) (*model.Card, error) {
	var card model.Card
	filter := bson.D{{Key: "id", Value: id}, {Key: "owner", Value: owner}}
	if err := r.coll.FindOne(ctx, filter).Decode(&card); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErr.ErrNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	return &card, nil
}

func (r *mongoCardRepo) DeleteByOwner(ctx context.Context, owner, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}, {Key: "owner", Value: owner}})
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if result.DeletedCount == 0 {
		return appErr.ErrNotFound
	}
	return nil
}
