package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/artem13815/accounts/pkg/auth"
)

const usersCollection = "users"

// userDocument is the stored shape of auth.User. The id is kept as its
// canonical string so documents stay readable from the shell.
type userDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	FirstName    string    `bson:"firstName"`
	LastName     string    `bson:"lastName"`
	PasswordHash string    `bson:"password"`
	ProfileImg   string    `bson:"profileImg"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

// UserRepository implements auth.UserRepository on a MongoDB collection with
// a unique index on email.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository ensures the email index exists before returning.
func NewUserRepository(ctx context.Context, db *mongo.Database) (*UserRepository, error) {
	repo := &UserRepository{coll: db.Collection(usersCollection)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *UserRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user auth.User) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: auth.NormalizeEmail(email)}})
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, patch auth.ProfilePatch) (auth.User, error) {
	var doc userDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		updateFor(patch, time.Now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, err
	}
	return fromDocument(doc)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (auth.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, err
	}
	return fromDocument(doc)
}

// updateFor builds a $set touching only the supplied fields.
func updateFor(patch auth.ProfilePatch, now time.Time) bson.D {
	set := bson.D{}
	if patch.FirstName != nil {
		set = append(set, bson.E{Key: "firstName", Value: *patch.FirstName})
	}
	if patch.LastName != nil {
		set = append(set, bson.E{Key: "lastName", Value: *patch.LastName})
	}
	if patch.ProfileImg != nil {
		set = append(set, bson.E{Key: "profileImg", Value: *patch.ProfileImg})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: now})
	return bson.D{{Key: "$set", Value: set}}
}

func toDocument(u auth.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Email:        auth.NormalizeEmail(u.Email),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		ProfileImg:   u.ProfileImg,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromDocument(d userDocument) (auth.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return auth.User{}, fmt.Errorf("stored user id %q: %w", d.ID, err)
	}
	return auth.User{
		ID:           id,
		Email:        d.Email,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PasswordHash: d.PasswordHash,
		ProfileImg:   d.ProfileImg,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}
