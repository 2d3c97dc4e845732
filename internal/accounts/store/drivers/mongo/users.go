package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userdock/userdock/internal/accounts/domain"
	"github.com/userdock/userdock/internal/accounts/store"
)

type usersRepo struct {
	coll *mongo.Collection
}

// userDoc is the BSON shape of a user record.
type userDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Email        string             `bson:"email"`
	Gender       string             `bson:"gender"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not a valid ObjectID, so it cannot name any record.
		return domain.User{}, store.ErrNotFound
	}

	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(doc), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(doc), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	doc := userDoc{
		ID:           primitive.NewObjectID(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Email:        u.Email,
		Gender:       u.Gender,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		// Unique index violations on username or email land here; this is
		// the atomic uniqueness check, the pre-lookup in the service is
		// only for the friendlier error path.
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, store.ErrAlreadyExists
		}
		return domain.User{}, err
	}

	return mapUser(doc), nil
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func mapUser(doc userDoc) domain.User {
	return domain.User{
		ID:           doc.ID.Hex(),
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		Email:        doc.Email,
		Gender:       doc.Gender,
		CreatedAt:    doc.CreatedAt,
	}
}
