// Package mongostore implements auth.UserStore on a MongoDB collection.
// Every lookup filters out deactivated users so soft-deleted accounts are
// invisible to the rest of the system.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cinevault/cinevault/pkg/auth"
)

const usersCollection = "users"

// UserStore persists user records in the "users" collection.
type UserStore struct {
	col *mongo.Collection
}

// New creates a store bound to the given database.
func New(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// userDoc is the storage representation of auth.User.
type userDoc struct {
	ID                   string     `bson:"_id"`
	Username             string     `bson:"username"`
	Email                string     `bson:"email"`
	Photo                string     `bson:"photo,omitempty"`
	Password             string     `bson:"password,omitempty"`
	PasswordChangedAt    *time.Time `bson:"passwordChangedAt,omitempty"`
	PasswordResetToken   string     `bson:"passwordResetToken,omitempty"`
	PasswordResetExpires *time.Time `bson:"passwordResetExpires,omitempty"`
	Active               bool       `bson:"active"`
	CreatedAt            time.Time  `bson:"createdAt"`
	UpdatedAt            time.Time  `bson:"updatedAt"`
}

func toDoc(u *auth.User) userDoc {
	return userDoc{
		ID:                   u.ID.String(),
		Username:             u.Username,
		Email:                u.Email,
		Photo:                u.Photo,
		Password:             u.PasswordHash,
		PasswordChangedAt:    u.PasswordChangedAt,
		PasswordResetToken:   u.PasswordResetToken,
		PasswordResetExpires: u.PasswordResetExpires,
		Active:               u.Active,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func (d userDoc) toUser() (*auth.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed user id %q: %w", d.ID, err)
	}

	return &auth.User{
		ID:                   id,
		Username:             d.Username,
		Email:                d.Email,
		Photo:                d.Photo,
		PasswordHash:         d.Password,
		PasswordChangedAt:    d.PasswordChangedAt,
		PasswordResetToken:   d.PasswordResetToken,
		PasswordResetExpires: d.PasswordResetExpires,
		Active:               d.Active,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}, nil
}

// activeOnly excludes soft-deleted records from a filter.
func activeOnly(filter bson.M) bson.M {
	filter["active"] = bson.M{"$ne": false}
	return filter
}

var hidePassword = options.FindOne().SetProjection(bson.M{"password": 0})

func (s *UserStore) CreateUser(ctx context.Context, user *auth.User) error {
	_, err := s.col.InsertOne(ctx, toDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return s.findOne(ctx, activeOnly(bson.M{"_id": id.String()}), hidePassword)
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findOne(ctx, activeOnly(bson.M{"email": email}), hidePassword)
}

func (s *UserStore) GetUserByEmailWithPassword(ctx context.Context, email string) (*auth.User, error) {
	return s.findOne(ctx, activeOnly(bson.M{"email": email}))
}

func (s *UserStore) GetUserByResetToken(ctx context.Context, digest string) (*auth.User, error) {
	return s.findOne(ctx, activeOnly(bson.M{"passwordResetToken": digest}), hidePassword)
}

func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string, changedAt time.Time) error {
	res, err := s.col.UpdateOne(ctx,
		activeOnly(bson.M{"_id": id.String()}),
		bson.M{
			"$set": bson.M{
				"password":          hash,
				"passwordChangedAt": changedAt,
				"updatedAt":         time.Now(),
			},
			// A consumed or superseded reset token must not stay valid.
			"$unset": bson.M{
				"passwordResetToken":   "",
				"passwordResetExpires": "",
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, username, email, photo string) (*auth.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if username != "" {
		set["username"] = username
	}
	if email != "" {
		set["email"] = email
	}
	if photo != "" {
		set["photo"] = photo
	}

	var doc userDoc
	err := s.col.FindOneAndUpdate(ctx,
		activeOnly(bson.M{"_id": id.String()}),
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"password": 0}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, auth.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return doc.toUser()
}

func (s *UserStore) SetResetToken(ctx context.Context, id uuid.UUID, digest string, expires time.Time) error {
	res, err := s.col.UpdateOne(ctx,
		activeOnly(bson.M{"_id": id.String()}),
		bson.M{"$set": bson.M{
			"passwordResetToken":   digest,
			"passwordResetExpires": expires,
			"updatedAt":            time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	res, err := s.col.UpdateOne(ctx,
		activeOnly(bson.M{"_id": id.String()}),
		bson.M{"$set": bson.M{
			"active":    false,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOneOptions]) (*auth.User, error) {
	var doc userDoc
	if err := s.col.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toUser()
}

// Compile-time interface assertion
var _ auth.UserStore = (*UserStore)(nil)
