// Package repositories is the MongoDB data-access layer. Repositories are
// concrete types over the store's collection handles; services depend on
// them through small interfaces so tests can swap in fakes.
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/pkg/database"
)

// UserRepository persists users and admins. Both principal types live
// here since the admin namespace is just a second collection.
type UserRepository struct {
	users  *mongo.Collection
	admins *mongo.Collection
}

func NewUserRepository(store *database.Store) *UserRepository {
	return &UserRepository{users: store.Users, admins: store.Admins}
}

// CreateUser inserts a new user. A duplicate phone surfaces as a
// mongo duplicate-key error from the unique index; callers translate it
// with mongo.IsDuplicateKeyError.
func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	u.CreatedAt = time.Now()
	res, err := r.users.InsertOne(ctx, u)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// FindUserByPhone returns mongo.ErrNoDocuments for an unknown phone.
func (r *UserRepository) FindUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var u models.User
	if err := r.users.FindOne(ctx, bson.M{"phone": phone}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) CreateAdmin(ctx context.Context, a *models.Admin) (primitive.ObjectID, error) {
	a.CreatedAt = time.Now()
	res, err := r.admins.InsertOne(ctx, a)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *UserRepository) FindAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	if err := r.admins.FindOne(ctx, bson.M{"username": username}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}
