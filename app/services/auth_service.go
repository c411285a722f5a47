// Package services holds the domain logic. Services depend on the data
// layer through small interfaces so tests run against in-memory fakes.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/pkg/apperr"
	"github.com/glowmart/glowmart/pkg/auth"
)

// PrincipalStore is the slice of the user repository the auth service
// needs.
type PrincipalStore interface {
	CreateUser(ctx context.Context, u *models.User) (primitive.ObjectID, error)
	FindUserByPhone(ctx context.Context, phone string) (*models.User, error)
	CreateAdmin(ctx context.Context, a *models.Admin) (primitive.ObjectID, error)
	FindAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// AuthService signs principals up and issues their tokens. Users and
// admins live in disjoint namespaces; a token is bound to exactly one
// principal and one role.
type AuthService struct {
	store PrincipalStore
}

func NewAuthService(store PrincipalStore) *AuthService {
	return &AuthService{store: store}
}

// SignupInput is a validated signup request.
type SignupInput struct {
	Phone    string
	Name     string
	Password string
	Address  models.Address
}

// SignupUser registers a new user. The phone's unique index is the
// authority on duplicates, so a concurrent double-signup still yields
// exactly one account and one ALREADY_EXISTS.
func (s *AuthService) SignupUser(ctx context.Context, in SignupInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("could not hash password", err)
	}

	u := &models.User{
		Phone:        in.Phone,
		Name:         in.Name,
		PasswordHash: hash,
		Address:      in.Address,
	}

	id, err := s.store.CreateUser(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.AlreadyExists("phone already registered")
		}
		return nil, apperr.Internal("could not create user", err)
	}
	u.ID = id
	return u, nil
}

// LoginUser verifies the phone/password pair and issues a user token.
// Unknown phone and wrong password both return the same error so the
// endpoint does not leak which phones are registered.
func (s *AuthService) LoginUser(ctx context.Context, phone, password string) (string, *models.User, error) {
	u, err := s.store.FindUserByPhone(ctx, phone)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, apperr.Unauthenticated("invalid phone or password")
		}
		return "", nil, apperr.Internal("could not look up user", err)
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, apperr.Unauthenticated("invalid phone or password")
	}

	token, err := auth.GenerateToken(u.ID.Hex(), auth.RoleUser)
	if err != nil {
		return "", nil, apperr.Internal("could not issue token", err)
	}
	return token, u, nil
}

// RegisterAdmin creates a back-office account.
func (s *AuthService) RegisterAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("could not hash password", err)
	}

	a := &models.Admin{Username: username, PasswordHash: hash}
	id, err := s.store.CreateAdmin(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.AlreadyExists("username already taken")
		}
		return nil, apperr.Internal("could not create admin", err)
	}
	a.ID = id
	return a, nil
}

// LoginAdmin verifies admin credentials and issues an admin token.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (string, error) {
	a, err := s.store.FindAdminByUsername(ctx, username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", apperr.Unauthenticated("invalid credentials")
		}
		return "", apperr.Internal("could not look up admin", err)
	}

	if !auth.CheckPassword(a.PasswordHash, password) {
		return "", apperr.Unauthenticated("invalid credentials")
	}

	token, err := auth.GenerateToken(a.ID.Hex(), auth.RoleAdmin)
	if err != nil {
		return "", apperr.Internal("could not issue token", err)
	}
	return token, nil
}
