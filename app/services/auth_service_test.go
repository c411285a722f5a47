package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/app/services"
	"github.com/glowmart/glowmart/pkg/apperr"
	"github.com/glowmart/glowmart/pkg/auth"
)

func sampleSignup() services.SignupInput {
	return services.SignupInput{
		Phone:    "9876543210",
		Name:     "Aditi",
		Password: "user123",
		Address: models.Address{
			Line1: "12 MG Road", City: "Bengaluru", State: "Karnataka",
			Pincode: "560001", Country: "India",
		},
	}
}

func TestSignupThenLogin(t *testing.T) {
	svc := services.NewAuthService(newFakePrincipalStore())

	u, err := svc.SignupUser(context.Background(), sampleSignup())
	require.NoError(t, err)
	assert.False(t, u.ID.IsZero())
	assert.NotEqual(t, "user123", u.PasswordHash, "password must never be stored in clear")

	token, logged, err := svc.LoginUser(context.Background(), "9876543210", "user123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.PrincipalID)
	assert.Equal(t, auth.RoleUser, claims.Role)
}

func TestSignupDuplicatePhone(t *testing.T) {
	svc := services.NewAuthService(newFakePrincipalStore())

	_, err := svc.SignupUser(context.Background(), sampleSignup())
	require.NoError(t, err)

	_, err = svc.SignupUser(context.Background(), sampleSignup())
	assert.True(t, apperr.IsCode(err, apperr.CodeAlreadyExists), "got %v", err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := services.NewAuthService(newFakePrincipalStore())
	_, err := svc.SignupUser(context.Background(), sampleSignup())
	require.NoError(t, err)

	_, _, err = svc.LoginUser(context.Background(), "9876543210", "nope")
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthenticated), "got %v", err)
}

func TestLoginUnknownPhone(t *testing.T) {
	svc := services.NewAuthService(newFakePrincipalStore())

	_, _, err := svc.LoginUser(context.Background(), "0000000000", "whatever")
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthenticated), "got %v", err)
}

func TestAdminLoginIssuesAdminRole(t *testing.T) {
	svc := services.NewAuthService(newFakePrincipalStore())

	admin, err := svc.RegisterAdmin(context.Background(), "admin", "admin")
	require.NoError(t, err)

	token, err := svc.LoginAdmin(context.Background(), "admin", "admin")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID.Hex(), claims.PrincipalID)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestAdminNamespaceDisjointFromUsers(t *testing.T) {
	store := newFakePrincipalStore()
	svc := services.NewAuthService(store)

	_, err := svc.SignupUser(context.Background(), sampleSignup())
	require.NoError(t, err)

	// A user's phone never authenticates as an admin username.
	_, err = svc.LoginAdmin(context.Background(), "9876543210", "user123")
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthenticated), "got %v", err)
}
