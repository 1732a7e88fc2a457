package users

import (
	"context"
	"testing"

	"github.com/denimhub/denimhub-backend/pkg/config"
	"github.com/denimhub/denimhub-backend/pkg/db/dbtest"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestResolveCreatesGuestUser(t *testing.T) {
	client := dbtest.Open(t)
	p := NewProvisioner(testPasswordCfg)
	ctx := context.Background()

	customer, err := p.Resolve(ctx, client.DB(), CustomerInput{
		CreateNewUser: true,
		Name:          "Budi",
		Email:         " Budi@Example.com ",
		Phone:         "0811",
		Password:      "rahasia123",
	})
	require.NoError(t, err)
	require.NotNil(t, customer.UserID)
	assert.True(t, customer.CreatedUser)
	assert.Nil(t, customer.GuestEmail)

	var user models.User
	require.NoError(t, client.DB().First(&user, *customer.UserID).Error)
	assert.Equal(t, enums.UserRoleGuest, user.Role)
	assert.Equal(t, "budi@example.com", *user.Email)

	ok, err := security.VerifyPassword("rahasia123", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = p.Resolve(ctx, client.DB(), CustomerInput{CreateNewUser: true, Name: "Budi 2", Email: "budi@example.com"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Equal(t, "email already registered", pkgerrors.As(err).Message())
}

func TestResolveExistingAndGuest(t *testing.T) {
	client := dbtest.Open(t)
	p := NewProvisioner(testPasswordCfg)
	ctx := context.Background()

	user := models.User{Name: "Sari", PasswordHash: "x", Role: enums.UserRoleCustomer}
	require.NoError(t, client.DB().Create(&user).Error)

	customer, err := p.Resolve(ctx, client.DB(), CustomerInput{UserID: &user.ID})
	require.NoError(t, err)
	assert.Equal(t, user.ID, *customer.UserID)

	missing := uint64(999)
	_, err = p.Resolve(ctx, client.DB(), CustomerInput{UserID: &missing})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	guest, err := p.Resolve(ctx, client.DB(), CustomerInput{Email: "walkin@example.com"})
	require.NoError(t, err)
	assert.Nil(t, guest.UserID)
	assert.Equal(t, "walkin@example.com", *guest.GuestEmail)

	anonymous, err := p.Resolve(ctx, client.DB(), CustomerInput{})
	require.NoError(t, err)
	assert.Nil(t, anonymous.UserID)
	assert.Nil(t, anonymous.GuestEmail)
}
