package users

import (
	"context"
	"errors"
	"strings"

	"github.com/denimhub/denimhub-backend/pkg/config"
	"github.com/denimhub/denimhub-backend/pkg/db"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/security"
	"gorm.io/gorm"
)

const generatedPasswordLength = 12

// CustomerInput describes who a manual order is for.
type CustomerInput struct {
	CreateNewUser bool
	Name          string
	Email         string
	Phone         string
	Password      string
	UserID        *uint64
}

// Customer is the resolved owner of an order: a user id, a guest email, or neither.
type Customer struct {
	UserID      *uint64
	GuestEmail  *string
	CreatedUser bool
}

// Provisioner resolves or creates the customer account for admin-entered orders.
type Provisioner struct {
	passwordCfg config.PasswordConfig
}

func NewProvisioner(cfg config.PasswordConfig) *Provisioner {
	return &Provisioner{passwordCfg: cfg}
}

// Resolve runs on the caller's transaction so a failed order never leaves a stray account.
func (p *Provisioner) Resolve(ctx context.Context, tx *gorm.DB, input CustomerInput) (Customer, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if input.CreateNewUser && email != "" {
		return p.createGuest(ctx, tx, input, email)
	}

	if input.UserID != nil && *input.UserID != 0 {
		var count int64
		if err := tx.WithContext(ctx).Model(&models.User{}).Where("id = ?", *input.UserID).Count(&count).Error; err != nil {
			return Customer{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check customer")
		}
		if count == 0 {
			return Customer{}, pkgerrors.Newf(pkgerrors.CodeValidation, "user %d does not exist", *input.UserID)
		}
		id := *input.UserID
		return Customer{UserID: &id}, nil
	}

	if email != "" {
		return Customer{GuestEmail: &email}, nil
	}
	return Customer{}, nil
}

func (p *Provisioner) createGuest(ctx context.Context, tx *gorm.DB, input CustomerInput, email string) (Customer, error) {
	var existing int64
	if err := tx.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return Customer{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if existing > 0 {
		return Customer{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	password := input.Password
	if password == "" {
		generated, err := security.GenerateTempPassword(generatedPasswordLength)
		if err != nil {
			return Customer{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
		}
		password = generated
	}
	hash, err := security.HashPassword(password, p.passwordCfg)
	if err != nil {
		return Customer{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        &email,
		PasswordHash: hash,
		Role:         enums.UserRoleGuest,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = &phone
	}
	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return Customer{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return Customer{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return Customer{UserID: &user.ID, CreatedUser: true}, nil
}

// IsConflict reports whether err is the duplicate email failure.
func IsConflict(err error) bool {
	var typed *pkgerrors.Error
	return errors.As(err, &typed) && typed.Code() == pkgerrors.CodeConflict
}
