package authsvc

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mkrupp/bookshop/internal/domain"
)

const (
	maxUsernameLength = 64
	maxPasswordLength = 72 // bcrypt ignores anything longer
)

// ValidateCredentials checks a register or login body.
// The returned error wraps domain.ErrValidation.
func ValidateCredentials(c domain.Credentials) error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required, validation.Length(1, maxUsernameLength)),
		validation.Field(&c.Password, validation.Required, validation.Length(1, maxPasswordLength)),
	)
	if err != nil {
		return errors.Join(domain.ErrValidation, err)
	}

	return nil
}
