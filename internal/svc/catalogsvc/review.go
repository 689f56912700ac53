package catalogsvc

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mkrupp/bookshop/internal/domain"
)

// ValidateReview checks a review body. A non-positive maxLength disables the length check.
// The returned error wraps domain.ErrValidation.
func ValidateReview(req domain.ReviewRequest, maxLength int) error {
	rules := []validation.Rule{validation.Required, validation.By(notBlank)}
	if maxLength > 0 {
		rules = append(rules, validation.Length(1, maxLength))
	}

	if err := validation.ValidateStruct(&req, validation.Field(&req.Review, rules...)); err != nil {
		return errors.Join(domain.ErrValidation, err)
	}

	return nil
}

var errBlank = errors.New("must not be blank")

func notBlank(value any) error {
	if s, _ := value.(string); strings.TrimSpace(s) == "" {
		return errBlank
	}

	return nil
}
