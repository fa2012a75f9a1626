package docsystem

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"cms/internal/config"
	"cms/internal/domain"
	models "cms/internal/domain/models/docsystem"
	docsysRepo "cms/internal/domain/repositories/docsystem"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// Parentheses are reserved for snapshot names
	noParens = regexp.MustCompile(`^[^()]*$`)
	// The store is flat
	noSeparators = regexp.MustCompile(`^[^/\\]*$`)
)

// NameValidator checks names for new documents and images.
// Rules run in a fixed order and the first failure wins: required,
// reserved characters, extension, separators, length, uniqueness.
// The store is consulted last, only for names it can hold.
type NameValidator struct {
	fileRepo docsysRepo.FileRepository
}

// NewNameValidator creates a new name validator
func NewNameValidator(fileRepo docsysRepo.FileRepository) *NameValidator {
	return &NameValidator{fileRepo: fileRepo}
}

// ValidateNewName returns *domain.ValidationError for an unacceptable name,
// or a plain error when the store could not be consulted.
func (v *NameValidator) ValidateNewName(ctx context.Context, name string, kind models.NameKind) error {
	allowed := kind.Extensions()

	err := validation.Validate(name,
		validation.Required.ErrorObject(validation.NewError(
			domain.ReasonNameRequired, "A name is required.")),
		validation.Match(noParens).ErrorObject(validation.NewError(
			domain.ReasonReservedCharacter, "Names cannot contain parentheses.")),
		validation.By(extensionIn(allowed)),
		validation.Match(noSeparators).ErrorObject(validation.NewError(
			domain.ReasonInvalidCharacter, "Names cannot contain slashes.")),
		validation.By(maxBytes(config.MaxDocumentNameLength)),
		validation.By(v.notInUse(ctx)),
	)
	return toDomainError(err)
}

// extensionIn requires a non-empty stem and an allowed extension, so a bare
// ".md" has no extension at all
func extensionIn(allowed []string) validation.RuleFunc {
	return func(value interface{}) error {
		stem, ext := models.SplitExt(value.(string))
		if stem == "" || !slices.Contains(allowed, ext) {
			return validation.NewError(domain.ReasonInvalidExtension,
				fmt.Sprintf("Invalid extension. Allowed: %s", strings.Join(allowed, ", ")))
		}
		return nil
	}
}

// maxBytes limits the encoded length; validation.Length counts runes
func maxBytes(limit int) validation.RuleFunc {
	return func(value interface{}) error {
		if len(value.(string)) > limit {
			return validation.NewError(domain.ReasonNameTooLong,
				fmt.Sprintf("Names cannot be longer than %d bytes.", limit))
		}
		return nil
	}
}

func (v *NameValidator) notInUse(ctx context.Context) validation.RuleFunc {
	return func(value interface{}) error {
		name := value.(string)
		exists, err := v.fileRepo.Exists(ctx, name)
		if err != nil {
			return validation.NewInternalError(err)
		}
		if exists {
			return validation.NewError(domain.ReasonNameInUse, fmt.Sprintf("%s already exists.", name))
		}
		return nil
	}
}

// toDomainError maps ozzo-validation results onto the domain taxonomy
func toDomainError(err error) error {
	if err == nil {
		return nil
	}
	if ie, ok := err.(validation.InternalError); ok {
		return fmt.Errorf("validate name: %w", ie.InternalError())
	}
	if ve, ok := err.(validation.Error); ok {
		return &domain.ValidationError{Reason: ve.Code(), Message: ve.Message()}
	}
	return err
}
