// Package service implements the Auth Service and the Notes API over
// injected stores. Both services are stateless apart from their
// dependencies, so tests can hand them in-memory stores.
package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/crucial707/notehub/internal/errs"
	"github.com/crucial707/notehub/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserStore is the credential store.
type UserStore interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// NoteStore is the note store. Create assigns the id.
type NoteStore interface {
	List(ctx context.Context, limit, offset int) ([]models.Note, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (models.Note, error)
	Create(ctx context.Context, n models.Note) (models.Note, error)
	Update(ctx context.Context, n models.Note) (models.Note, error)
	Delete(ctx context.Context, id int64) error
}

// AuditStore records note mutations.
type AuditStore interface {
	Log(ctx context.Context, userID, action string, noteID int64) error
	List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validate runs struct validation and converts failures to *errs.ValidationError.
func validate(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &errs.ValidationError{Fields: fields}
}
