package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/quocanhngo/signalsender/internal/model"
)

// RecipientStore persists notification recipients
type RecipientStore interface {
	Create(ctx context.Context, email string) (*model.Recipient, error)
	FindActive(ctx context.Context) (*model.Recipient, error)
	List(ctx context.Context) ([]model.Recipient, error)
}

// RecipientService handles alert recipient registration
type RecipientService struct {
	store    RecipientStore
	validate *validator.Validate
}

func NewRecipientService(store RecipientStore) *RecipientService {
	return &RecipientService{
		store:    store,
		validate: validator.New(),
	}
}

// Register records a new active recipient. Earlier registrations are kept as
// history; the newest one receives alerts.
func (s *RecipientService) Register(ctx context.Context, email string) (*model.Recipient, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: "Email is required"}
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, &ValidationError{Field: "email", Message: "Invalid email address"}
	}
	return s.store.Create(ctx, email)
}

// Active returns the current recipient, or nil when none is registered
func (s *RecipientService) Active(ctx context.Context) (*model.Recipient, error) {
	return s.store.FindActive(ctx)
}

// History returns every registration, newest first
func (s *RecipientService) History(ctx context.Context) ([]model.Recipient, error) {
	return s.store.List(ctx)
}
