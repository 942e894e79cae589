package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrEmailMissing marks an identity payload that cannot be linked to an account.
var ErrEmailMissing = errors.New("user email is required")

// Claims carries the identity fields received from the OAuth provider.
type Claims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// SyncFromClaims finds the account for the claimed email, creating it on
// first login and reconciling profile fields when they change. The email is
// the account key; the provider subject is stored alongside it.
func (s *Service) SyncFromClaims(ctx context.Context, claims Claims) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return User{}, ErrEmailMissing
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		user := User{
			ID:         uuid.NewString(),
			GoogleID:   claims.Subject,
			Email:      email,
			Name:       claims.Name,
			PictureURL: claims.Picture,
		}
		if err := s.Repo.Create(ctx, user); err != nil {
			return User{}, fmt.Errorf("create user: %w", err)
		}
		return s.Repo.GetByEmail(ctx, email)
	}
	if err != nil {
		return User{}, err
	}

	updated := existing
	changed := false
	if claims.Subject != "" && existing.GoogleID != claims.Subject {
		updated.GoogleID = claims.Subject
		changed = true
	}
	if claims.Name != "" && existing.Name != claims.Name {
		updated.Name = claims.Name
		changed = true
	}
	if claims.Picture != "" && existing.PictureURL != claims.Picture {
		updated.PictureURL = claims.Picture
		changed = true
	}
	if !changed {
		return existing, nil
	}
	if err := s.Repo.Update(ctx, updated); err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(email) == "" {
		return User{}, errors.New("user email is required")
	}
	return s.Repo.GetByEmail(ctx, email)
}
