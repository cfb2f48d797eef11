// Package auth validates member credentials and binds sessions to roles.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/ensemble-club/ensemble/internal/members"
	"github.com/ensemble-club/ensemble/internal/shared"
)

// Roster abstracts the member lookup auth needs.
type Roster interface {
	FindByEmail(ctx context.Context, email string) (members.Member, error)
	Get(ctx context.Context, id string) (members.Member, error)
}

// Service wraps authentication business rules.
type Service struct {
	roster Roster
}

// NewService constructs a new Service.
func NewService(roster Roster) *Service {
	return &Service{roster: roster}
}

// Authenticate validates email/password credentials. Every failure mode maps
// to the same error so callers cannot probe which emails exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (members.Member, error) {
	member, err := s.roster.FindByEmail(ctx, email)
	if err != nil {
		return members.Member{}, shared.ErrInvalidCredentials
	}
	if member.Status != members.StatusActive {
		return members.Member{}, shared.ErrInvalidCredentials
	}
	if member.PasswordHash == "" {
		return members.Member{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return members.Member{}, shared.ErrInvalidCredentials
	}
	return member, nil
}

// CurrentMember resolves the member behind a session user ID.
func (s *Service) CurrentMember(ctx context.Context, id string) (members.Member, error) {
	member, err := s.roster.Get(ctx, id)
	if err != nil {
		return members.Member{}, shared.ErrNotFound
	}
	return member, nil
}
