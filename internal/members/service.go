package members

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Service owns the in-memory roster.
type Service struct {
	mu      sync.RWMutex
	byID    map[string]*Member
	byEmail map[string]string
}

// NewService builds an empty roster.
func NewService() *Service {
	return &Service{
		byID:    make(map[string]*Member),
		byEmail: make(map[string]string),
	}
}

// Create registers a new member with active status.
func (s *Service) Create(ctx context.Context, input CreateInput) (Member, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if fullName == "" || email == "" || input.Role == "" {
		return Member{}, ErrInvalidArgument
	}
	hash := ""
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return Member{}, err
		}
		hash = string(hashed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[email]; taken {
		return Member{}, ErrDuplicateEmail
	}
	member := Member{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		Role:         input.Role,
		Status:       StatusActive,
		ClassID:      input.ClassID,
		DepartmentID: input.DepartmentID,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	s.byID[member.ID] = &member
	s.byEmail[email] = member.ID
	return member, nil
}

// Get fetches one member by ID.
func (s *Service) Get(ctx context.Context, id string) (Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.byID[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	return *member, nil
}

// FindByEmail fetches one member by email, case-insensitively.
func (s *Service) FindByEmail(ctx context.Context, email string) (Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Member{}, ErrNotFound
	}
	return *s.byID[id], nil
}

// List returns members matching the filter, collated by full name.
func (s *Service) List(ctx context.Context, filter Filter) []Member {
	s.mu.RLock()
	result := make([]Member, 0, len(s.byID))
	for _, member := range s.byID {
		if filter.Role != "" && member.Role != filter.Role {
			continue
		}
		if filter.Status != "" && member.Status != filter.Status {
			continue
		}
		result = append(result, *member)
	}
	s.mu.RUnlock()

	// Collators keep internal buffers, so each call builds its own.
	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(result, func(i, j int) bool {
		return collator.CompareString(result[i].FullName, result[j].FullName) < 0
	})
	return result
}

// UpdateStatus moves a member to a new standing.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Member, error) {
	if !status.Valid() {
		return Member{}, ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.byID[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	member.Status = status
	return *member, nil
}

// SetInstrumentTypes replaces the instrument types a member trains.
func (s *Service) SetInstrumentTypes(ctx context.Context, id string, types []string) (Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.byID[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	member.InstrumentTypes = append([]string(nil), types...)
	return *member, nil
}
