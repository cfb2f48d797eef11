package members

import (
	"context"
	"fmt"

	"github.com/ensemble-club/ensemble/internal/authz"
)

type seedMember struct {
	fullName     string
	email        string
	role         authz.Role
	classID      string
	departmentID string
	instruments  []string
}

var defaultRoster = []seedMember{
	{fullName: "Admin Leader", email: "admin@club.com", role: authz.RoleClubLeader},
	{fullName: "Department Leader", email: "dept@club.com", role: authz.RoleDepartmentLeader, departmentID: "1"},
	{fullName: "John Trainer", email: "trainer@club.com", role: authz.RoleTrainer, classID: "1", instruments: []string{"Piano", "Guitar"}},
	{fullName: "Jane Trainee", email: "trainee@club.com", role: authz.RoleTrainee, classID: "1"},
	{fullName: "Inventory Manager", email: "inventory@club.com", role: authz.RoleInventoryManager},
	{fullName: "Reports Manager", email: "reports@club.com", role: authz.RoleMemberManager},
	{fullName: "Guest User", email: "guest@club.com", role: authz.RoleGuest},
}

// SeedDefaults loads the stock roster with a shared starter password. It is
// meant for fresh processes; seeding an already-populated roster fails on the
// first duplicate email.
func (s *Service) SeedDefaults(ctx context.Context, password string) error {
	for _, entry := range defaultRoster {
		member, err := s.Create(ctx, CreateInput{
			FullName:     entry.fullName,
			Email:        entry.email,
			Role:         entry.role,
			ClassID:      entry.classID,
			DepartmentID: entry.departmentID,
			Password:     password,
		})
		if err != nil {
			return fmt.Errorf("members: seed %s: %w", entry.email, err)
		}
		if len(entry.instruments) > 0 {
			if _, err := s.SetInstrumentTypes(ctx, member.ID, entry.instruments); err != nil {
				return fmt.Errorf("members: seed %s: %w", entry.email, err)
			}
		}
	}
	return nil
}
