package members

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ensemble-club/ensemble/internal/authz"
)

func TestCreateAndLookup(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	member, err := svc.Create(ctx, CreateInput{
		FullName: "Jane Trainee",
		Email:    "Trainee@Club.com",
		Role:     authz.RoleTrainee,
		ClassID:  "1",
	})
	require.NoError(t, err)
	require.Equal(t, StatusActive, member.Status)
	require.Equal(t, "trainee@club.com", member.Email)

	found, err := svc.FindByEmail(ctx, "TRAINEE@club.com")
	require.NoError(t, err)
	require.Equal(t, member.ID, found.ID)

	_, err = svc.Create(ctx, CreateInput{FullName: "Dup", Email: "trainee@club.com", Role: authz.RoleTrainee})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.Create(ctx, CreateInput{FullName: "", Email: "x@club.com", Role: authz.RoleTrainee})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersAndOrdering(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	for _, m := range []CreateInput{
		{FullName: "Zoe Percussion", Email: "zoe@club.com", Role: authz.RoleTrainee},
		{FullName: "adam Brass", Email: "adam@club.com", Role: authz.RoleTrainee},
		{FullName: "Mia Strings", Email: "mia@club.com", Role: authz.RoleTrainer},
	} {
		_, err := svc.Create(ctx, m)
		require.NoError(t, err)
	}

	all := svc.List(ctx, Filter{})
	require.Len(t, all, 3)
	// Collation ignores case, so "adam" sorts before "Mia" and "Zoe".
	require.Equal(t, "adam Brass", all[0].FullName)
	require.Equal(t, "Mia Strings", all[1].FullName)
	require.Equal(t, "Zoe Percussion", all[2].FullName)

	trainees := svc.List(ctx, Filter{Role: authz.RoleTrainee})
	require.Len(t, trainees, 2)
}

func TestUpdateStatus(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	member, err := svc.Create(ctx, CreateInput{FullName: "Jane Trainee", Email: "jane@club.com", Role: authz.RoleTrainee})
	require.NoError(t, err)

	member, err = svc.UpdateStatus(ctx, member.ID, StatusGraduated)
	require.NoError(t, err)
	require.Equal(t, StatusGraduated, member.Status)

	graduated := svc.List(ctx, Filter{Status: StatusGraduated})
	require.Len(t, graduated, 1)

	_, err = svc.UpdateStatus(ctx, member.ID, Status("expelled"))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.UpdateStatus(ctx, "missing", StatusInactive)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSeedDefaults(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	require.NoError(t, svc.SeedDefaults(ctx, "password"))

	admin, err := svc.FindByEmail(ctx, "admin@club.com")
	require.NoError(t, err)
	require.Equal(t, authz.RoleClubLeader, admin.Role)
	require.NotEmpty(t, admin.PasswordHash)

	trainer, err := svc.FindByEmail(ctx, "trainer@club.com")
	require.NoError(t, err)
	require.Equal(t, []string{"Piano", "Guitar"}, trainer.InstrumentTypes)

	// Seeding twice collides on every email.
	require.ErrorIs(t, svc.SeedDefaults(ctx, "password"), ErrDuplicateEmail)
}
