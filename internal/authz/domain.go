// Package authz answers whether an actor role may perform an action.
// The role to permission table is process-wide configuration, loaded once
// and never mutated afterwards.
package authz

// Role names an actor category. Roles are assigned at member creation and
// never reassigned here.
type Role string

const (
	RoleClubLeader       Role = "club-leader"
	RoleDepartmentLeader Role = "department-leader"
	RoleClassLeader      Role = "class-leader"
	RoleTrainer          Role = "trainer"
	RoleTrainee          Role = "trainee"
	RoleInventoryManager Role = "inventory-manager"
	RoleMemberManager    Role = "member-manager"
	RoleGuest            Role = "guest"
)

// Permission is an opaque token naming one allowed action.
type Permission string

const (
	PermViewAll            Permission = "view-all"
	PermManageUsers        Permission = "manage-users"
	PermManageDepartments  Permission = "manage-departments"
	PermManageClasses      Permission = "manage-classes"
	PermManageTraining     Permission = "manage-training"
	PermManageInventory    Permission = "manage-inventory"
	PermManageEvents       Permission = "manage-events"
	PermViewReports        Permission = "view-reports"
	PermManageMembers      Permission = "manage-members"
	PermViewDepartment     Permission = "view-department"
	PermManageClassLeaders Permission = "manage-class-leaders"
	PermViewClassReports   Permission = "view-class-reports"
	PermManageClass        Permission = "manage-class"
	PermManageClassMembers Permission = "manage-class-members"
	PermScheduleSessions   Permission = "schedule-sessions"
	PermCreateSessions     Permission = "create-sessions"
	PermUploadMaterials    Permission = "upload-materials"
	PermRateTrainees       Permission = "rate-trainees"
	PermAccessLibrary      Permission = "access-library"
	PermViewSchedule       Permission = "view-schedule"
	PermSubmitHomework     Permission = "submit-homework"
	PermManageInstruments  Permission = "manage-instruments"
	PermManageClothing     Permission = "manage-clothing"
	PermViewAssignments    Permission = "view-assignments"
	PermGenerateReports    Permission = "generate-reports"
	PermManageMemberStatus Permission = "manage-member-status"
	PermViewMembers        Permission = "view-members"
	PermViewEvents         Permission = "view-events"
	PermViewClubInfo       Permission = "view-club-info"
)

// DefaultTable returns the club's standard role to permission mapping.
func DefaultTable() map[Role][]Permission {
	return map[Role][]Permission{
		RoleClubLeader: {
			PermViewAll,
			PermManageUsers,
			PermManageDepartments,
			PermManageClasses,
			PermManageTraining,
			PermManageInventory,
			PermManageEvents,
			PermViewReports,
			PermManageMembers,
		},
		RoleDepartmentLeader: {
			PermViewDepartment,
			PermManageClassLeaders,
			PermManageTraining,
			PermViewClassReports,
		},
		RoleClassLeader: {
			PermManageClass,
			PermManageClassMembers,
			PermScheduleSessions,
			PermManageTraining,
		},
		RoleTrainer: {
			PermCreateSessions,
			PermUploadMaterials,
			PermRateTrainees,
			PermAccessLibrary,
		},
		RoleTrainee: {
			PermViewSchedule,
			PermAccessLibrary,
			PermSubmitHomework,
		},
		RoleInventoryManager: {
			PermManageInstruments,
			PermManageClothing,
			PermViewAssignments,
		},
		RoleMemberManager: {
			PermGenerateReports,
			PermManageMemberStatus,
			PermViewMembers,
		},
		RoleGuest: {
			PermViewEvents,
			PermViewClubInfo,
		},
	}
}
