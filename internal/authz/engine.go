package authz

// Engine answers "may role R perform action P" against a fixed table.
// It holds no other state and is safe to share across concurrent callers
// without locking.
type Engine struct {
	table map[Role]map[Permission]struct{}
}

// NewEngine builds an Engine from a role to permission-list table. The table
// is copied; later mutation of the argument does not affect the engine.
func NewEngine(table map[Role][]Permission) *Engine {
	compiled := make(map[Role]map[Permission]struct{}, len(table))
	for role, perms := range table {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		compiled[role] = set
	}
	return &Engine{table: compiled}
}

// NewDefaultEngine builds an Engine from DefaultTable.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultTable())
}

// Allows reports whether the role holds the permission. Unknown roles are
// fail-closed: the answer is false, never an error.
func (e *Engine) Allows(role Role, perm Permission) bool {
	set, ok := e.table[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// AllowsAny reports whether the role holds at least one of the permissions.
func (e *Engine) AllowsAny(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if e.Allows(role, p) {
			return true
		}
	}
	return false
}

// AllowsAll reports whether the role holds every one of the permissions.
func (e *Engine) AllowsAll(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if !e.Allows(role, p) {
			return false
		}
	}
	return true
}

// Permissions returns the permission set configured for a role.
func (e *Engine) Permissions(role Role) []Permission {
	set, ok := e.table[role]
	if !ok {
		return nil
	}
	perms := make([]Permission, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	return perms
}
