package access

// Matrix is the static role to resource to action mapping. It is built
// once at process start and treated as immutable; any (role, resource)
// pair absent from it denies all actions.
type Matrix map[Role]map[Resource]map[Action]struct{}

// NewMatrix copies grants into an immutable-by-convention Matrix.
func NewMatrix(grants map[Role]map[Resource][]Action) Matrix {
	m := make(Matrix, len(grants))
	for role, byResource := range grants {
		m[role] = make(map[Resource]map[Action]struct{}, len(byResource))
		for resource, actions := range byResource {
			set := make(map[Action]struct{}, len(actions))
			for _, a := range actions {
				set[a] = struct{}{}
			}
			m[role][resource] = set
		}
	}
	return m
}

// grants reports whether the matrix allows action on resource for role.
func (m Matrix) grants(role Role, resource Resource, action Action) bool {
	byResource, ok := m[role]
	if !ok {
		return false
	}
	actions, ok := byResource[resource]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

// Hierarchy maps each role to an authority level, strictly increasing
// with authority. Used only for at-least-role checks; independent of the
// matrix.
type Hierarchy map[Role]int

// maxLevel returns the highest level present in the hierarchy.
func (h Hierarchy) maxLevel() int {
	max := 0
	for _, level := range h {
		if level > max {
			max = level
		}
	}
	return max
}

var readOnly = []Action{ActionRead}

var readWrite = []Action{ActionRead, ActionCreate, ActionUpdate}

var fullControl = []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}

// DefaultMatrix returns the production permission matrix. Gaps are
// denials, never errors.
func DefaultMatrix() Matrix {
	all := make(map[Resource][]Action, len(Resources()))
	for _, resource := range Resources() {
		all[resource] = fullControl
	}
	return NewMatrix(map[Role]map[Resource][]Action{
		RoleViewer: {
			ResourcePersons:  readOnly,
			ResourcePrograms: readOnly,
			ResourceLetters:  readOnly,
		},
		RoleEditor: {
			ResourcePersons:  {ActionRead, ActionUpdate},
			ResourcePrograms: readWrite,
			ResourceLetters:  readWrite,
		},
		RoleMinistryLeader: {
			ResourcePersons:  readWrite,
			ResourcePrograms: fullControl,
			ResourceLetters:  readWrite,
		},
		RoleAdmin: {
			ResourcePersons:  fullControl,
			ResourcePrograms: fullControl,
			ResourceUsers:    readWrite,
			ResourceLetters:  fullControl,
			ResourceFinances: readOnly,
		},
		RolePastor: {
			ResourcePersons:  fullControl,
			ResourcePrograms: fullControl,
			ResourceUsers:    readWrite,
			ResourceLetters:  fullControl,
			ResourceFinances: readWrite,
		},
		RoleSuperAdmin: all,
	})
}

// DefaultHierarchy returns the production role ordering.
func DefaultHierarchy() Hierarchy {
	return Hierarchy{
		RoleViewer:         10,
		RoleEditor:         20,
		RoleMinistryLeader: 30,
		RoleAdmin:          40,
		RolePastor:         50,
		RoleSuperAdmin:     60,
	}
}
