package access_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
)

func newEngine(t *testing.T) *access.Engine {
	t.Helper()
	return access.NewEngine(access.DefaultMatrix(), access.DefaultHierarchy(), slog.Default(), false)
}

func TestAllowedMatrixGroundTruth(t *testing.T) {
	engine := newEngine(t)

	cases := []struct {
		name     string
		role     access.Role
		resource access.Resource
		action   access.Action
		want     bool
	}{
		{"viewer reads persons", access.RoleViewer, access.ResourcePersons, access.ActionRead, true},
		{"viewer cannot touch users", access.RoleViewer, access.ResourceUsers, access.ActionRead, false},
		{"editor updates persons", access.RoleEditor, access.ResourcePersons, access.ActionUpdate, true},
		{"editor cannot delete persons", access.RoleEditor, access.ResourcePersons, access.ActionDelete, false},
		{"editor creates programs", access.RoleEditor, access.ResourcePrograms, access.ActionCreate, true},
		{"admin deletes persons", access.RoleAdmin, access.ResourcePersons, access.ActionDelete, true},
		{"admin cannot delete users", access.RoleAdmin, access.ResourceUsers, access.ActionDelete, false},
		{"super admin deletes users", access.RoleSuperAdmin, access.ResourceUsers, access.ActionDelete, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := access.Principal{ID: "u1", TenantID: "t1", Role: tc.role}
			require.Equal(t, tc.want, engine.Allowed(p, tc.resource, tc.action))
		})
	}
}

func TestAllowedSuperuserBypassesMatrix(t *testing.T) {
	engine := newEngine(t)
	p := access.Principal{ID: "u1", TenantID: "t1", Role: access.RoleViewer, Superuser: true}

	for _, resource := range access.Resources() {
		for _, action := range []access.Action{access.ActionRead, access.ActionCreate, access.ActionUpdate, access.ActionDelete} {
			require.True(t, engine.Allowed(p, resource, action), "%s %s", resource, action)
		}
	}
}

func TestAllowedCustomOverrideIsExclusive(t *testing.T) {
	engine := newEngine(t)

	withOverride := access.Principal{
		ID:                   "u1",
		TenantID:             "t1",
		Role:                 access.RoleViewer,
		UseCustomPermissions: true,
		CustomPermissions:    []string{"PROGRAMS_CREATE"},
	}
	// The override grants what the viewer role never could.
	require.True(t, engine.Allowed(withOverride, access.ResourcePrograms, access.ActionCreate))
	// And it withholds what the viewer role normally grants.
	require.False(t, engine.Allowed(withOverride, access.ResourcePersons, access.ActionRead))

	// Same permission list present but the flag unset: role matrix rules.
	withoutFlag := withOverride
	withoutFlag.UseCustomPermissions = false
	require.False(t, engine.Allowed(withoutFlag, access.ResourcePrograms, access.ActionCreate))
	require.True(t, engine.Allowed(withoutFlag, access.ResourcePersons, access.ActionRead))
}

func TestAllowedCustomOverrideNormalizesCase(t *testing.T) {
	engine := newEngine(t)
	p := access.Principal{
		ID:                   "u1",
		TenantID:             "t1",
		Role:                 access.RoleViewer,
		UseCustomPermissions: true,
		CustomPermissions:    []string{" programs_create "},
	}
	require.True(t, engine.Allowed(p, access.ResourcePrograms, access.ActionCreate))
}

func TestAllowedOutsideClosedEnumsDenies(t *testing.T) {
	engine := newEngine(t)
	p := access.Principal{ID: "u1", TenantID: "t1", Role: access.RoleSuperAdmin, Superuser: true}

	// Even a superuser is denied when the surrounding code passes a
	// value outside the closed enum sets.
	require.False(t, engine.Allowed(p, access.Resource("GADGETS"), access.ActionRead))
	require.False(t, engine.Allowed(p, access.ResourcePersons, access.Action("EXPLODE")))
}

func TestCheckReportsRoleAndPair(t *testing.T) {
	engine := newEngine(t)
	p := access.Principal{ID: "u1", TenantID: "t1", Role: access.RoleEditor}

	err := engine.Check(p, access.ResourcePersons, access.ActionDelete)
	require.Error(t, err)
	require.Contains(t, err.Error(), "EDITOR")
	require.Contains(t, err.Error(), "PERSONS")
	require.Contains(t, err.Error(), "DELETE")
}

func TestAtLeastHierarchy(t *testing.T) {
	engine := newEngine(t)

	ordered := access.Roles()
	for i, lower := range ordered {
		for j, higher := range ordered {
			p := access.Principal{ID: "u1", TenantID: "t1", Role: higher}
			want := j >= i
			require.Equal(t, want, engine.AtLeast(p, lower), "%s at least %s", higher, lower)
		}
	}
}

func TestAtLeastIsIndependentOfMatrix(t *testing.T) {
	engine := newEngine(t)

	// Pastor outranks admin in the hierarchy but the matrix does not
	// grant pastors user deletion; the two mechanisms never leak into
	// each other.
	pastor := access.Principal{ID: "u1", TenantID: "t1", Role: access.RolePastor}
	require.True(t, engine.AtLeast(pastor, access.RoleAdmin))
	require.False(t, engine.Allowed(pastor, access.ResourceUsers, access.ActionDelete))
}

func TestAtLeastFailsClosed(t *testing.T) {
	engine := newEngine(t)

	// Unknown required role always fails, even for the top role.
	top := access.Principal{ID: "u1", TenantID: "t1", Role: access.RoleSuperAdmin}
	require.False(t, engine.AtLeast(top, access.Role("OVERLORD")))

	// Unknown principal role defaults to the bottom.
	unknown := access.Principal{ID: "u2", TenantID: "t1", Role: access.Role("GUEST")}
	require.False(t, engine.AtLeast(unknown, access.RoleViewer))
}

func TestMatrixGapsAreDenials(t *testing.T) {
	matrix := access.NewMatrix(map[access.Role]map[access.Resource][]access.Action{
		access.RoleEditor: {access.ResourcePersons: {access.ActionRead}},
	})
	engine := access.NewEngine(matrix, access.DefaultHierarchy(), slog.Default(), false)

	p := access.Principal{ID: "u1", TenantID: "t1", Role: access.RoleViewer}
	require.False(t, engine.Allowed(p, access.ResourcePersons, access.ActionRead))
}
