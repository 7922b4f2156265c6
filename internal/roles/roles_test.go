package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Forms(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want RoleSet
	}{
		{"native string slice", []string{"operator", "resident"}, RoleSet{"operator"}},
		{"native any slice", []any{"manager"}, RoleSet{"manager"}},
		{"json array", `["admin","operator"]`, RoleSet{"admin", "operator"}},
		{"json array double encoded", `"[\"manager\"]"`, RoleSet{"manager"}},
		{"pg array", `{resident,"operator"}`, RoleSet{"operator"}},
		{"csv", "operator, manager", RoleSet{"manager", "operator"}},
		{"bare string", "resident", RoleSet{"resident"}},
		{"empty string", "", RoleSet{}},
		{"nil", nil, RoleSet{}},
		{"malformed json", "[admin", RoleSet{}},
		{"malformed pg array keeps inner", "{,}", RoleSet{}},
		{"unknown roles dropped", []string{"superuser", "root"}, RoleSet{}},
		{"owner aliased to admin", "owner", RoleSet{"admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.src))
		})
	}
}

func TestResolve_MergesAllSources(t *testing.T) {
	got := Resolve("resident", `["operator"]`, nil, "{manager}", "resident")
	assert.Equal(t, RoleSet{"manager", "operator"}, got)
}

func TestResolve_Idempotent(t *testing.T) {
	inputs := []any{`["operator","resident"]`, "{admin,manager}", "resident, operator"}
	for _, in := range inputs {
		first := Resolve(in)
		assert.Equal(t, first, Resolve(first))
	}
}

func TestResolve_StaffExcludesResident(t *testing.T) {
	for _, src := range []any{
		[]string{"resident", "operator"},
		"resident,manager",
		`["admin","resident"]`,
	} {
		got := Resolve(src)
		assert.False(t, got.Has(RoleResident), "src %v yielded %v", src, got)
		assert.True(t, got.IsStaff())
	}

	// Без служебных ролей resident остаётся
	assert.Equal(t, RoleSet{"resident"}, Resolve("resident", "resident"))
}

func TestResolve_PriorityOrder(t *testing.T) {
	got := Resolve([]string{"resident", "operator", "admin", "manager", "operator"})
	require.Equal(t, RoleSet{"admin", "manager", "operator"}, got)

	// Порядок не зависит от порядка источников
	got = Resolve("operator", "admin")
	assert.Equal(t, RoleSet{"admin", "operator"}, got)
}

func TestRoleSet_Primary(t *testing.T) {
	assert.Equal(t, "admin", Resolve("admin,operator").Primary())
	assert.Equal(t, "operator", Resolve("operator").Primary())
	assert.Equal(t, "", Resolve("resident").Primary())
}
