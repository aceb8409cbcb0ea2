package usecase_test

import (
	"testing"

	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/lexdesk/casework/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name  string
		roles []types.Role
		want  types.Scope
	}{
		{"empty role set", nil, types.ScopeGlobal},
		{"jurist only", []types.Role{types.RoleJurist}, types.ScopeCaseScoped},
		{"jurist in lower case", []types.Role{"jurist"}, types.ScopeCaseScoped},
		{"jurist and sagsbehandler", []types.Role{types.RoleJurist, types.RoleSagsbehandler}, types.ScopeGlobal},
		{"jurist and partner", []types.Role{types.RoleJurist, types.RolePartner}, types.ScopeGlobal},
		{"jurist and admin", []types.Role{types.RoleJurist, types.RoleAdmin}, types.ScopeGlobal},
		{"admin only", []types.Role{types.RoleAdmin}, types.ScopeGlobal},
		{"partner only", []types.Role{types.RolePartner}, types.ScopeGlobal},
		{"sagsbehandler only", []types.Role{types.RoleSagsbehandler}, types.ScopeGlobal},
		{"jurist with unrelated role", []types.Role{types.RoleJurist, "INTERN"}, types.ScopeCaseScoped},
		{"unrelated role only", []types.Role{"INTERN"}, types.ScopeGlobal},
		{"all roles", []types.Role{types.RoleJurist, types.RoleSagsbehandler, types.RolePartner, types.RoleAdmin}, types.ScopeGlobal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecase.ResolveScope(types.NewRoleSet(tt.roles...))
			gt.Value(t, got).Equal(tt.want)
		})
	}
}
