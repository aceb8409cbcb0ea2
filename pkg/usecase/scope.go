package usecase

import "github.com/lexdesk/casework/pkg/domain/types"

// ResolveScope decides how broadly a user may list todos. A JURIST without
// any of SAGSBEHANDLER, PARTNER or ADMIN only sees todos of their own cases;
// every other role set, the empty one included, sees all todos.
func ResolveScope(roles types.RoleSet) types.Scope {
	if roles.Has(types.RoleJurist) && !roles.HasAny(types.RoleSagsbehandler, types.RolePartner, types.RoleAdmin) {
		return types.ScopeCaseScoped
	}
	return types.ScopeGlobal
}
