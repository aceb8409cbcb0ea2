package types_test

import (
	"encoding/json"
	"testing"

	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestNewRole(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want types.Role
	}{
		{"already canonical", "JURIST", types.RoleJurist},
		{"lower case", "jurist", types.RoleJurist},
		{"mixed case with spaces", "  SagsBehandler ", types.RoleSagsbehandler},
		{"empty", "", types.Role("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, types.NewRole(tt.in)).Equal(tt.want)
		})
	}
}

func TestRole_UnmarshalText(t *testing.T) {
	var v struct {
		Roles []types.Role `json:"roles"`
	}
	gt.NoError(t, json.Unmarshal([]byte(`{"roles":["admin","Partner"]}`), &v)).Required()
	gt.Array(t, v.Roles).Length(2)
	gt.Value(t, v.Roles[0]).Equal(types.RoleAdmin)
	gt.Value(t, v.Roles[1]).Equal(types.RolePartner)
}

func TestRoleSet(t *testing.T) {
	set := types.NewRoleSet("jurist", types.RoleAdmin, "", "JURIST")

	gt.Number(t, len(set)).Equal(2)
	gt.B(t, set.Has(types.RoleJurist)).True()
	gt.B(t, set.Has(types.RolePartner)).False()
	gt.B(t, set.HasAny(types.RolePartner, types.RoleAdmin)).True()
	gt.B(t, set.HasAny()).False()

	slice := set.Slice()
	gt.Array(t, slice).Length(2)
	gt.Value(t, slice[0]).Equal(types.RoleAdmin)
	gt.Value(t, slice[1]).Equal(types.RoleJurist)
}
