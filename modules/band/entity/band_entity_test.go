package entity

import "testing"

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		isAdmin bool
		want    Capabilities
	}{
		{
			name: "leader gets everything",
			role: RoleLeader,
			want: Capabilities{CanPropose: true, CanVote: true, CanConfirm: true, CanManage: true},
		},
		{
			name: "co-leader gets everything",
			role: RoleCoLeader,
			want: Capabilities{CanPropose: true, CanVote: true, CanConfirm: true, CanManage: true},
		},
		{
			name: "member can only vote",
			role: RoleMember,
			want: Capabilities{CanVote: true},
		},
		{
			name: "non-member gets nothing",
			role: RoleNone,
			want: Capabilities{},
		},
		{
			name:    "admin overrides missing membership",
			role:    RoleNone,
			isAdmin: true,
			want:    Capabilities{CanPropose: true, CanVote: true, CanConfirm: true, CanManage: true},
		},
		{
			name:    "admin overrides member role",
			role:    RoleMember,
			isAdmin: true,
			want:    Capabilities{CanPropose: true, CanVote: true, CanConfirm: true, CanManage: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoleCapabilities(tt.role, tt.isAdmin)
			if got != tt.want {
				t.Errorf("RoleCapabilities(%q, %v) = %+v, want %+v", tt.role, tt.isAdmin, got, tt.want)
			}
		})
	}
}
