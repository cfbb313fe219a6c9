package platform

import (
	"testing"

	"github.com/XBIZART/telecom-service/pkg/telecom"
)

func testTable() *PermissionTable {
	return NewPermissionTable(NewPermissionTableParams{
		Grants: map[string][]string{
			"com.example.dialer": {telecom.PermissionReadState, telecom.PermissionModifyState},
			"com.example.system": {"*"},
			"com.example.viewer": {telecom.PermissionReadState},
		},
		UIDs: map[string]int32{
			"com.example.dialer": 10001,
		},
	})
}

func TestPermissionTable_HasPermission(t *testing.T) {
	table := testTable()

	tests := []struct {
		name       string
		id         telecom.Identity
		permission string
		want       bool
	}{
		{
			name:       "granted",
			id:         telecom.Identity{UID: 10001, Package: "com.example.dialer"},
			permission: telecom.PermissionModifyState,
			want:       true,
		},
		{
			name:       "not granted",
			id:         telecom.Identity{UID: 10002, Package: "com.example.viewer"},
			permission: telecom.PermissionModifyState,
			want:       false,
		},
		{
			name:       "unknown package",
			id:         telecom.Identity{UID: 10003, Package: "com.example.stranger"},
			permission: telecom.PermissionReadState,
			want:       false,
		},
		{
			name:       "wildcard grant",
			id:         telecom.Identity{UID: 1000, Package: "com.example.system"},
			permission: telecom.PermissionRegisterProvider,
			want:       true,
		},
		{
			name:       "uid mismatch voids grants",
			id:         telecom.Identity{UID: 99999, Package: "com.example.dialer"},
			permission: telecom.PermissionReadState,
			want:       false,
		},
		{
			name:       "empty identity",
			id:         telecom.Identity{},
			permission: telecom.PermissionReadState,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.HasPermission(tt.id, tt.permission); got != tt.want {
				t.Errorf("HasPermission(%+v, %s) = %v, want %v", tt.id, tt.permission, got, tt.want)
			}
		})
	}
}

func TestPermissionTable_PackageMatches(t *testing.T) {
	table := testTable()

	tests := []struct {
		name string
		id   telecom.Identity
		pkg  string
		want bool
	}{
		{
			name: "own package, pinned uid",
			id:   telecom.Identity{UID: 10001, Package: "com.example.dialer"},
			pkg:  "com.example.dialer",
			want: true,
		},
		{
			name: "own package, wrong uid",
			id:   telecom.Identity{UID: 10002, Package: "com.example.dialer"},
			pkg:  "com.example.dialer",
			want: false,
		},
		{
			name: "own package, no pin",
			id:   telecom.Identity{UID: 31337, Package: "com.example.viewer"},
			pkg:  "com.example.viewer",
			want: true,
		},
		{
			name: "foreign package",
			id:   telecom.Identity{UID: 10001, Package: "com.example.dialer"},
			pkg:  "com.example.viewer",
			want: false,
		},
		{
			name: "empty claim",
			id:   telecom.Identity{UID: 10001, Package: "com.example.dialer"},
			pkg:  "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.PackageMatches(tt.id, tt.pkg); got != tt.want {
				t.Errorf("PackageMatches(%+v, %q) = %v, want %v", tt.id, tt.pkg, got, tt.want)
			}
		})
	}
}

