package platform

import (
	"github.com/XBIZART/telecom-service/pkg/telecom"
)

// PermissionTable maps packages to their granted permissions and pins
// each known package to the uid it runs under. There is no implicit
// bypass for any uid; privileged packages get their power from grants,
// the wildcard included.
type PermissionTable struct {
	grants map[string]map[string]bool
	uids   map[string]int32
}

// NewPermissionTableParams holds parameters for NewPermissionTable.
type NewPermissionTableParams struct {
	// Grants maps package to granted permission names. The wildcard "*"
	// grants every permission.
	Grants map[string][]string
	// UIDs pins a package to a uid. A caller claiming the package under
	// any other uid fails PackageMatches.
	UIDs map[string]int32
}

// NewPermissionTable creates a PermissionTable.
func NewPermissionTable(params NewPermissionTableParams) *PermissionTable {
	grants := make(map[string]map[string]bool, len(params.Grants))
	for pkg, perms := range params.Grants {
		set := make(map[string]bool, len(perms))
		for _, p := range perms {
			set[p] = true
		}
		grants[pkg] = set
	}
	uids := make(map[string]int32, len(params.UIDs))
	for pkg, uid := range params.UIDs {
		uids[pkg] = uid
	}
	return &PermissionTable{grants: grants, uids: uids}
}

// HasPermission reports whether the caller's package holds the
// permission. A caller whose uid contradicts the package's pinned uid
// holds nothing.
func (t *PermissionTable) HasPermission(id telecom.Identity, permission string) bool {
	if !t.PackageMatches(id, id.Package) {
		return false
	}
	perms, ok := t.grants[id.Package]
	if !ok {
		return false
	}
	return perms[permission] || perms["*"]
}

// PackageMatches reports whether pkg really is the caller's package: the
// names must agree, and when the table pins the package to a uid, the
// caller must be running under that uid.
func (t *PermissionTable) PackageMatches(id telecom.Identity, pkg string) bool {
	if pkg == "" || id.Package != pkg {
		return false
	}
	if uid, ok := t.uids[pkg]; ok && uid != id.UID {
		return false
	}
	return true
}
