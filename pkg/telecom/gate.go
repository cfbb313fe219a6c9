package telecom

import "fmt"

// PermissionOracle answers permission and package-identity questions
// about a caller. pkg/platform.PermissionTable satisfies this.
type PermissionOracle interface {
	HasPermission(id Identity, permission string) bool
	// PackageMatches reports whether pkg is really the caller's package,
	// including any uid binding the platform keeps for it.
	PackageMatches(id Identity, pkg string) bool
}

// FeatureOracle reports which platform features the host declares.
// pkg/platform.FeatureSet satisfies this.
type FeatureOracle interface {
	HasFeature(ref string) bool
}

// DefaultAppResolver resolves the default dialer package.
// pkg/platform.DefaultApps satisfies this.
type DefaultAppResolver interface {
	DefaultDialerPackage() string
}

// Gate decides whether a caller may invoke an operation. Denials are
// ServiceErrors surfaced to the caller synchronously, before anything is
// submitted to the request bridge.
type Gate struct {
	perms    PermissionOracle
	features FeatureOracle
	defaults DefaultAppResolver
}

// NewGateParams holds parameters for NewGate.
type NewGateParams struct {
	Permissions PermissionOracle
	Features    FeatureOracle
	DefaultApps DefaultAppResolver
}

// NewGate creates a Gate. Nil oracles fall back to grant-nothing
// defaults: no permissions, no features, no default dialer.
func NewGate(params NewGateParams) *Gate {
	perms := params.Permissions
	if perms == nil {
		perms = noPermissions{}
	}
	features := params.Features
	if features == nil {
		features = noFeatures{}
	}
	defaults := params.DefaultApps
	if defaults == nil {
		defaults = noDefaultApps{}
	}
	return &Gate{perms: perms, features: features, defaults: defaults}
}

// RequirePermission denies unless the caller holds the permission.
func (g *Gate) RequirePermission(id Identity, permission string) error {
	if g.perms.HasPermission(id, permission) {
		return nil
	}
	return &ServiceError{
		Code:    "PERMISSION_DENIED",
		Message: fmt.Sprintf("Caller %s lacks permission %s", id.Package, permission),
		Details: map[string]any{"package": id.Package, "permission": permission},
	}
}

// RequirePermissionOrDefaultDialer denies unless the caller holds the
// permission or is the default dialer app.
func (g *Gate) RequirePermissionOrDefaultDialer(id Identity, permission string) error {
	if g.IsDefaultDialer(id) {
		return nil
	}
	return g.RequirePermission(id, permission)
}

// RequireOwnPackage denies unless pkg is the caller's own package.
func (g *Gate) RequireOwnPackage(id Identity, pkg string) error {
	if pkg != "" && g.perms.PackageMatches(id, pkg) {
		return nil
	}
	return &ServiceError{
		Code:    "PERMISSION_DENIED",
		Message: fmt.Sprintf("Package %s does not belong to caller %s", pkg, id.Package),
		Details: map[string]any{"package": id.Package, "claimed": pkg},
	}
}

// RequireOwnPackageOrPermission denies unless pkg is the caller's own
// package or the caller holds the permission.
func (g *Gate) RequireOwnPackageOrPermission(id Identity, pkg, permission string) error {
	if err := g.RequireOwnPackage(id, pkg); err == nil {
		return nil
	}
	return g.RequirePermission(id, permission)
}

// RequireFeature denies unless the platform declares a feature matching
// ref (a name or name@range).
func (g *Gate) RequireFeature(ref string) error {
	if g.features.HasFeature(ref) {
		return nil
	}
	return &ServiceError{
		Code:    "UNSUPPORTED_OPERATION",
		Message: fmt.Sprintf("Feature %s is not available on this device", ref),
		Details: map[string]any{"feature": ref},
	}
}

// IsDefaultDialer reports whether the caller is the default dialer app.
func (g *Gate) IsDefaultDialer(id Identity) bool {
	def := g.defaults.DefaultDialerPackage()
	return def != "" && id.Package == def && g.perms.PackageMatches(id, id.Package)
}

// noPermissions grants nothing; package identity falls back to plain
// string equality.
type noPermissions struct{}

func (noPermissions) HasPermission(Identity, string) bool { return false }

func (noPermissions) PackageMatches(id Identity, pkg string) bool { return id.Package == pkg }

// noFeatures declares no platform features.
type noFeatures struct{}

func (noFeatures) HasFeature(string) bool { return false }

// noDefaultApps has no default dialer configured.
type noDefaultApps struct{}

func (noDefaultApps) DefaultDialerPackage() string { return "" }
