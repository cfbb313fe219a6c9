package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

const logPrefix = "accounts:registrar"

// Store persists account registrations. A nil store keeps the registrar
// memory only. pkg/db.Repository satisfies this interface.
type Store interface {
	UpsertAccount(ctx context.Context, acct Account) error
	DeleteAccount(ctx context.Context, handle Handle) error
	DeleteAccountsByPackage(ctx context.Context, pkg string) (int, error)
	ListAccounts(ctx context.Context) ([]Account, error)
}

// Registrar holds phone-account registrations. All methods are safe for
// concurrent use from any goroutine.
type Registrar struct {
	mu           sync.RWMutex
	accounts     map[Handle]Account
	order        []Handle
	userSelected *Handle
	simCallMgr   *Handle
	store        Store
}

// NewRegistrarParams holds parameters for NewRegistrar.
type NewRegistrarParams struct {
	// Store is the optional persistence backend.
	Store Store
}

// NewRegistrar creates an empty registrar.
func NewRegistrar(params NewRegistrarParams) *Registrar {
	return &Registrar{
		accounts: make(map[Handle]Account),
		store:    params.Store,
	}
}

// Hydrate loads persisted accounts into memory. Called once at startup,
// before the registrar is published to callers.
func (r *Registrar) Hydrate(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	accts, err := r.store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("%s - hydrate: %w", logPrefix, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range accts {
		if _, exists := r.accounts[a.Handle]; !exists {
			r.order = append(r.order, a.Handle)
		}
		r.accounts[a.Handle] = a
	}
	slog.Info(fmt.Sprintf("%s - hydrated %d accounts", logPrefix, len(accts)))
	return nil
}

// Register inserts or replaces the registration for acct.Handle and returns
// the stored account. The caller (facade) has already applied any
// permission downgrade to the account before it reaches the registrar.
func (r *Registrar) Register(ctx context.Context, acct Account) (Account, error) {
	if r.store != nil {
		if err := r.store.UpsertAccount(ctx, acct); err != nil {
			return Account{}, fmt.Errorf("%s - persist %s: %w", logPrefix, acct.Handle, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[acct.Handle]; !exists {
		r.order = append(r.order, acct.Handle)
	}
	r.accounts[acct.Handle] = acct
	slog.Info(fmt.Sprintf("%s - registered %s enabled=%v caps=%#x", logPrefix, acct.Handle, acct.Enabled, acct.Capabilities))
	return acct, nil
}

// Unregister removes the registration for handle. Returns false when no
// such account was registered. Selections pointing at the removed account
// are cleared.
func (r *Registrar) Unregister(ctx context.Context, handle Handle) (bool, error) {
	r.mu.Lock()
	_, exists := r.accounts[handle]
	r.mu.Unlock()
	if !exists {
		return false, nil
	}

	if r.store != nil {
		if err := r.store.DeleteAccount(ctx, handle); err != nil {
			return false, fmt.Errorf("%s - delete %s: %w", logPrefix, handle, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, handle)
	r.dropFromOrder(handle)
	if r.userSelected != nil && *r.userSelected == handle {
		r.userSelected = nil
	}
	if r.simCallMgr != nil && *r.simCallMgr == handle {
		r.simCallMgr = nil
	}
	slog.Info(fmt.Sprintf("%s - unregistered %s", logPrefix, handle))
	return true, nil
}

// ClearPackage removes every account whose handle belongs to pkg and
// returns how many were removed.
func (r *Registrar) ClearPackage(ctx context.Context, pkg string) (int, error) {
	if r.store != nil {
		if _, err := r.store.DeleteAccountsByPackage(ctx, pkg); err != nil {
			return 0, fmt.Errorf("%s - clear package %s: %w", logPrefix, pkg, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for handle := range r.accounts {
		if handle.PackageName() != pkg {
			continue
		}
		delete(r.accounts, handle)
		r.dropFromOrder(handle)
		if r.userSelected != nil && *r.userSelected == handle {
			r.userSelected = nil
		}
		if r.simCallMgr != nil && *r.simCallMgr == handle {
			r.simCallMgr = nil
		}
		removed++
	}
	if removed > 0 {
		slog.Info(fmt.Sprintf("%s - cleared %d accounts for package %s", logPrefix, removed, pkg))
	}
	return removed, nil
}

// dropFromOrder removes handle from the registration-order slice.
// Caller holds r.mu.
func (r *Registrar) dropFromOrder(handle Handle) {
	for i, h := range r.order {
		if h == handle {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// Get returns the account registered under handle.
func (r *Registrar) Get(handle Handle) (Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[handle]
	return a, ok
}

// All returns every registered account in registration order.
func (r *Registrar) All() []Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Account, 0, len(r.order))
	for _, h := range r.order {
		out = append(out, r.accounts[h])
	}
	return out
}

// AllHandles returns every registered handle in registration order.
func (r *Registrar) AllHandles() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handle, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered accounts.
func (r *Registrar) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// CallCapableHandles returns the handles of enabled call-provider accounts.
func (r *Registrar) CallCapableHandles() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Handle
	for _, h := range r.order {
		if r.accounts[h].CallCapable() {
			out = append(out, h)
		}
	}
	return out
}

// HandlesSupportingScheme returns the handles of enabled call-provider
// accounts that support the given URI scheme.
func (r *Registrar) HandlesSupportingScheme(scheme string) []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Handle
	for _, h := range r.order {
		a := r.accounts[h]
		if a.CallCapable() && a.SupportsScheme(scheme) {
			out = append(out, h)
		}
	}
	return out
}

// HandlesForPackage returns every handle registered by pkg.
func (r *Registrar) HandlesForPackage(pkg string) []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Handle
	for _, h := range r.order {
		if h.PackageName() == pkg {
			out = append(out, h)
		}
	}
	return out
}

// DefaultOutgoing resolves the default outgoing account for a URI scheme:
// the user-selected account when it is enabled and supports the scheme,
// otherwise the single call-capable account supporting the scheme, and no
// account at all when the choice would be ambiguous.
func (r *Registrar) DefaultOutgoing(scheme string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.userSelected != nil {
		if a, ok := r.accounts[*r.userSelected]; ok && a.Enabled && a.SupportsScheme(scheme) {
			return *r.userSelected, true
		}
	}

	var candidate Handle
	found := 0
	for _, h := range r.order {
		a := r.accounts[h]
		if a.CallCapable() && a.SupportsScheme(scheme) {
			candidate = h
			found++
		}
	}
	if found == 1 {
		return candidate, true
	}
	return Handle{}, false
}

// UserSelectedOutgoing returns the explicit user selection, if any.
func (r *Registrar) UserSelectedOutgoing() (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.userSelected == nil {
		return Handle{}, false
	}
	return *r.userSelected, true
}

// SetUserSelectedOutgoing records the user's outgoing account choice. A nil
// handle clears the selection. The handle must refer to a registered
// account.
func (r *Registrar) SetUserSelectedOutgoing(handle *Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if handle == nil {
		r.userSelected = nil
		return nil
	}
	if _, ok := r.accounts[*handle]; !ok {
		return fmt.Errorf("%s - unknown account %s", logPrefix, *handle)
	}
	h := *handle
	r.userSelected = &h
	return nil
}

// SimCallManager returns the current sim call manager association, if any.
func (r *Registrar) SimCallManager() (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.simCallMgr == nil {
		return Handle{}, false
	}
	return *r.simCallMgr, true
}

// SetSimCallManager records the sim call manager. A nil handle clears the
// association. The handle must refer to a registered connection manager.
func (r *Registrar) SetSimCallManager(handle *Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if handle == nil {
		r.simCallMgr = nil
		return nil
	}
	a, ok := r.accounts[*handle]
	if !ok {
		return fmt.Errorf("%s - unknown account %s", logPrefix, *handle)
	}
	if !a.HasCapability(CapabilityConnectionManager) {
		return fmt.Errorf("%s - account %s is not a connection manager", logPrefix, *handle)
	}
	h := *handle
	r.simCallMgr = &h
	return nil
}

// SimCallManagers returns the handles of accounts that can act as sim call
// manager.
func (r *Registrar) SimCallManagers() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Handle
	for _, h := range r.order {
		if r.accounts[h].HasCapability(CapabilityConnectionManager) {
			out = append(out, h)
		}
	}
	return out
}

// IsVoicemailNumber reports whether number is the voicemail number of the
// account registered under handle.
func (r *Registrar) IsVoicemailNumber(handle Handle, number string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[handle]
	return ok && a.VoicemailNumber != "" && a.VoicemailNumber == number
}

// VoicemailNumber returns the voicemail number of the account registered
// under handle. The bool reports whether the account exists.
func (r *Registrar) VoicemailNumber(handle Handle) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[handle]
	if !ok {
		return "", false
	}
	return a.VoicemailNumber, true
}

// LineNumber returns the line number of the account registered under
// handle. The bool reports whether the account exists.
func (r *Registrar) LineNumber(handle Handle) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[handle]
	if !ok {
		return "", false
	}
	return a.LineNumber, true
}
