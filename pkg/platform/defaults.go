package platform

import (
	"fmt"
	"log/slog"
	"sync"
)

const defaultsLogPrefix = "platform:defaults"

// DefaultApps resolves and updates the default dialer package. Safe for
// concurrent use.
type DefaultApps struct {
	mu     sync.RWMutex
	dialer string
}

// NewDefaultApps creates the resolver with the initial default dialer,
// usually from bootstrap. Empty means no default dialer.
func NewDefaultApps(defaultDialer string) *DefaultApps {
	return &DefaultApps{dialer: defaultDialer}
}

// DefaultDialerPackage returns the current default dialer package, empty
// when none is configured.
func (d *DefaultApps) DefaultDialerPackage() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dialer
}

// SetDefaultDialerPackage changes the default dialer at runtime.
func (d *DefaultApps) SetDefaultDialerPackage(pkg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if pkg != d.dialer {
		slog.Info(fmt.Sprintf("%s - default dialer %q -> %q", defaultsLogPrefix, d.dialer, pkg))
	}
	d.dialer = pkg
}

// IsDefaultDialer reports whether pkg is the default dialer.
func (d *DefaultApps) IsDefaultDialer(pkg string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dialer != "" && d.dialer == pkg
}
