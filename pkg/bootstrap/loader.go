package bootstrap

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/XBIZART/telecom-service/pkg/accounts"
)

const logPrefix = "bootstrap:loader"

// LoadBootstrapConfig loads bootstrap config from file paths or environment.
// It tries paths in order: first any paths passed in, then TELECOM_BOOTSTRAP_FILE env, then defaults.
// So an explicit path (e.g. from "seed my.json") is tried before the env var.
func LoadBootstrapConfig(paths ...string) (*BootstrapConfig, error) {
	// Build path list: passed paths first, then env, then defaults
	all := make([]string, 0, len(paths)+4)
	for _, p := range paths {
		if p != "" {
			all = append(all, p)
		}
	}
	if envPath := os.Getenv("TELECOM_BOOTSTRAP_FILE"); envPath != "" {
		all = append(all, envPath)
	}
	all = append(all, "config/bootstrap.json", "bootstrap.json")
	paths = all

	for _, p := range paths {
		if p == "" {
			continue
		}

		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}

		var cfg BootstrapConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			slog.Warn(fmt.Sprintf("%s - Failed to parse bootstrap file %s: %v", logPrefix, p, err))
			continue
		}

		slog.Info(fmt.Sprintf("%s - Loaded bootstrap config from %s", logPrefix, p))
		return &cfg, nil
	}

	slog.Info(fmt.Sprintf("%s - Using default bootstrap config", logPrefix))
	return GetDefaultBootstrapConfig(), nil
}

// GetDefaultBootstrapConfig returns the embedded fallback bootstrap configuration.
func GetDefaultBootstrapConfig() *BootstrapConfig {
	return &BootstrapConfig{
		Name:           "telecom-bootstrap",
		Version:        "1.0.0",
		Description:    "Default telecom platform bootstrap configuration",
		ServiceSubject: "telecom.service.v1",
		Features: map[string]string{
			"telephony.calling":            "2.1.0",
			"telephony.connection_service": "1.4.0",
			"telephony.tty":                "1.0.0",
		},
		Packages: map[string]BootstrapPackage{
			"com.example.system": {
				UID:         1000,
				Permissions: []string{"*"},
			},
			"com.example.phone": {
				UID:         10010,
				Permissions: []string{"calls.read", "calls.modify"},
			},
			"com.example.carrier": {
				UID:         10020,
				Permissions: []string{"calls.read", "calls.modify", "accounts.register_provider"},
			},
			"com.example.dialer": {
				UID:         10001,
				Permissions: []string{"calls.read"},
			},
		},
		DefaultDialer: "com.example.dialer",
		Accounts: []BootstrapAccount{
			{
				ComponentName:   "com.example.carrier/ConnectionService",
				ID:              "sim-0",
				Address:         "tel:+15550100",
				Label:           "Carrier SIM",
				Description:     "Primary carrier subscription",
				Capabilities:    []string{"callProvider", "simSubscription"},
				Schemes:         []string{"tel", "voicemail"},
				Enabled:         true,
				VoicemailNumber: "+15550199",
				LineNumber:      "+15550100",
			},
		},
		ChangeEvents: ChangeEventSubjects{
			Global:  "telecom.changed",
			Pattern: "telecom.changed.{type}",
		},
	}
}

// CreateResolvedBootstrap builds a ResolvedBootstrap for fast lookups.
func CreateResolvedBootstrap(cfg *BootstrapConfig) *ResolvedBootstrap {
	features := make(map[string]string, len(cfg.Features))
	for name, version := range cfg.Features {
		features[name] = version
	}

	grants := make(map[string][]string, len(cfg.Packages))
	uids := make(map[string]int32, len(cfg.Packages))
	for pkg, entry := range cfg.Packages {
		perms := make([]string, len(entry.Permissions))
		copy(perms, entry.Permissions)
		grants[pkg] = perms
		if entry.UID != 0 {
			uids[pkg] = entry.UID
		}
	}

	accts := make([]accounts.Account, 0, len(cfg.Accounts))
	for _, entry := range cfg.Accounts {
		for _, name := range entry.Capabilities {
			if _, ok := capabilityBits[name]; !ok {
				slog.Warn(fmt.Sprintf("%s - unknown capability %q on bootstrap account %s:%s", logPrefix, name, entry.ComponentName, entry.ID))
			}
		}
		accts = append(accts, entry.Account())
	}

	return &ResolvedBootstrap{
		name:           cfg.Name,
		version:        cfg.Version,
		serviceSubject: cfg.ServiceSubject,
		features:       features,
		grants:         grants,
		uids:           uids,
		defaultDialer:  cfg.DefaultDialer,
		accounts:       accts,
		changeEvents:   cfg.ChangeEvents,
	}
}

// MergeBootstrapConfigs merges an override config into a base config.
func MergeBootstrapConfigs(base, override *BootstrapConfig) *BootstrapConfig {
	merged := *base

	// Merge features
	if merged.Features == nil {
		merged.Features = make(map[string]string)
	}
	for name, version := range override.Features {
		merged.Features[name] = version
	}

	// Merge packages
	if merged.Packages == nil {
		merged.Packages = make(map[string]BootstrapPackage)
	}
	for pkg, entry := range override.Packages {
		merged.Packages[pkg] = entry
	}

	// Append accounts
	merged.Accounts = append(merged.Accounts, override.Accounts...)

	// Override scalars if set
	if override.ServiceSubject != "" {
		merged.ServiceSubject = override.ServiceSubject
	}
	if override.DefaultDialer != "" {
		merged.DefaultDialer = override.DefaultDialer
	}
	if override.ChangeEvents.Global != "" {
		merged.ChangeEvents.Global = override.ChangeEvents.Global
	}
	if override.ChangeEvents.Pattern != "" {
		merged.ChangeEvents.Pattern = override.ChangeEvents.Pattern
	}

	return &merged
}
