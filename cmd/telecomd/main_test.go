package main

import (
	"strings"
	"testing"
)

const mainTestPrefix = "cmd/telecomd:main_test"

func TestUsage_NonEmpty(t *testing.T) {
	if strings.TrimSpace(usage) == "" {
		t.Fatalf("%s - usage text must not be empty", mainTestPrefix)
	}
}

func TestUsage_ContainsCommands(t *testing.T) {
	required := []string{
		"serve",
		"migrate up",
		"migrate status",
		"ensure-db",
		"clear",
		"seed",
		"DATABASE_URL",
	}
	for _, want := range required {
		if !strings.Contains(usage, want) {
			t.Errorf("%s - usage missing %q", mainTestPrefix, want)
		}
	}
}
