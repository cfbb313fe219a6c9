package commsutil

import "testing"

func TestBuildChangeSubject(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		want      string
	}{
		{"account registered", "account.registered", "telecom.changed.account.registered"},
		{"call missed", "call.missed", "telecom.changed.call.missed"},
		{"ringer silenced", "ringer.silenced", "telecom.changed.ringer.silenced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildChangeSubject(tt.eventType)
			if got != tt.want {
				t.Errorf("BuildChangeSubject(%q) = %q, want %q", tt.eventType, got, tt.want)
			}
		})
	}
}

func TestBuildServiceSubject(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		major  int
		want   string
	}{
		{"default", "telecom.service", 1, "telecom.service.v1"},
		{"custom prefix", "lab.telecom", 2, "lab.telecom.v2"},
		{"spaces sanitized", " phone service ", 1, "phone_service.v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildServiceSubject(tt.prefix, tt.major)
			if got != tt.want {
				t.Errorf("BuildServiceSubject(%q, %d) = %q, want %q", tt.prefix, tt.major, got, tt.want)
			}
		})
	}
}
