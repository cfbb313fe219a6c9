package commsutil

import (
	"fmt"
	"strings"
)

// Default COMMS subjects.
const (
	SubjectTelecomService = "telecom.service.v1"
	SubjectBootstrap      = "system.telecom.bootstrap"
	SubjectChangeEvent    = "telecom.changed"
)

// BuildChangeSubject builds a granular change event subject for an event type.
func BuildChangeSubject(eventType string) string {
	return fmt.Sprintf("%s.%s", SubjectChangeEvent, eventType)
}

// BuildServiceSubject builds the request subject for a service revision.
func BuildServiceSubject(prefix string, major int) string {
	safe := strings.ReplaceAll(strings.TrimSpace(prefix), " ", "_")
	return fmt.Sprintf("%s.v%d", safe, major)
}
