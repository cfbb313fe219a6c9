// Package platform provides the host-environment oracles: which
// versioned features the device declares, which permissions each package
// holds, and which package is the default dialer. All three are built
// once from bootstrap data and answer the telecom gate's questions.
package platform

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	masterminds "github.com/Masterminds/semver/v3"
)

const featuresLogPrefix = "platform:features"

// ParsedFeatureRef holds the parsed components of a feature reference
// string.
type ParsedFeatureRef struct {
	// Feature name (e.g. "telephony.calling")
	Name string
	// Version range if specified (e.g. "^1.2.0", "2", ""); empty string means any version
	Range string
	// Raw input string
	Raw string
}

var (
	featureNameRegex = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)
	majorOnlyRegex   = regexp.MustCompile(`^\d+$`)
)

// ParseFeatureRef parses a feature reference string.
//
// Supported formats:
//   - telephony.calling           (any version)
//   - telephony.calling@2         (major only)
//   - telephony.calling@2.1.0     (exact version)
//   - telephony.calling@^2.1.0    (caret range)
//   - telephony.calling@>=2.0.0   (comparison range)
func ParseFeatureRef(input string) (*ParsedFeatureRef, error) {
	raw := strings.TrimSpace(input)

	name := raw
	var rangeStr string
	if at := strings.Index(raw, "@"); at != -1 {
		name = raw[:at]
		rangeStr = raw[at+1:]
	}

	if !featureNameRegex.MatchString(name) {
		return nil, fmt.Errorf("%s - invalid feature name in %q", featuresLogPrefix, raw)
	}

	return &ParsedFeatureRef{Name: name, Range: rangeStr, Raw: raw}, nil
}

// IsMajorOnly checks if a range is a major-only specifier (e.g., "2").
func IsMajorOnly(rangeStr string) bool {
	return majorOnlyRegex.MatchString(rangeStr)
}

// SatisfiesRange checks if a version string satisfies a range.
func SatisfiesRange(version, rangeStr string) bool {
	if IsMajorOnly(rangeStr) {
		sv, err := masterminds.NewVersion(version)
		if err != nil {
			return false
		}
		var major int
		fmt.Sscanf(rangeStr, "%d", &major)
		return int(sv.Major()) == major
	}

	constraint, err := masterminds.NewConstraint(rangeStr)
	if err != nil {
		return false
	}

	sv, err := masterminds.NewVersion(version)
	if err != nil {
		return false
	}

	return constraint.Check(sv)
}

// FeatureSet is the catalog of versioned platform features, fixed at
// startup.
type FeatureSet struct {
	features map[string]string
}

// NewFeatureSet builds a catalog from feature name to version string.
// Entries with an invalid name or version are skipped with a warning.
func NewFeatureSet(features map[string]string) *FeatureSet {
	set := make(map[string]string, len(features))
	for name, version := range features {
		if !featureNameRegex.MatchString(name) {
			slog.Warn(fmt.Sprintf("%s - skipping feature with invalid name %q", featuresLogPrefix, name))
			continue
		}
		if _, err := masterminds.NewVersion(version); err != nil {
			slog.Warn(fmt.Sprintf("%s - skipping feature %s with invalid version %q: %v", featuresLogPrefix, name, version, err))
			continue
		}
		set[name] = version
	}
	return &FeatureSet{features: set}
}

// Has reports whether the feature is declared, at any version.
func (s *FeatureSet) Has(name string) bool {
	_, ok := s.features[name]
	return ok
}

// Version returns the declared version of a feature.
func (s *FeatureSet) Version(name string) (string, bool) {
	v, ok := s.features[name]
	return v, ok
}

// HasFeature reports whether a feature matching ref (a name or
// name@range) is declared. Malformed refs match nothing.
func (s *FeatureSet) HasFeature(ref string) bool {
	parsed, err := ParseFeatureRef(ref)
	if err != nil {
		slog.Warn(fmt.Sprintf("%s - unusable feature ref %q: %v", featuresLogPrefix, ref, err))
		return false
	}
	version, ok := s.features[parsed.Name]
	if !ok {
		return false
	}
	if parsed.Range == "" {
		return true
	}
	return SatisfiesRange(version, parsed.Range)
}

// Names returns the declared feature names, sorted.
func (s *FeatureSet) Names() []string {
	names := make([]string, 0, len(s.features))
	for name := range s.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
