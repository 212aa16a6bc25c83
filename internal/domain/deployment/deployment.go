// Package deployment models the connected backend's deployment class and
// version, used by the tool version gate.
package deployment

import (
	"fmt"
	"regexp"
	"strconv"
)

// versionRegex accepts 3- or 4-numeric-component versions with an optional
// leading "v" and an optional trailing rc/pre-release suffix.
var versionRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:\.(\d+))?(?:rc\d+|-.*)?$`)

// Version is a (major, minor, patch, build) backend version.
type Version struct {
	Major int
	Minor int
	Patch int
	Build int
}

// ParseVersion parses a version string tolerantly. A missing fourth
// component defaults to 0; rc/pre-release suffixes are ignored.
func ParseVersion(s string) (Version, error) {
	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version format: %q", s)
	}
	v := Version{}
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	v.Patch, _ = strconv.Atoi(m[3])
	if m[4] != "" {
		v.Build, _ = strconv.Atoi(m[4])
	}
	return v, nil
}

// Compare returns -1, 0, or 1 ordering versions lexicographically by
// (major, minor, patch, build).
func (v Version) Compare(o Version) int {
	pairs := [4][2]int{
		{v.Major, o.Major},
		{v.Minor, o.Minor},
		{v.Patch, o.Patch},
		{v.Build, o.Build},
	}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v >= o.
func (v Version) AtLeast(o Version) bool { return v.Compare(o) >= 0 }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Build)
}

// Info describes the connected backend deployment.
type Info struct {
	// Hosted is true for hosted deployments, false for self-managed.
	Hosted  bool
	Version Version
}

// Requirement is the minimum backend version a tool requires per
// deployment class. A nil minimum means the tool is never available on
// that class, however high the version.
type Requirement struct {
	hostedMin      *Version
	selfManagedMin *Version
}

// NewRequirement parses minimum version strings for each deployment class.
// An empty string means the tool is unavailable on that class. Malformed
// strings fail here, at registration time, not at request time.
func NewRequirement(hostedMin, selfManagedMin string) (Requirement, error) {
	var req Requirement
	if hostedMin != "" {
		v, err := ParseVersion(hostedMin)
		if err != nil {
			return Requirement{}, fmt.Errorf("hosted minimum: %w", err)
		}
		req.hostedMin = &v
	}
	if selfManagedMin != "" {
		v, err := ParseVersion(selfManagedMin)
		if err != nil {
			return Requirement{}, fmt.Errorf("self-managed minimum: %w", err)
		}
		req.selfManagedMin = &v
	}
	return req, nil
}

// HostedMin returns the hosted minimum version, or nil.
func (r Requirement) HostedMin() *Version { return r.hostedMin }

// SelfManagedMin returns the self-managed minimum version, or nil.
func (r Requirement) SelfManagedMin() *Version { return r.selfManagedMin }

// SatisfiedBy reports whether the connected deployment meets the requirement.
func (r Requirement) SatisfiedBy(info Info) bool {
	if info.Hosted {
		return r.hostedMin != nil && info.Version.AtLeast(*r.hostedMin)
	}
	return r.selfManagedMin != nil && info.Version.AtLeast(*r.selfManagedMin)
}
