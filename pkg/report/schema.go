package report

import (
	"errors"
	"fmt"
)

// ErrUnsupportedVersion is returned for schema versions this tool cannot write.
var ErrUnsupportedVersion = errors.New("unsupported report schema version")

// Version is a dependency-scanning report schema version.
type Version string

const (
	// Version2 is the first layout: no scan block.
	Version2 Version = "2.0"
	// Version14 adds the scan block.
	Version14 Version = "14.1.2"
	// Version15 keeps the scan block and drops category, message and cve.
	Version15 Version = "15.0.7"
)

// Profile lists the optional blocks a schema version carries.
type Profile struct {
	Scan         bool
	LegacyFields bool
}

// ParseVersion validates a configured schema version.
func ParseVersion(s string) (Version, error) {
	v := Version(s)
	switch v {
	case Version2, Version14, Version15:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedVersion, s)
	}
}

func (v Version) Profile() Profile {
	switch v {
	case Version2:
		return Profile{Scan: false, LegacyFields: true}
	case Version14:
		return Profile{Scan: true, LegacyFields: true}
	default:
		return Profile{Scan: true, LegacyFields: false}
	}
}
