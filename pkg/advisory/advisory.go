package advisory

import (
	"fmt"
	"strings"

	"github.com/cryptellation/auditreport/pkg/depgraph"
)

// Severity is the rating carried by an advisory.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ParseSeverity parses a rating case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return SeverityNone, nil
	case "low":
		return SeverityLow, nil
	case "medium", "moderate":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return "", fmt.Errorf("invalid severity: %s", s)
	}
}

// Advisory is a published vulnerability record. Severity is nil when the
// advisory carries no rating.
type Advisory struct {
	ID                 string
	Package            string
	Title              string
	Description        string
	Date               string
	Severity           *Severity
	CVSS               string
	URL                string
	PatchedVersions    []string
	UnaffectedVersions []string
	Aliases            []string
	Keywords           []string
	References         []string
}

// Vulnerability pairs an advisory with the package instance it matched.
type Vulnerability struct {
	Advisory Advisory
	Package  depgraph.Package
}
