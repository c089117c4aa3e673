// Package finding turns matched advisories into canonical findings that know
// nothing about the position of the package in the dependency graph.
package finding

import (
	"strings"

	"github.com/cryptellation/auditreport/pkg/advisory"
	"github.com/cryptellation/auditreport/pkg/depgraph"
)

// Category is the report category of every finding.
const Category = "dependency_scanning"

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityUnknown  Severity = "unknown"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityOf maps an advisory rating to a finding severity. A missing rating
// is Unknown.
func SeverityOf(s *advisory.Severity) Severity {
	if s == nil {
		return SeverityUnknown
	}
	switch *s {
	case advisory.SeverityNone:
		return SeverityInfo
	case advisory.SeverityLow:
		return SeverityLow
	case advisory.SeverityMedium:
		return SeverityMedium
	case advisory.SeverityHigh:
		return SeverityHigh
	case advisory.SeverityCritical:
		return SeverityCritical
	default:
		return SeverityUnknown
	}
}

// Title returns the capitalized form used by the report schema.
func (s Severity) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Rank returns an integer rank for comparison (Info=1, Critical=5).
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityLow:
		return 2
	case SeverityMedium:
		return 3
	case SeverityHigh:
		return 4
	case SeverityCritical:
		return 5
	default:
		return 0
	}
}

type Scanner struct {
	ID   string
	Name string
}

type Identifier struct {
	Type  string
	Name  string
	URL   string
	Value string
}

type Link struct {
	Name string
	URL  string
}

// Finding is the normalized form of one vulnerability. Empty strings and nil
// slices stand for absent fields.
type Finding struct {
	ID          string
	Category    string
	Name        string
	Message     string
	Description string
	CVE         string
	Severity    Severity
	Solution    string
	Scanner     Scanner
	Identifiers []Identifier
	Links       []Link
	// Dependency is the matched package. Only its name and version are
	// reported; the source helps locating it in the graph.
	Dependency depgraph.Package
}
