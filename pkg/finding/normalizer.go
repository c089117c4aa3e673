package finding

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cryptellation/auditreport/pkg/advisory"
	"github.com/google/uuid"
)

// IDMode selects how finding ids are built.
type IDMode int

const (
	// IDAdvisory reuses the advisory id, so the same finding keeps its id
	// across runs.
	IDAdvisory IDMode = iota
	// IDUUID derives a name-based UUID from the advisory id and the matched
	// package. It is unique per (advisory, package) and still stable across runs.
	IDUUID
)

// ParseIDMode parses a configured id mode.
func ParseIDMode(s string) (IDMode, error) {
	switch s {
	case "advisory", "":
		return IDAdvisory, nil
	case "uuid":
		return IDUUID, nil
	default:
		return 0, fmt.Errorf("unsupported id mode: %s", s)
	}
}

// Options configure a Normalizer.
type Options struct {
	IDMode         IDMode
	IdentifierType string
	IdentifierURL  string
	Scanner        Scanner
}

// DefaultOptions returns the options for RustSec advisories reported by cargo-audit.
func DefaultOptions() Options {
	return Options{
		IDMode:         IDAdvisory,
		IdentifierType: "rustsec",
		IdentifierURL:  "https://rustsec.org/advisories/",
		Scanner:        Scanner{ID: "cargo_audit", Name: "cargo-audit"},
	}
}

type Normalizer struct {
	opts      Options
	namespace uuid.UUID
}

func NewNormalizer(opts Options) *Normalizer {
	return &Normalizer{
		opts:      opts,
		namespace: uuid.NewSHA1(uuid.NameSpaceURL, []byte(opts.IdentifierURL)),
	}
}

// Normalize maps one vulnerability to a finding. It has no side effects.
func (n *Normalizer) Normalize(v advisory.Vulnerability) Finding {
	adv := v.Advisory

	f := Finding{
		ID:          n.id(v),
		Category:    Category,
		Name:        adv.Title,
		Message:     message(v),
		Description: adv.Description,
		CVE:         adv.ID,
		Severity:    SeverityOf(adv.Severity),
		Solution:    solution(adv.PatchedVersions),
		Scanner:     n.opts.Scanner,
		Identifiers: []Identifier{{
			Type:  n.opts.IdentifierType,
			Name:  adv.ID,
			URL:   n.opts.IdentifierURL + adv.ID,
			Value: adv.ID,
		}},
		Dependency: v.Package,
	}
	if adv.URL != "" {
		f.Links = []Link{{URL: adv.URL}}
	}
	return f
}

// NormalizeAll normalizes vulns, keeping their order.
func (n *Normalizer) NormalizeAll(vulns []advisory.Vulnerability) []Finding {
	findings := make([]Finding, 0, len(vulns))
	for _, v := range vulns {
		findings = append(findings, n.Normalize(v))
	}
	return findings
}

func (n *Normalizer) id(v advisory.Vulnerability) string {
	if n.opts.IDMode != IDUUID {
		return v.Advisory.ID
	}
	name := strings.Join([]string{v.Advisory.ID, v.Package.Name, v.Package.Version}, "\x00")
	return uuid.NewSHA1(n.namespace, []byte(name)).String()
}

func message(v advisory.Vulnerability) string {
	if v.Advisory.Title == "" {
		return ""
	}
	pkg := v.Advisory.Package
	if pkg == "" {
		pkg = v.Package.Name
	}
	return fmt.Sprintf("[%s] %s", pkg, v.Advisory.Title)
}

// solution suggests the patched versions, or nothing when there are none.
// Requirements that are not valid semver constraints are kept as written.
func solution(patched []string) string {
	if len(patched) == 0 {
		return ""
	}
	reqs := make([]string, 0, len(patched))
	for _, p := range patched {
		if c, err := semver.NewConstraint(p); err == nil {
			reqs = append(reqs, c.String())
		} else {
			reqs = append(reqs, strings.TrimSpace(p))
		}
	}
	return "Upgrade to " + strings.Join(reqs, " or ")
}
