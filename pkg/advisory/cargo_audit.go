package advisory

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
)

// cargoAuditReport is the subset of `cargo audit --json` this tool reads.
type cargoAuditReport struct {
	Vulnerabilities struct {
		Found bool                     `json:"found"`
		Count int                      `json:"count"`
		List  []cargoAuditVulnerability `json:"list"`
	} `json:"vulnerabilities"`
}

type cargoAuditVulnerability struct {
	Advisory cargoAuditAdvisory `json:"advisory"`
	Versions *struct {
		Patched    []string `json:"patched"`
		Unaffected []string `json:"unaffected"`
	} `json:"versions"`
	Package struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"package"`
}

type cargoAuditAdvisory struct {
	ID                 string   `json:"id"`
	Package            string   `json:"package"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Date               string   `json:"date"`
	Aliases            []string `json:"aliases"`
	Keywords           []string `json:"keywords"`
	References         []string `json:"references"`
	URL                *string  `json:"url"`
	CVSS               *string  `json:"cvss"`
	Severity           *string  `json:"severity"`
	PatchedVersions    []string `json:"patched_versions"`
	UnaffectedVersions []string `json:"unaffected_versions"`
}

// ParseCargoAudit decodes a cargo-audit JSON report into matched vulnerabilities.
func ParseCargoAudit(r io.Reader) ([]Vulnerability, error) {
	var report cargoAuditReport
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cargo-audit json: %w", err)
	}

	vulns := make([]Vulnerability, 0, len(report.Vulnerabilities.List))
	for i, v := range report.Vulnerabilities.List {
		if v.Advisory.ID == "" {
			return nil, fmt.Errorf("vulnerability #%d has no advisory id", i+1)
		}
		if v.Package.Name == "" || v.Package.Version == "" {
			return nil, fmt.Errorf("vulnerability %s has no matched package", v.Advisory.ID)
		}

		adv := Advisory{
			ID:                 v.Advisory.ID,
			Package:            v.Advisory.Package,
			Title:              v.Advisory.Title,
			Description:        v.Advisory.Description,
			Date:               v.Advisory.Date,
			Severity:           rating(v.Advisory.Severity, v.Advisory.CVSS),
			PatchedVersions:    v.Advisory.PatchedVersions,
			UnaffectedVersions: v.Advisory.UnaffectedVersions,
			Aliases:            v.Advisory.Aliases,
			Keywords:           v.Advisory.Keywords,
			References:         v.Advisory.References,
		}
		if v.Advisory.URL != nil {
			adv.URL = *v.Advisory.URL
		}
		if v.Advisory.CVSS != nil {
			adv.CVSS = *v.Advisory.CVSS
		}
		// Recent cargo-audit releases moved the ranges under "versions".
		if v.Versions != nil {
			if len(adv.PatchedVersions) == 0 {
				adv.PatchedVersions = v.Versions.Patched
			}
			if len(adv.UnaffectedVersions) == 0 {
				adv.UnaffectedVersions = v.Versions.Unaffected
			}
		}

		vulns = append(vulns, Vulnerability{
			Advisory: adv,
			Package:  packageOf(v),
		})
	}
	return vulns, nil
}

// rating returns the explicit rating when present, else the rating of the
// CVSS v3 vector, else nil.
func rating(explicit, vector *string) *Severity {
	if explicit != nil {
		if s, err := ParseSeverity(*explicit); err == nil {
			return &s
		}
	}
	if vector == nil || *vector == "" {
		return nil
	}
	s, err := RatingFromCVSS(*vector)
	if err != nil {
		return nil
	}
	return &s
}

// RatingFromCVSS computes the qualitative rating of a CVSS v3.0 or v3.1 vector.
func RatingFromCVSS(vector string) (Severity, error) {
	var rat string
	var err error
	switch {
	case strings.HasPrefix(vector, "CVSS:3.1/"):
		var cvss *gocvss31.CVSS31
		if cvss, err = gocvss31.ParseVector(vector); err != nil {
			return "", fmt.Errorf("failed to parse cvss vector %q: %w", vector, err)
		}
		rat, err = gocvss31.Rating(cvss.BaseScore())
	case strings.HasPrefix(vector, "CVSS:3.0/"):
		var cvss *gocvss30.CVSS30
		if cvss, err = gocvss30.ParseVector(vector); err != nil {
			return "", fmt.Errorf("failed to parse cvss vector %q: %w", vector, err)
		}
		rat, err = gocvss30.Rating(cvss.BaseScore())
	default:
		return "", fmt.Errorf("unsupported cvss vector: %q", vector)
	}
	if err != nil {
		return "", err
	}
	return ParseSeverity(rat)
}
