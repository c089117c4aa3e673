package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cryptellation/auditreport/pkg/depgraph"
	"github.com/cryptellation/auditreport/pkg/finding"
)

// Encode writes doc as indented JSON. The document is fully serialized before
// the first write so a failure never leaves partial output behind.
func Encode(w io.Writer, doc *Document) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

var summarySeverities = []finding.Severity{
	finding.SeverityCritical,
	finding.SeverityHigh,
	finding.SeverityMedium,
	finding.SeverityLow,
	finding.SeverityInfo,
	finding.SeverityUnknown,
}

// WriteSummary prints a human-readable summary of the vulnerabilities in doc.
func WriteSummary(w io.Writer, doc *Document, ecosystem depgraph.Ecosystem) error {
	if len(doc.Vulnerabilities) == 0 {
		_, err := fmt.Fprintln(w, "No vulnerabilities found")
		return err
	}

	counts := make(map[finding.Severity]int, len(summarySeverities))
	for _, v := range doc.Vulnerabilities {
		counts[finding.Severity(strings.ToLower(v.Severity))]++
	}
	parts := make([]string, 0, len(summarySeverities))
	for _, s := range summarySeverities {
		parts = append(parts, fmt.Sprintf("%s: %d", s, counts[s]))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Found %d vulnerabilities (%s)\n", len(doc.Vulnerabilities), strings.Join(parts, ", "))
	fmt.Fprintln(tw, "ID\tSEVERITY\tPACKAGE\tVERSION\tDEPENDENCY\tPURL")
	for _, v := range doc.Vulnerabilities {
		dep := v.Location.Dependency
		name := ""
		if dep.Package != nil {
			name = dep.Package.Name
		}
		purl := depgraph.Package{Name: name, Version: dep.Version}.PURL(ecosystem)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			identifierOf(v), v.Severity, name, dep.Version, kindOf(dep), purl)
	}
	return tw.Flush()
}

func identifierOf(v Vulnerability) string {
	if len(v.Identifiers) > 0 {
		return v.Identifiers[0].Value
	}
	return v.ID
}

func kindOf(d Dependency) string {
	switch {
	case d.Direct == nil:
		return "unreachable"
	case *d.Direct:
		return "direct"
	default:
		return "transitive"
	}
}
