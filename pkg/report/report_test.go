//go:build unit
// +build unit

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cryptellation/auditreport/pkg/depgraph"
	"github.com/cryptellation/auditreport/pkg/finding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	crates   = "registry+https://github.com/rust-lang/crates.io-index"
	lockfile = "Cargo.lock"
)

// chain builds a→b→c with a as the only root.
func chain() (*depgraph.Graph, depgraph.IID, depgraph.IID, depgraph.IID) {
	g := depgraph.NewGraph(depgraph.EcosystemCargo)
	a := g.AddPackage(depgraph.Package{Name: "a", Version: "0.1.0"})
	b := g.AddPackage(depgraph.Package{Name: "b", Version: "1.0.0", Source: crates})
	c := g.AddPackage(depgraph.Package{Name: "c", Version: "2.0.0", Source: crates})
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	return g, a, b, c
}

func resolveAll(g *depgraph.Graph) []*depgraph.Resolution {
	var res []*depgraph.Resolution
	for _, root := range g.Roots() {
		res = append(res, depgraph.Resolve(g, root, depgraph.PolicyAdjacency))
	}
	return res
}

func findingOn(p depgraph.Package) finding.Finding {
	return finding.Finding{
		ID:          "RUSTSEC-2020-0071",
		Category:    finding.Category,
		Name:        "Potential segfault",
		Message:     "[" + p.Name + "] Potential segfault",
		CVE:         "RUSTSEC-2020-0071",
		Severity:    finding.SeverityMedium,
		Scanner:     finding.Scanner{ID: "cargo_audit", Name: "cargo-audit"},
		Identifiers: []finding.Identifier{{Type: "rustsec", Name: "RUSTSEC-2020-0071", Value: "RUSTSEC-2020-0071"}},
		Links:       []finding.Link{{URL: "https://example.com/advisory"}},
		Dependency:  p,
	}
}

func toJSON(t *testing.T, doc *Document) map[string]any {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func firstVulnerability(t *testing.T, doc *Document) map[string]any {
	vulns, ok := toJSON(t, doc)["vulnerabilities"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, vulns)
	return vulns[0].(map[string]any)
}

func TestAssemble_TransitiveChain(t *testing.T) {
	g, _, b, c := chain()
	doc := Assemble(Input{
		Version:     Version15,
		Graph:       g,
		Resolutions: resolveAll(g),
		Findings:    []finding.Finding{findingOn(g.Package(c))},
		File:        lockfile,
	})

	require.Len(t, doc.DependencyFiles, 1)
	file := doc.DependencyFiles[0]
	assert.Equal(t, lockfile, file.Path)
	assert.Equal(t, "cargo", file.PackageManager)
	require.Len(t, file.Dependencies, 2)

	depB := file.Dependencies[0]
	assert.Equal(t, "b", depB.Package.Name)
	assert.Equal(t, uint64(b), *depB.IID)
	assert.True(t, *depB.Direct)
	assert.Empty(t, depB.DependencyPath)

	depC := file.Dependencies[1]
	assert.Equal(t, "c", depC.Package.Name)
	assert.False(t, *depC.Direct)
	assert.Equal(t, []IIDRef{{IID: uint64(b)}}, depC.DependencyPath)

	require.Len(t, doc.Vulnerabilities, 1)
	loc := doc.Vulnerabilities[0].Location
	assert.Equal(t, lockfile, loc.File)
	assert.Equal(t, depC, loc.Dependency)
}

func TestAssemble_NoVulnerabilities(t *testing.T) {
	g, _, _, _ := chain()
	doc := Assemble(Input{Version: Version15, Graph: g, Resolutions: resolveAll(g), File: lockfile})

	out := toJSON(t, doc)
	assert.Equal(t, []any{}, out["vulnerabilities"])
	files := out["dependency_files"].([]any)
	require.Len(t, files, 1)
	assert.Len(t, files[0].(map[string]any)["dependencies"], 2)
}

func TestAssemble_WorkspaceRoots(t *testing.T) {
	g := depgraph.NewGraph(depgraph.EcosystemCargo)
	a := g.AddPackage(depgraph.Package{Name: "a", Version: "0.1.0"})
	d := g.AddPackage(depgraph.Package{Name: "d", Version: "0.1.0"})
	e := g.AddPackage(depgraph.Package{Name: "e", Version: "1.0.0", Source: crates})
	g.AddEdge(a, e)
	g.AddEdge(d, e)

	doc := Assemble(Input{Version: Version15, Graph: g, Resolutions: resolveAll(g), File: lockfile})

	require.Len(t, doc.DependencyFiles, 2)
	for _, file := range doc.DependencyFiles {
		require.Len(t, file.Dependencies, 1)
		dep := file.Dependencies[0]
		assert.Equal(t, "e", dep.Package.Name)
		assert.Equal(t, uint64(e), *dep.IID)
		assert.True(t, *dep.Direct)
		assert.Nil(t, dep.DependencyPath)
	}
}

func TestAssemble_FindingGoesToFirstReachingRoot(t *testing.T) {
	g := depgraph.NewGraph(depgraph.EcosystemCargo)
	a := g.AddPackage(depgraph.Package{Name: "a", Version: "0.1.0"})
	d := g.AddPackage(depgraph.Package{Name: "d", Version: "0.1.0"})
	x := g.AddPackage(depgraph.Package{Name: "x", Version: "1.0.0", Source: crates})
	e := g.AddPackage(depgraph.Package{Name: "e", Version: "1.0.0", Source: crates})
	g.AddEdge(a, x)
	g.AddEdge(x, e)
	g.AddEdge(d, e)

	doc := Assemble(Input{
		Version:     Version15,
		Graph:       g,
		Resolutions: resolveAll(g),
		Findings:    []finding.Finding{findingOn(g.Package(e))},
		File:        lockfile,
	})

	require.Len(t, doc.Vulnerabilities, 1)
	dep := doc.Vulnerabilities[0].Location.Dependency
	assert.False(t, *dep.Direct)
	assert.Equal(t, []IIDRef{{IID: uint64(x)}}, dep.DependencyPath)
}

func TestAssemble_LookupFallsBackToNameAndVersion(t *testing.T) {
	g, _, _, c := chain()
	p := g.Package(c)
	p.Source = "registry+https://mirror.example.com/index"

	doc := Assemble(Input{Version: Version15, Graph: g, Resolutions: resolveAll(g), Findings: []finding.Finding{findingOn(p)}, File: lockfile})
	require.NotNil(t, doc.Vulnerabilities[0].Location.Dependency.IID)
	assert.Equal(t, uint64(c), *doc.Vulnerabilities[0].Location.Dependency.IID)
}

func TestAssemble_UnreachablePackage(t *testing.T) {
	g, _, _, _ := chain()
	p := depgraph.Package{Name: "orphan", Version: "3.0.0", Source: crates}

	doc := Assemble(Input{Version: Version15, Graph: g, Resolutions: resolveAll(g), Findings: []finding.Finding{findingOn(p)}, File: lockfile})

	dep := firstVulnerability(t, doc)["location"].(map[string]any)["dependency"].(map[string]any)
	assert.Equal(t, map[string]any{
		"package": map[string]any{"name": "orphan"},
		"version": "3.0.0",
	}, dep)
	assert.Len(t, doc.DependencyFiles[0].Dependencies, 2)
}

func TestAssemble_UnknownSeverity(t *testing.T) {
	g, _, _, c := chain()
	f := findingOn(g.Package(c))
	f.Severity = finding.SeverityOf(nil)

	doc := Assemble(Input{Version: Version15, Graph: g, Resolutions: resolveAll(g), Findings: []finding.Finding{f}, File: lockfile})
	assert.Equal(t, "Unknown", firstVulnerability(t, doc)["severity"])
}

func TestAssemble_NoLinksKey(t *testing.T) {
	g, _, _, c := chain()
	f := findingOn(g.Package(c))
	f.Links = nil

	doc := Assemble(Input{Version: Version15, Graph: g, Resolutions: resolveAll(g), Findings: []finding.Finding{f}, File: lockfile})
	vuln := firstVulnerability(t, doc)
	_, present := vuln["links"]
	assert.False(t, present)
	_, present = vuln["solution"]
	assert.False(t, present)
}

func TestAssemble_DirectDependencyHasNoPathKey(t *testing.T) {
	g, _, b, _ := chain()

	doc := Assemble(Input{Version: Version15, Graph: g, Resolutions: resolveAll(g), Findings: []finding.Finding{findingOn(g.Package(b))}, File: lockfile})
	dep := firstVulnerability(t, doc)["location"].(map[string]any)["dependency"].(map[string]any)
	_, present := dep["dependency_path"]
	assert.False(t, present)
	assert.Equal(t, true, dep["direct"])
}

func TestAssemble_Profiles(t *testing.T) {
	g, _, _, c := chain()
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	info := &ScanInfo{
		Analyzer: ToolInfo{ID: "auditreport", Name: "auditreport", Version: "1.0.0", Vendor: "cryptellation"},
		Scanner:  ToolInfo{ID: "cargo_audit", Name: "cargo-audit", Version: "0.20.0", Vendor: "RustSec"},
		Start:    start,
		End:      start.Add(3 * time.Second),
	}

	tests := []struct {
		version    Version
		wantScan   bool
		wantLegacy bool
	}{
		{Version2, false, true},
		{Version14, true, true},
		{Version15, true, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.version), func(t *testing.T) {
			doc := Assemble(Input{
				Version:     tt.version,
				Graph:       g,
				Resolutions: resolveAll(g),
				Findings:    []finding.Finding{findingOn(g.Package(c))},
				File:        lockfile,
				Scan:        info,
			})
			out := toJSON(t, doc)
			assert.Equal(t, string(tt.version), out["version"])

			_, hasScan := out["scan"]
			assert.Equal(t, tt.wantScan, hasScan)

			vuln := out["vulnerabilities"].([]any)[0].(map[string]any)
			for _, key := range []string{"category", "message", "cve"} {
				_, present := vuln[key]
				assert.Equal(t, tt.wantLegacy, present, key)
			}
			for _, key := range []string{"id", "name", "severity", "scanner", "identifiers", "location"} {
				assert.Contains(t, vuln, key)
			}
		})
	}
}

func TestAssemble_ScanBlock(t *testing.T) {
	g, _, _, _ := chain()
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	doc := Assemble(Input{
		Version:     Version14,
		Graph:       g,
		Resolutions: resolveAll(g),
		File:        lockfile,
		Scan: &ScanInfo{
			Analyzer: ToolInfo{ID: "auditreport", Name: "auditreport", Version: "1.0.0", Vendor: "cryptellation"},
			Scanner:  ToolInfo{ID: "cargo_audit", Name: "cargo-audit", Version: "0.20.0", Vendor: "RustSec"},
			Start:    start,
			End:      start.Add(3 * time.Second),
		},
	})

	require.NotNil(t, doc.Scan)
	assert.Equal(t, "2024-03-01T10:00:00", doc.Scan.StartTime)
	assert.Equal(t, "2024-03-01T10:00:03", doc.Scan.EndTime)
	assert.Equal(t, "success", doc.Scan.Status)
	assert.Equal(t, "dependency_scanning", doc.Scan.Type)
	assert.Equal(t, Tool{ID: "cargo_audit", Name: "cargo-audit", Version: "0.20.0", Vendor: Vendor{Name: "RustSec"}}, doc.Scan.Scanner)
	assert.Equal(t, "cryptellation", doc.Scan.Analyzer.Vendor.Name)
}

func TestAssemble_ScanBlockWithoutClockReadings(t *testing.T) {
	g, _, _, _ := chain()
	doc := Assemble(Input{Version: Version15, Graph: g, Resolutions: resolveAll(g), File: lockfile})
	assert.Nil(t, doc.Scan)
}

func TestParseVersion(t *testing.T) {
	for _, s := range []string{"2.0", "14.1.2", "15.0.7"} {
		v, err := ParseVersion(s)
		require.NoError(t, err)
		assert.Equal(t, Version(s), v)
	}

	_, err := ParseVersion("3.0")
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncode_WriteError(t *testing.T) {
	g, _, _, _ := chain()
	doc := Assemble(Input{Version: Version15, Graph: g, Resolutions: resolveAll(g), File: lockfile})
	require.Error(t, Encode(failingWriter{}, doc))
}

func TestWriteSummary(t *testing.T) {
	g, _, b, c := chain()
	high := findingOn(g.Package(b))
	high.Severity = finding.SeverityHigh
	unreachable := findingOn(depgraph.Package{Name: "orphan", Version: "3.0.0"})
	unreachable.Identifiers[0].Value = "RUSTSEC-2022-0001"

	doc := Assemble(Input{
		Version:     Version15,
		Graph:       g,
		Resolutions: resolveAll(g),
		Findings:    []finding.Finding{high, findingOn(g.Package(c)), unreachable},
		File:        lockfile,
	})

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, doc, depgraph.EcosystemCargo))
	out := buf.String()

	assert.Contains(t, out, "Found 3 vulnerabilities (critical: 0, high: 1, medium: 2, low: 0, info: 0, unknown: 0)")
	assert.Contains(t, out, "pkg:cargo/b@1.0.0")
	assert.Contains(t, out, "pkg:cargo/c@2.0.0")
	assert.Contains(t, out, "direct")
	assert.Contains(t, out, "transitive")
	assert.Contains(t, out, "unreachable")
	assert.Contains(t, out, "RUSTSEC-2022-0001")
}

func TestWriteSummary_Empty(t *testing.T) {
	g, _, _, _ := chain()
	doc := Assemble(Input{Version: Version15, Graph: g, Resolutions: resolveAll(g), File: lockfile})

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, doc, depgraph.EcosystemCargo))
	assert.Equal(t, "No vulnerabilities found\n", buf.String())
}
