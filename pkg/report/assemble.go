// Package report assembles dependency-scanning report documents from a
// dependency graph and normalized findings.
package report

import (
	"time"

	"github.com/cryptellation/auditreport/pkg/depgraph"
	"github.com/cryptellation/auditreport/pkg/finding"
)

const (
	// TimeFormat is the layout of scan timestamps.
	TimeFormat = "2006-01-02T15:04:05"

	scanStatusSuccess = "success"
)

// ToolInfo identifies an analyzer or a scanner in the scan block.
type ToolInfo struct {
	ID      string
	Name    string
	Version string
	Vendor  string
}

// ScanInfo carries the scan block data. Start and End bracket the fetch of
// the vulnerability list.
type ScanInfo struct {
	Analyzer ToolInfo
	Scanner  ToolInfo
	Start    time.Time
	End      time.Time
}

// Input is everything needed to assemble a document.
type Input struct {
	Version Version
	Graph   *depgraph.Graph
	// Resolutions holds one resolution per root, in root order.
	Resolutions []*depgraph.Resolution
	Findings    []finding.Finding
	// File is the lockfile path reported in locations and dependency files.
	File string
	// Scan is only used by versions with a scan block. It may be nil.
	Scan *ScanInfo
}

// Assemble builds the document. It does not modify its input.
func Assemble(in Input) *Document {
	profile := in.Version.Profile()

	doc := &Document{
		Version:         string(in.Version),
		Vulnerabilities: make([]Vulnerability, 0, len(in.Findings)),
		DependencyFiles: make([]DependencyFile, 0, len(in.Resolutions)),
	}

	for _, res := range in.Resolutions {
		doc.DependencyFiles = append(doc.DependencyFiles, DependencyFile{
			Path:           in.File,
			PackageManager: in.Graph.Ecosystem().PackageManager(),
			Dependencies:   dependencies(in.Graph, res),
		})
	}

	for _, f := range in.Findings {
		doc.Vulnerabilities = append(doc.Vulnerabilities, vulnerability(f, profile, Location{
			File:       in.File,
			Dependency: locate(in.Graph, in.Resolutions, f.Dependency),
		}))
	}

	if profile.Scan && in.Scan != nil {
		doc.Scan = scan(in.Scan)
	}

	return doc
}

func dependencies(g *depgraph.Graph, res *depgraph.Resolution) []Dependency {
	deps := make([]Dependency, 0, res.Len())
	for _, e := range res.Entries {
		deps = append(deps, dependency(g, e))
	}
	return deps
}

func dependency(g *depgraph.Graph, e depgraph.Entry) Dependency {
	p := g.Package(e.IID)
	iid := uint64(e.IID)
	direct := e.Direct

	d := Dependency{
		Package: &Package{Name: p.Name},
		Version: p.Version,
		IID:     &iid,
		Direct:  &direct,
	}
	if len(e.Path) > 0 {
		d.DependencyPath = make([]IIDRef, 0, len(e.Path))
		for _, id := range e.Path {
			d.DependencyPath = append(d.DependencyPath, IIDRef{IID: uint64(id)})
		}
	}
	return d
}

// locate places a matched package at the first root that reaches it. A
// package outside the graph, or unreachable from every root, only gets its
// name and version.
func locate(g *depgraph.Graph, resolutions []*depgraph.Resolution, p depgraph.Package) Dependency {
	if id, ok := g.Lookup(p); ok {
		for _, res := range resolutions {
			if e, ok := res.Get(id); ok {
				return dependency(g, e)
			}
		}
	}
	return Dependency{
		Package: &Package{Name: p.Name},
		Version: p.Version,
	}
}

func vulnerability(f finding.Finding, profile Profile, loc Location) Vulnerability {
	v := Vulnerability{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Severity:    f.Severity.Title(),
		Solution:    f.Solution,
		Scanner:     Scanner{ID: f.Scanner.ID, Name: f.Scanner.Name},
		Identifiers: make([]Identifier, 0, len(f.Identifiers)),
		Location:    loc,
	}
	if profile.LegacyFields {
		v.Category = f.Category
		v.Message = f.Message
		v.CVE = f.CVE
	}
	for _, id := range f.Identifiers {
		v.Identifiers = append(v.Identifiers, Identifier{
			Type:  id.Type,
			Name:  id.Name,
			URL:   id.URL,
			Value: id.Value,
		})
	}
	if len(f.Links) > 0 {
		v.Links = make([]Link, 0, len(f.Links))
		for _, l := range f.Links {
			v.Links = append(v.Links, Link{Name: l.Name, URL: l.URL})
		}
	}
	return v
}

func scan(info *ScanInfo) *Scan {
	return &Scan{
		Analyzer:  tool(info.Analyzer),
		Scanner:   tool(info.Scanner),
		StartTime: info.Start.UTC().Format(TimeFormat),
		EndTime:   info.End.UTC().Format(TimeFormat),
		Status:    scanStatusSuccess,
		Type:      finding.Category,
	}
}

func tool(t ToolInfo) Tool {
	return Tool{
		ID:      t.ID,
		Name:    t.Name,
		Version: t.Version,
		Vendor:  Vendor{Name: t.Vendor},
	}
}
