package depgraph

import (
	"fmt"
	"strings"

	"github.com/package-url/packageurl-go"
)

// Ecosystem identifies the package manager a graph was built from.
type Ecosystem string

const (
	EcosystemCargo Ecosystem = "cargo"
	EcosystemGo    Ecosystem = "go"
)

// ParseEcosystem parses a configured ecosystem name.
func ParseEcosystem(s string) (Ecosystem, error) {
	switch Ecosystem(s) {
	case EcosystemCargo, EcosystemGo:
		return Ecosystem(s), nil
	default:
		return "", fmt.Errorf("unsupported ecosystem: %s", s)
	}
}

// PackageManager returns the package_manager tag used in reports.
func (e Ecosystem) PackageManager() string {
	return string(e)
}

func (e Ecosystem) purlType() string {
	if e == EcosystemGo {
		return packageurl.TypeGolang
	}
	return packageurl.TypeCargo
}

// Package is a node of the dependency graph. Source is empty for packages
// defined locally (the scanned project or its workspace members).
type Package struct {
	Name    string
	Version string
	Source  string
}

// IsLocal reports whether the package has no external source.
func (p Package) IsLocal() bool {
	return p.Source == ""
}

func (p Package) String() string {
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "@" + p.Version
}

// PURL returns the package URL of p in the given ecosystem.
func (p Package) PURL(e Ecosystem) string {
	namespace, name := "", p.Name
	if e == EcosystemGo {
		if i := strings.LastIndex(p.Name, "/"); i >= 0 {
			namespace, name = p.Name[:i], p.Name[i+1:]
		}
	}
	return packageurl.NewPackageURL(e.purlType(), namespace, name, p.Version, nil, "").ToString()
}
