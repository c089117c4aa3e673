package report

// Document is a dependency-scanning report. Optional members use omitempty
// so that an absent value is left out instead of being written as null.
type Document struct {
	Version         string           `json:"version"`
	Vulnerabilities []Vulnerability  `json:"vulnerabilities"`
	Scan            *Scan            `json:"scan,omitempty"`
	DependencyFiles []DependencyFile `json:"dependency_files"`
}

type Vulnerability struct {
	ID          string       `json:"id,omitempty"`
	Category    string       `json:"category,omitempty"`
	Name        string       `json:"name,omitempty"`
	Message     string       `json:"message,omitempty"`
	Description string       `json:"description,omitempty"`
	CVE         string       `json:"cve,omitempty"`
	Severity    string       `json:"severity"`
	Confidence  string       `json:"confidence,omitempty"`
	Solution    string       `json:"solution,omitempty"`
	Scanner     Scanner      `json:"scanner"`
	Identifiers []Identifier `json:"identifiers"`
	Links       []Link       `json:"links,omitempty"`
	Location    Location     `json:"location"`
}

type Scanner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Identifier struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Value string `json:"value"`
}

type Link struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url"`
}

type Location struct {
	File       string     `json:"file"`
	Dependency Dependency `json:"dependency"`
}

type Dependency struct {
	Package        *Package `json:"package,omitempty"`
	Version        string   `json:"version,omitempty"`
	IID            *uint64  `json:"iid,omitempty"`
	Direct         *bool    `json:"direct,omitempty"`
	DependencyPath []IIDRef `json:"dependency_path,omitempty"`
}

type Package struct {
	Name string `json:"name,omitempty"`
}

type IIDRef struct {
	IID uint64 `json:"iid"`
}

type DependencyFile struct {
	Path           string       `json:"path"`
	PackageManager string       `json:"package_manager"`
	Dependencies   []Dependency `json:"dependencies"`
}

type Scan struct {
	Analyzer  Tool   `json:"analyzer"`
	Scanner   Tool   `json:"scanner"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	Type      string `json:"type"`
}

type Tool struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Vendor  Vendor `json:"vendor"`
}

type Vendor struct {
	Name string `json:"name"`
}
