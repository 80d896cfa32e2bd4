package lint

import "fmt"

// Severity indicates how serious a finding is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Finding represents a single lint result.
type Finding struct {
	File     string
	Line     int // 0 when the module cannot map the finding to a line
	Module   string
	Severity Severity
	Message  string
}

// FileKind says what a linted file contains.
type FileKind int

const (
	KindDescriptor FileKind = iota
	KindSigning
)

func (k FileKind) String() string {
	if k == KindSigning {
		return "signing"
	}
	return "descriptor"
}

// FileInfo is passed to each module for inspection.
type FileInfo struct {
	Path    string // path as given on the command line
	AbsPath string // absolute path on disk
	Kind    FileKind
}
