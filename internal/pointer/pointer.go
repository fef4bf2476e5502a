package pointer

import (
	"errors"
	"fmt"
	"strings"

	"schema-expander/internal/common"
)

// ErrMalformedPointer is returned by Parse for pointers that do not have
// exactly three "/"-delimited segments.
var ErrMalformedPointer = errors.New("malformed pointer")

// Class names a document class. A pointer's first segment is a Class.
type Class string

// Document classes expanded recursively.
const (
	ClassField Class = "field"
	ClassModel Class = "model"
	ClassForm  Class = "form"
)

// ClassTemplate is the default leaf class: its content is opaque text.
const ClassTemplate Class = "template"

// DocumentClasses lists the recursively expanded classes in expansion order.
// Fields go first because models and forms extend them.
var DocumentClasses = []Class{ClassField, ClassModel, ClassForm}

// IsDocument reports whether c is one of the recursively expanded classes.
func (c Class) IsDocument() bool {
	switch c {
	case ClassField, ClassModel, ClassForm:
		return true
	default:
		return false
	}
}

// KnownExtensions are stripped from a pointer's filename to form its id.
var KnownExtensions = []string{".json", ".jsonc", ".yaml", ".yml", ".wikitext", ".txt"}

// Ref is a parsed extension pointer.
type Ref struct {
	// Path is the pointer as written, e.g. "/field/radius.json".
	Path string `json:"path"`
	// Class is the first segment. Empty for bare ids.
	Class Class `json:"type,omitempty"`
	// Filename is the last segment including its extension.
	Filename string `json:"filename,omitempty"`
	// ID is Filename without a known extension.
	ID string `json:"id"`
}

// Key returns the "class/id" key used to index ancestors.
func (r Ref) Key() string {
	if r.Class == "" {
		return r.ID
	}

	return string(r.Class) + "/" + r.ID
}

// IsBare reports whether the pointer carried no class.
func (r Ref) IsBare() bool {
	return r.Class == ""
}

// String returns the pointer as written.
func (r Ref) String() string {
	return r.Path
}

// Parse parses an extension pointer.
// Supports: "/field/radius.json", "/model/Circle", and bare ids like "radius".
func Parse(s string) (Ref, error) {
	if s == "" {
		return Ref{}, fmt.Errorf("%w: empty pointer", ErrMalformedPointer)
	}

	if !strings.Contains(s, "/") {
		return Ref{Path: s, ID: s}, nil
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Ref{}, fmt.Errorf("%w %q: expected \"/<type>/<filename>\", got %d segments",
			ErrMalformedPointer, s, len(parts))
	}

	if parts[0] != "" {
		return Ref{}, fmt.Errorf("%w %q: pointer must start with \"/\"", ErrMalformedPointer, s)
	}

	class, filename := parts[1], parts[2]
	if class == "" || filename == "" {
		return Ref{}, fmt.Errorf("%w %q: empty segment", ErrMalformedPointer, s)
	}

	return Ref{
		Path:     s,
		Class:    Class(class),
		Filename: filename,
		ID:       common.TrimExt(filename, KnownExtensions...),
	}, nil
}

// New builds the canonical pointer for a document of the given class and
// filename.
func New(class Class, filename string) Ref {
	return Ref{
		Path:     "/" + string(class) + "/" + filename,
		Class:    class,
		Filename: filename,
		ID:       common.TrimExt(filename, KnownExtensions...),
	}
}
