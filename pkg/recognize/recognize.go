// Package recognize watches the text before the cursor for trigger patterns:
// sigil-prefixed references that open a candidate popup, and completed words
// (URLs, dice, list shortcuts, formulas) that turn into entities.
package recognize

import (
	"errors"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
)

const (
	// MaxWindow caps how many bytes before the cursor are examined.
	MaxWindow = 64
	// MaxCandidates caps the ranked popup options.
	MaxCandidates = 5
)

// ErrDuplicateSigil is returned when two popup recognizers share a sigil.
var ErrDuplicateSigil = errors.New("sigil already registered")

// Family names a recognizer family.
type Family string

const (
	FamilyPage    Family = "page"
	FamilyRecord  Family = "record"
	FamilyURL     Family = "url"
	FamilyDice    Family = "dice"
	FamilyFormat  Family = "format"
	FamilyFormula Family = "formula"
)

// PageRef is a page known to the page directory.
type PageRef struct {
	ID   string
	Name string
}

// RecordRef is a record known to the record directory.
type RecordRef struct {
	ID      string
	Name    string
	TableID string
}

// PageDirectory supplies pages for '#' references.
type PageDirectory interface {
	// LookupByPrefix returns pages that may match term. Ranking is done by
	// the caller, so a directory may over-approximate.
	LookupByPrefix(term string) []PageRef
	// ResolvePath returns the ids of the page's ancestors, root first.
	ResolvePath(pageID string) []string
	// PageName returns the display name of a page, or "" if unknown.
	PageName(pageID string) string
}

// RecordDirectory supplies records for '@' references.
type RecordDirectory interface {
	LookupByPrefix(term string) []RecordRef
}

// Candidate is one popup option.
type Candidate struct {
	// Key is the text ranked against the typed term.
	Key string
	// Detail is secondary display text such as a page path.
	Detail string
	Entity doc.Entity
}

// Splicer is the editing surface a commit writes through.
type Splicer interface {
	SelectRange(r doc.Range)
	InsertInline(e doc.Entity) error
}
