package recognize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
)

// PopupRecognizer opens a candidate popup for "<sigil><term>".
type PopupRecognizer struct {
	Family Family
	Sigil  rune
	// Search returns unranked candidates for term.
	Search func(term string) []Candidate
	// Describe fills in Candidate.Detail for displayed options. Optional.
	Describe func(c *Candidate)

	pattern *regexp.Regexp
}

// match returns the term when word is "<sigil><alnum>+".
func (p *PopupRecognizer) match(word string) (string, bool) {
	m := p.pattern.FindStringSubmatch(word)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// rank orders candidates by fuzzy distance to term and keeps the best few.
func (p *PopupRecognizer) rank(term string, cands []Candidate) []Candidate {
	keys := make([]string, len(cands))
	for i, c := range cands {
		keys[i] = c.Key
	}
	ranks := fuzzy.RankFindFold(term, keys)
	sort.Stable(ranks)
	out := make([]Candidate, 0, MaxCandidates)
	for _, r := range ranks {
		if len(out) == MaxCandidates {
			break
		}
		c := cands[r.OriginalIndex]
		if p.Describe != nil {
			p.Describe(&c)
		}
		out = append(out, c)
	}
	return out
}

// WordContext describes where a completed word sits.
type WordContext struct {
	// AtBlockStart is set when the word is the first thing in its block.
	AtBlockStart bool
	BlockType    doc.BlockType
}

// WordMatch is the result of recognizing a completed word.
type WordMatch struct {
	Family Family
	// Entity replaces the word. Nil for block shortcuts.
	Entity doc.Entity
	// BlockType is the list type a block shortcut converts to.
	BlockType doc.BlockType
	// Prefix and Suffix are kept around the entity, e.g. parentheses.
	Prefix string
	Suffix string
}

// WordRecognizer turns a completed word into an entity or block change.
type WordRecognizer interface {
	Family() Family
	Recognize(word string, ctx WordContext) (WordMatch, bool)
}

// Registry holds the recognizers in priority order.
type Registry struct {
	popups []*PopupRecognizer
	words  []WordRecognizer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterPopup adds a popup recognizer. Sigils must be unique so at most
// one popup family matches any trailing word.
func (r *Registry) RegisterPopup(p *PopupRecognizer) error {
	for _, existing := range r.popups {
		if existing.Sigil == p.Sigil {
			return fmt.Errorf("%w: %q", ErrDuplicateSigil, p.Sigil)
		}
	}
	p.pattern = regexp.MustCompile("^" + regexp.QuoteMeta(string(p.Sigil)) + "([a-zA-Z0-9]+)$")
	r.popups = append(r.popups, p)
	return nil
}

// RegisterWord appends a word recognizer at the lowest priority.
func (r *Registry) RegisterWord(w WordRecognizer) {
	r.words = append(r.words, w)
}

// Popups returns the popup recognizers.
func (r *Registry) Popups() []*PopupRecognizer {
	return r.popups
}

// CompleteWord runs the word recognizers in priority order.
func (r *Registry) CompleteWord(word string, ctx WordContext) (WordMatch, bool) {
	if word == "" {
		return WordMatch{}, false
	}
	for _, w := range r.words {
		if m, ok := w.Recognize(word, ctx); ok {
			m.Family = w.Family()
			return m, true
		}
	}
	return WordMatch{}, false
}

// PageRecognizer builds the '#' page reference recognizer.
func PageRecognizer(dir PageDirectory) *PopupRecognizer {
	return &PopupRecognizer{
		Family: FamilyPage,
		Sigil:  '#',
		Search: func(term string) []Candidate {
			refs := dir.LookupByPrefix(term)
			cands := make([]Candidate, len(refs))
			for i, ref := range refs {
				cands[i] = Candidate{Key: ref.Name, Entity: &doc.PageLink{PageID: ref.ID, Name: ref.Name}}
			}
			return cands
		},
		Describe: func(c *Candidate) {
			link := c.Entity.(*doc.PageLink)
			var path []string
			for _, id := range dir.ResolvePath(link.PageID) {
				path = append(path, dir.PageName(id))
			}
			c.Detail = strings.Join(append(path, link.Name), "/")
		},
	}
}

// RecordRecognizer builds the '@' record reference recognizer.
func RecordRecognizer(dir RecordDirectory) *PopupRecognizer {
	return &PopupRecognizer{
		Family: FamilyRecord,
		Sigil:  '@',
		Search: func(term string) []Candidate {
			refs := dir.LookupByPrefix(term)
			cands := make([]Candidate, len(refs))
			for i, ref := range refs {
				cands[i] = Candidate{
					Key:    ref.Name,
					Detail: "Table: " + ref.TableID,
					Entity: &doc.RecordLink{RecordID: ref.ID, TableID: ref.TableID, Name: ref.Name},
				}
			}
			return cands
		},
	}
}

// DefaultRegistry wires the page and record popups and the URL, dice, list
// and formula word recognizers in that priority. Nil directories skip their
// popup.
func DefaultRegistry(pages PageDirectory, records RecordDirectory) *Registry {
	r := NewRegistry()
	if records != nil {
		_ = r.RegisterPopup(RecordRecognizer(records))
	}
	if pages != nil {
		_ = r.RegisterPopup(PageRecognizer(pages))
	}
	r.RegisterWord(URLRecognizer{})
	r.RegisterWord(DiceRecognizer{})
	r.RegisterWord(ListRecognizer{})
	r.RegisterWord(FormulaRecognizer{})
	return r
}
