package store

import (
	"context"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/open-cli-collective/lore-cli/pkg/recognize"
)

const (
	pagesKey   = "pages"
	recordsKey = "records"
)

// pageSnapshot is the materialized page tree served to the recognizers.
type pageSnapshot struct {
	pages []Page
	byID  map[string]Page
}

// PageDirectory serves '#' page lookups from a cached snapshot.
type PageDirectory struct {
	store *Store
}

// RecordDirectory serves '@' record lookups from a cached snapshot.
type RecordDirectory struct {
	store *Store
}

// Pages returns the page directory of s.
func (s *Store) Pages() *PageDirectory { return &PageDirectory{store: s} }

// Records returns the record directory of s.
func (s *Store) Records() *RecordDirectory { return &RecordDirectory{store: s} }

var (
	_ recognize.PageDirectory   = (*PageDirectory)(nil)
	_ recognize.RecordDirectory = (*RecordDirectory)(nil)
)

// LookupByPrefix returns pages whose names fuzzily contain term.
func (d *PageDirectory) LookupByPrefix(term string) []recognize.PageRef {
	snap := d.store.pageSnapshot()
	var refs []recognize.PageRef
	for _, p := range snap.pages {
		if term == "" || fuzzy.MatchFold(term, p.Name) {
			refs = append(refs, recognize.PageRef{ID: p.ID, Name: p.Name})
		}
	}
	return refs
}

// ResolvePath returns the ids of the page's ancestors, root first.
func (d *PageDirectory) ResolvePath(pageID string) []string {
	snap := d.store.pageSnapshot()
	page, ok := snap.byID[pageID]
	if !ok {
		return nil
	}
	var path []string
	seen := map[string]bool{pageID: true}
	for id := page.ParentID; id != "" && !seen[id]; {
		seen[id] = true
		parent, ok := snap.byID[id]
		if !ok {
			break
		}
		path = append([]string{parent.ID}, path...)
		id = parent.ParentID
	}
	return path
}

// PageName returns the name of pageID, or "" if it is not in the directory.
func (d *PageDirectory) PageName(pageID string) string {
	return d.store.pageSnapshot().byID[pageID].Name
}

// PathNames returns the names of the page's ancestors, root first.
func (d *PageDirectory) PathNames(pageID string) []string {
	ids := d.ResolvePath(pageID)
	if ids == nil {
		return nil
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = d.PageName(id)
	}
	return names
}

// LookupByPrefix returns records whose names fuzzily contain term.
func (d *RecordDirectory) LookupByPrefix(term string) []recognize.RecordRef {
	var refs []recognize.RecordRef
	for _, r := range d.store.recordSnapshot() {
		if term == "" || fuzzy.MatchFold(term, r.Name) {
			refs = append(refs, recognize.RecordRef{ID: r.ID, Name: r.Name, TableID: r.TableID})
		}
	}
	return refs
}

func (s *Store) pageSnapshot() *pageSnapshot {
	if v, ok := s.snapshots.Get(pagesKey); ok {
		return v.(*pageSnapshot)
	}
	pages, err := s.ListPages(context.Background())
	if err != nil {
		s.logger.Warn("load page directory", zap.Error(err))
		return &pageSnapshot{byID: map[string]Page{}}
	}
	snap := &pageSnapshot{pages: pages, byID: make(map[string]Page, len(pages))}
	for _, p := range pages {
		snap.byID[p.ID] = p
	}
	s.snapshots.SetDefault(pagesKey, snap)
	return snap
}

func (s *Store) recordSnapshot() []Record {
	if v, ok := s.snapshots.Get(recordsKey); ok {
		return v.([]Record)
	}
	records, err := s.ListRecords(context.Background(), "")
	if err != nil {
		s.logger.Warn("load record directory", zap.Error(err))
		return nil
	}
	s.snapshots.SetDefault(recordsKey, records)
	return records
}
