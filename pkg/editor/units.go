package editor

import (
	"unicode"
	"unicode/utf8"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
)

// Unit is the granularity of a cursor movement.
type Unit int

const (
	UnitCharacter Unit = iota
	UnitWord
)

// unit is one cursor step inside a block: a rune or an entity.
type unit struct {
	off   int
	width int
	space bool
}

// blockUnits lists the cursor steps of a text block in location space.
func blockUnits(b *doc.Block) []unit {
	var us []unit
	pos := 0
	for _, n := range b.Children {
		t, ok := n.(*doc.Text)
		if !ok {
			us = append(us, unit{off: pos, width: 1})
			pos++
			continue
		}
		for i := 0; i < len(t.Text); {
			r, size := utf8.DecodeRuneInString(t.Text[i:])
			us = append(us, unit{off: pos + i, width: size, space: unicode.IsSpace(r)})
			i += size
		}
		pos += len(t.Text)
	}
	return us
}

func blockWidth(b *doc.Block) int {
	us := blockUnits(b)
	if len(us) == 0 {
		return 0
	}
	last := us[len(us)-1]
	return last.off + last.width
}

// unitBefore returns the unit ending at off.
func unitBefore(us []unit, off int) (unit, bool) {
	for i := len(us) - 1; i >= 0; i-- {
		if us[i].off+us[i].width == off {
			return us[i], true
		}
		if us[i].off < off {
			break
		}
	}
	return unit{}, false
}

// unitAt returns the unit starting at off.
func unitAt(us []unit, off int) (unit, bool) {
	for _, u := range us {
		if u.off == off {
			return u, true
		}
		if u.off > off {
			break
		}
	}
	return unit{}, false
}

// MoveBy moves the caret by distance units; negative distances move
// backwards. Crossing a block boundary counts as one step. An expanded
// selection first collapses onto the edge in the direction of travel.
func (s *Session) MoveBy(distance int, u Unit) {
	if distance == 0 {
		return
	}
	start, end := s.sel.Edges()
	p := end
	if distance < 0 {
		p = start
	}
	if !s.sel.Collapsed() {
		s.setSelection(doc.Caret(p))
		if distance > 0 {
			distance--
		} else {
			distance++
		}
	}
	loc, ok := s.doc.Locate(p)
	if !ok {
		s.SelectRange(doc.Caret(p))
		return
	}
	blocks := s.doc.TextBlocks()
	for ; distance > 0; distance-- {
		loc = s.step(blocks, loc, 1, u)
	}
	for ; distance < 0; distance++ {
		loc = s.step(blocks, loc, -1, u)
	}
	s.setSelection(doc.Caret(s.doc.Resolve(loc, doc.Backward)))
}

func (s *Session) step(blocks []doc.Path, loc doc.Location, dir int, u Unit) doc.Location {
	b, _ := s.doc.Block(blocks[loc.Block])
	us := blockUnits(b)
	w := blockWidth(b)
	if dir > 0 {
		if loc.Offset >= w {
			if loc.Block+1 < len(blocks) {
				return doc.Location{Block: loc.Block + 1}
			}
			return loc
		}
		if u == UnitCharacter {
			next, _ := unitAt(us, loc.Offset)
			return doc.Location{Block: loc.Block, Offset: loc.Offset + next.width}
		}
		off := loc.Offset
		for {
			next, ok := unitAt(us, off)
			if !ok || !next.space {
				break
			}
			off += next.width
		}
		for {
			next, ok := unitAt(us, off)
			if !ok || next.space {
				break
			}
			off += next.width
		}
		return doc.Location{Block: loc.Block, Offset: off}
	}

	if loc.Offset <= 0 {
		if loc.Block > 0 {
			prev, _ := s.doc.Block(blocks[loc.Block-1])
			return doc.Location{Block: loc.Block - 1, Offset: blockWidth(prev)}
		}
		return loc
	}
	if u == UnitCharacter {
		prev, _ := unitBefore(us, loc.Offset)
		return doc.Location{Block: loc.Block, Offset: prev.off}
	}
	off := loc.Offset
	for {
		prev, ok := unitBefore(us, off)
		if !ok || !prev.space {
			break
		}
		off = prev.off
	}
	for {
		prev, ok := unitBefore(us, off)
		if !ok || prev.space {
			break
		}
		off = prev.off
	}
	return doc.Location{Block: loc.Block, Offset: off}
}
