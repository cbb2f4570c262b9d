// Package keyscript turns key scripts into key events for replay through the
// keymap. A script is literal text mixed with tags:
//
//   - <Enter>, <Shift-Enter>, <Backspace>, <Esc>, <Space>
//   - <Up>, <Down>, <Left>, <Right>
//   - <Mod-x>, <Mod-Shift-x> for shortcuts such as <Mod-b>
//   - <lt> for a literal '<'
//
// A '<' that does not start a well-formed tag is typed as-is. A newline in
// the script presses Enter.
package keyscript

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/open-cli-collective/lore-cli/pkg/keymap"
)

// ErrUnknownKey is returned for a well-formed tag naming no key.
var ErrUnknownKey = errors.New("unknown key")

var namedKeys = map[string]keymap.KeyEvent{
	"enter":       {Key: keymap.KeyEnter},
	"shift-enter": {Key: keymap.KeyEnter, Shift: true},
	"backspace":   {Key: keymap.KeyBackspace},
	"bs":          {Key: keymap.KeyBackspace},
	"esc":         {Key: keymap.KeyEscape},
	"escape":      {Key: keymap.KeyEscape},
	"space":       {Key: keymap.KeySpace},
	"up":          {Key: keymap.KeyUp},
	"down":        {Key: keymap.KeyDown},
	"left":        {Key: keymap.KeyLeft},
	"right":       {Key: keymap.KeyRight},
	"lt":          {Key: "<"},
}

// Parse tokenizes script into key events.
func Parse(script string) ([]keymap.KeyEvent, error) {
	var events []keymap.KeyEvent
	pos := 0
	for pos < len(script) {
		if script[pos] == '<' {
			if name, end, ok := scanTag(script, pos); ok {
				ev, err := lookup(name)
				if err != nil {
					return nil, fmt.Errorf("position %d: %w", pos, err)
				}
				events = append(events, ev)
				pos = end
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(script[pos:])
		pos += size
		switch r {
		case '\r':
		case '\n':
			events = append(events, keymap.KeyEvent{Key: keymap.KeyEnter})
		default:
			events = append(events, keymap.KeyEvent{Key: string(r)})
		}
	}
	return events, nil
}

// scanTag reads "<name>" at pos. Names are letters, digits and dashes, and
// the last dash-separated part may be any single character.
func scanTag(script string, pos int) (string, int, bool) {
	end := strings.IndexByte(script[pos+1:], '>')
	if end <= 0 {
		return "", pos, false
	}
	name := script[pos+1 : pos+1+end]
	// "<Mod->>" binds the '>' key.
	if strings.HasSuffix(name, "-") && pos+2+end < len(script) && script[pos+2+end] == '>' {
		name += ">"
		end++
	}
	parts := strings.Split(name, "-")
	for i, part := range parts {
		if part == "" {
			return "", pos, false
		}
		if i == len(parts)-1 && utf8.RuneCountInString(part) == 1 {
			continue
		}
		for _, r := range part {
			if !isTagChar(r) {
				return "", pos, false
			}
		}
	}
	return name, pos + 2 + end, true
}

func isTagChar(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

func lookup(name string) (keymap.KeyEvent, error) {
	if ev, ok := namedKeys[strings.ToLower(name)]; ok {
		return ev, nil
	}
	parts := strings.Split(name, "-")
	key := parts[len(parts)-1]
	if len(parts) < 2 || utf8.RuneCountInString(key) != 1 {
		return keymap.KeyEvent{}, fmt.Errorf("%w: <%s>", ErrUnknownKey, name)
	}
	var ev keymap.KeyEvent
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "mod", "ctrl", "cmd":
			ev.Mod = true
		case "shift":
			ev.Shift = true
		case "alt":
			ev.Alt = true
		default:
			return keymap.KeyEvent{}, fmt.Errorf("%w: modifier %q in <%s>", ErrUnknownKey, mod, name)
		}
	}
	ev.Key = strings.ToLower(key)
	return ev, nil
}
