package recognize

import (
	"net/netip"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/open-cli-collective/lore-cli/pkg/dice"
	"github.com/open-cli-collective/lore-cli/pkg/doc"
)

// urlPattern accepts scheme-relative or http(s)/ftp URLs with a dotted IPv4
// or domain host. Private ranges are rejected separately by publicIPv4.
var urlPattern = regexp.MustCompile(`(?i)^(?:(?:https?|ftp):)?//` +
	`(?:\S+(?::\S*)?@)?` +
	`(?P<host>[0-9]{1,3}(?:\.[0-9]{1,3}){3}` +
	`|(?:(?:[a-z0-9\x{00a1}-\x{ffff}][a-z0-9\x{00a1}-\x{ffff}_-]{0,62})?[a-z0-9\x{00a1}-\x{ffff}]\.)+[a-z\x{00a1}-\x{ffff}]{2,}\.?)` +
	`(?::\d{2,5})?` +
	`(?:[/?#]\S*)?$`)

var imagePattern = regexp.MustCompile(`(?i)\.(jpeg|jpg|gif|png)(\?|$)`)

var hostIndex = urlPattern.SubexpIndex("host")

// publicIPv4 rejects loopback, private, link-local, reserved and
// network/broadcast addresses.
func publicIPv4(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil || !addr.Is4() {
		return false
	}
	b := addr.As4()
	switch {
	case addr.IsLoopback(), addr.IsPrivate(), addr.IsLinkLocalUnicast():
		return false
	case b[0] == 0 || b[0] >= 224:
		return false
	case b[3] == 0 || b[3] == 255:
		return false
	}
	return true
}

// URLRecognizer links URLs; image URLs become images.
type URLRecognizer struct{}

func (URLRecognizer) Family() Family { return FamilyURL }

func (URLRecognizer) Recognize(word string, _ WordContext) (WordMatch, bool) {
	m := urlPattern.FindStringSubmatch(word)
	if m == nil {
		return WordMatch{}, false
	}
	host := m[hostIndex]
	if strings.Trim(host, "0123456789.") == "" && !publicIPv4(host) {
		return WordMatch{}, false
	}
	if imagePattern.MatchString(word) {
		return WordMatch{Entity: &doc.Image{Src: word}}, true
	}
	return WordMatch{Entity: &doc.Link{DisplayText: word}}, true
}

// DiceRecognizer turns dice notation into a roller, keeping parentheses.
type DiceRecognizer struct{}

func (DiceRecognizer) Family() Family { return FamilyDice }

func (DiceRecognizer) Recognize(word string, _ WordContext) (WordMatch, bool) {
	inner, open, closed := dice.Unwrap(word)
	e, ok := dice.Parse(inner)
	if !ok {
		return WordMatch{}, false
	}
	m := WordMatch{Entity: &doc.Roller{Expression: e.Text}}
	if open {
		m.Prefix = "("
	}
	if closed {
		m.Suffix = ")"
	}
	return m, true
}

// ListRecognizer turns "1." into an ordered list and "*" or "-" into a
// bullet list when typed at the start of a block.
type ListRecognizer struct{}

func (ListRecognizer) Family() Family { return FamilyFormat }

func (ListRecognizer) Recognize(word string, ctx WordContext) (WordMatch, bool) {
	if !ctx.AtBlockStart || ctx.BlockType == doc.ListItem {
		return WordMatch{}, false
	}
	switch word {
	case "1.":
		return WordMatch{BlockType: doc.OrderedList}, true
	case "*", "-":
		return WordMatch{BlockType: doc.BulletList}, true
	}
	return WordMatch{}, false
}

// FormulaRecognizer turns "$()" into a placeholder formula and "$(expr)"
// into a formula with that expression.
type FormulaRecognizer struct{}

func (FormulaRecognizer) Family() Family { return FamilyFormula }

func (FormulaRecognizer) Recognize(word string, _ WordContext) (WordMatch, bool) {
	if !strings.HasPrefix(word, "$(") || !strings.HasSuffix(word, ")") {
		return WordMatch{}, false
	}
	expr := word[2 : len(word)-1]
	if expr == "" {
		expr = doc.FormulaPlaceholder
	}
	return WordMatch{Entity: &doc.Formula{Expression: expr, FormulaID: uuid.NewString()}}, true
}
