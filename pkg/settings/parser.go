package settings

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseError indicates the settings document could not be decoded as
// text at all. Malformed entries inside a decodable document are
// skipped, not fatal: the document is fetched from a remote,
// independently maintained source that cannot be rejected wholesale
// for one bad line.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "settings parse error: " + e.Reason
}

// section is the parser state: outside any section, or inside one of
// the two recognized top-level sections.
type section int

const (
	sectionNone section = iota
	sectionNetworks
	sectionOrderbooks
)

const (
	networksLabel   = "networks:"
	orderbooksLabel = "orderbooks:"
)

// parser scans the document line by line, tracking the open section,
// the current entry, and whether an rpcs list is being collected.
type parser struct {
	doc *Document

	section     section
	entryIndent int
	current     string
	listMode    bool
	listIndent  int
}

// Parse converts a settings document into the two typed mappings.
// It fails only when the input is not valid text; any malformed entry
// is silently skipped, leaving the affected field absent.
func Parse(text string) (*Document, error) {
	if !utf8.ValidString(text) {
		return nil, &ParseError{Reason: "input is not valid UTF-8 text"}
	}

	p := &parser{
		doc: &Document{
			Networks:   make(map[string]Network),
			Orderbooks: make(map[string]Orderbook),
		},
		entryIndent: -1,
	}

	for _, line := range strings.Split(text, "\n") {
		p.scanLine(strings.TrimSuffix(line, "\r"))
	}

	return p.doc, nil
}

func (p *parser) scanLine(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}

	indent := leadingIndent(line)
	if indent == 0 {
		p.openOrCloseSection(trimmed)
		return
	}
	if p.section == sectionNone {
		return
	}

	// List items belong to the most recent rpcs: key and must sit
	// deeper than it.
	if p.listMode && indent > p.listIndent && strings.HasPrefix(trimmed, "-") {
		p.appendRPC(strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
		return
	}
	p.listMode = false

	if isEntryLine(trimmed) && (p.entryIndent < 0 || indent == p.entryIndent) {
		p.openEntry(indent, strings.TrimSuffix(trimmed, ":"))
		return
	}

	if p.current == "" || indent <= p.entryIndent {
		// A shallower line inside a section closes the current entry.
		if indent < p.entryIndent {
			p.current = ""
		}
		return
	}

	key, value, ok := strings.Cut(trimmed, ":")
	if !ok {
		return
	}
	p.setField(indent, strings.TrimSpace(key), strings.TrimSpace(value))
}

// openOrCloseSection handles zero-indent lines: a recognized section
// label opens that section; any other line closes whatever was open.
func (p *parser) openOrCloseSection(trimmed string) {
	switch trimmed {
	case networksLabel:
		p.section = sectionNetworks
	case orderbooksLabel:
		p.section = sectionOrderbooks
	default:
		p.section = sectionNone
	}
	p.entryIndent = -1
	p.current = ""
	p.listMode = false
}

func (p *parser) openEntry(indent int, name string) {
	p.entryIndent = indent
	p.current = name
	p.listMode = false

	switch p.section {
	case sectionNetworks:
		p.doc.Networks[name] = Network{Name: name}
	case sectionOrderbooks:
		p.doc.Orderbooks[name] = Orderbook{Name: name}
	}
}

func (p *parser) setField(indent int, key, value string) {
	switch p.section {
	case sectionNetworks:
		entry := p.doc.Networks[p.current]
		switch key {
		case "rpcs":
			if value == "" {
				p.listMode = true
				p.listIndent = indent
			}
		case "chain-id":
			// Non-numeric values leave the field absent, not zero.
			if parsed, err := strconv.ParseUint(value, 10, 64); err == nil {
				entry.ChainID = &parsed
			}
		}
		p.doc.Networks[p.current] = entry

	case sectionOrderbooks:
		entry := p.doc.Orderbooks[p.current]
		switch key {
		case "address":
			entry.Address = value
		case "deployment-block":
			if parsed, err := strconv.ParseUint(value, 10, 64); err == nil {
				entry.DeploymentBlock = &parsed
			}
		}
		p.doc.Orderbooks[p.current] = entry
	}
}

func (p *parser) appendRPC(value string) {
	if p.section != sectionNetworks || p.current == "" {
		return
	}
	entry := p.doc.Networks[p.current]
	entry.RPCs = append(entry.RPCs, value)
	p.doc.Networks[p.current] = entry
}

// isEntryLine reports whether a trimmed line opens a named entry:
// it ends in a colon and contains no other colon (a "key: value"
// line has content after the first colon).
func isEntryLine(trimmed string) bool {
	return strings.HasSuffix(trimmed, ":") &&
		strings.Count(trimmed, ":") == 1 &&
		len(trimmed) > 1
}

func leadingIndent(line string) int {
	count := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		count++
	}
	return count
}
