// Package point parses the I/O point identifiers used to join rows across
// configuration tables.
//
// Three spellings are accepted for the same channel:
//
//	DI-01/03     type, dash, rack/slot, slash, channel
//	DI-01_03     type, dash, rack/slot, underscore, channel
//	DI01_CH03    type and rack/slot run together, CH channel marker
//
// All of them canonicalize to DI01_CH03.
package point

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed indicates an identifier that matches none of the accepted spellings.
var ErrMalformed = errors.New("malformed point identifier")

// ParseError describes why an identifier could not be parsed.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("point %q: %s", e.Raw, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformed
}

// Identifier is a decomposed point reference. When Parsed is false only Raw
// is meaningful.
type Identifier struct {
	// Raw is the text as it appeared in the sheet.
	Raw string
	// Type is the letter prefix, e.g. "DI" or "AI".
	Type string
	// Rack is a single digit, "0" when the sheet only carries a slot.
	Rack string
	// Slot is the two digit slot with any suffix letter.
	Slot string
	// RackSlot is the rack/slot part of the canonical form.
	RackSlot string
	// Channel is the zero padded channel number.
	Channel string
	// Parsed is true when Raw matched one of the accepted spellings.
	Parsed bool
}

// Parse decomposes raw into an Identifier. Malformed input is not fatal: the
// returned Identifier keeps Raw with Parsed set to false, and the error wraps
// ErrMalformed so callers can log it and carry on.
func Parse(raw string) (Identifier, error) {
	id := Identifier{Raw: raw}
	s := strings.ToUpper(strings.TrimSpace(raw))

	var (
		typ, rackSlot, channel string
		ok                     bool
	)

	switch {
	case strings.Contains(s, "/"):
		typ, rackSlot, channel, ok = splitDelimited(s, "/")
	case strings.Contains(s, "-"):
		typ, rackSlot, channel, ok = splitDelimited(s, "_")
	case strings.Contains(s, "_"):
		typ, rackSlot, channel, ok = splitCompact(s)
	default:
		return id, &ParseError{Raw: raw, Reason: "no '/', '-' or '_' delimiter"}
	}

	if !ok {
		return id, &ParseError{Raw: raw, Reason: "delimiters out of order"}
	}

	if !isLetters(typ) {
		return id, &ParseError{Raw: raw, Reason: fmt.Sprintf("type %q is not alphabetic", typ)}
	}

	rack, slot, err := splitRackSlot(rackSlot)
	if err != nil {
		return id, &ParseError{Raw: raw, Reason: err.Error()}
	}

	channel = strings.TrimPrefix(channel, "CH")
	if !isDigits(channel) {
		return id, &ParseError{Raw: raw, Reason: fmt.Sprintf("channel %q is not numeric", channel)}
	}
	if len(channel) == 1 {
		channel = "0" + channel
	}

	id.Type = typ
	id.Rack = rack
	id.Slot = slot
	id.RackSlot = slot
	if rack != "0" {
		id.RackSlot = rack + slot
	}
	id.Channel = channel
	id.Parsed = true

	return id, nil
}

// Canonical returns {Type}{RackSlot}_CH{Channel}, or "" when the identifier
// was not parsed so that it never joins against another row.
func (id Identifier) Canonical() string {
	if !id.Parsed {
		return ""
	}
	return id.Type + id.RackSlot + "_CH" + id.Channel
}

// String returns the canonical form, falling back to the raw text.
func (id Identifier) String() string {
	if id.Parsed {
		return id.Canonical()
	}
	return id.Raw
}

// IsBlank reports whether the identifier carries no text at all.
func (id Identifier) IsBlank() bool {
	return strings.TrimSpace(id.Raw) == ""
}

// Canonicalize parses raw and returns its canonical form, or "" if raw is malformed.
func Canonicalize(raw string) string {
	id, err := Parse(raw)
	if err != nil {
		return ""
	}
	return id.Canonical()
}

// splitDelimited handles TTT-RSS/CC and TTT-RSS_CC: the type ends at the first
// dash and the rack/slot ends at the first sep after it.
func splitDelimited(s, sep string) (typ, rackSlot, channel string, ok bool) {
	dash := strings.Index(s, "-")
	if dash < 0 {
		return "", "", "", false
	}

	rest := s[dash+1:]
	cut := strings.Index(rest, sep)
	if cut < 0 {
		return "", "", "", false
	}

	return s[:dash], rest[:cut], rest[cut+1:], true
}

// splitCompact handles TTTRSS[A]_CHCC using token classes on each side of
// the underscore.
func splitCompact(s string) (typ, rackSlot, channel string, ok bool) {
	segments := strings.Split(s, "_")
	if len(segments) != 2 {
		return "", "", "", false
	}

	left := Tokenize(segments[0])
	switch {
	case classes(left, Letter, Number):
		typ, rackSlot = left[0].Text, left[1].Text
	case classes(left, Letter, Number, Letter):
		typ, rackSlot = left[0].Text, left[1].Text+left[2].Text
	default:
		return "", "", "", false
	}

	right := Tokenize(segments[1])
	if !classes(right, Letter, Number) || right[0].Text != "CH" {
		return "", "", "", false
	}

	return typ, rackSlot, right[1].Text, true
}

// splitRackSlot splits the rack/slot field. Two digits are a slot in rack 0;
// three digits carry the rack in the first digit. A trailing suffix letter
// stays with the slot.
func splitRackSlot(field string) (rack, slot string, err error) {
	digits := strings.TrimRightFunc(field, func(r rune) bool {
		return r >= 'A' && r <= 'Z'
	})
	suffix := field[len(digits):]

	if len(suffix) > 1 || !isDigits(digits) {
		return "", "", fmt.Errorf("rack/slot %q is not numeric", field)
	}

	switch len(digits) {
	case 2:
		return "0", digits + suffix, nil
	case 3:
		return digits[:1], digits[1:] + suffix, nil
	default:
		return "", "", fmt.Errorf("rack/slot %q must have 2 or 3 digits", field)
	}
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, t := range Tokenize(s) {
		if t.Class != Letter {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
