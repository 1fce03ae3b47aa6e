package senate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MaxBodyLength is the longest bill text accepted, in characters.
	MaxBodyLength = 1800
	MinOptions    = 2
	MaxOptions    = 10

	authorLabel = "Bill by: "
)

// Envelope holds the fields embedded in a rendered bill.
type Envelope struct {
	Index      int
	Referenced int // amendments only
	Options    int // option bills only
	Author     string
	Body       string
}

// Kind derives the bill variant from the embedded metadata.
func (e Envelope) Kind() Kind {
	switch {
	case e.Referenced > 0 && e.Options > 0:
		return KindOptionAmendment
	case e.Referenced > 0:
		return KindAmendment
	case e.Options > 0:
		return KindOption
	default:
		return KindOrdinary
	}
}

// Wording is the rendered header and body without the author trailer. It is
// what gets archived and what the edit audit log records.
func (e Envelope) Wording() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bill %d", e.Index)
	if e.Options > 0 {
		fmt.Fprintf(&b, " (%d options)", e.Options)
	}
	b.WriteString(": ")
	if e.Referenced > 0 {
		fmt.Fprintf(&b, "Amendment to Bill %d ", e.Referenced)
	}
	b.WriteString(e.Body)
	return b.String()
}

// Formatter renders envelopes into message text. Role IDs are appended as
// mentions; the senator mention is what the locator keys on.
type Formatter struct {
	SenatorRoleID string
	TribuneRoleID string
}

// RoleMention formats a role ID as a Discord role mention.
func RoleMention(roleID string) string {
	return "<@&" + roleID + ">"
}

// FormatBill renders an ordinary bill.
func (f Formatter) FormatBill(body string, index int, author string) (string, error) {
	return f.Render(Envelope{Index: index, Author: author, Body: body})
}

// FormatAmendment renders an amendment to bill referenced.
func (f Formatter) FormatAmendment(body string, index, referenced int, author string) (string, error) {
	return f.Render(Envelope{Index: index, Referenced: referenced, Author: author, Body: body})
}

// FormatOptionBill renders a bill voted on with numbered options.
func (f Formatter) FormatOptionBill(body string, index, options int, author string) (string, error) {
	return f.Render(Envelope{Index: index, Options: options, Author: author, Body: body})
}

// FormatOptionAmendment renders an option amendment to bill referenced.
func (f Formatter) FormatOptionAmendment(body string, index, referenced, options int, author string) (string, error) {
	return f.Render(Envelope{Index: index, Referenced: referenced, Options: options, Author: author, Body: body})
}

// Render validates e and returns the message text.
func (f Formatter) Render(e Envelope) (string, error) {
	if err := validateEnvelope(e); err != nil {
		return "", err
	}
	return e.Wording() + " " + authorLabel + e.Author + " " +
		RoleMention(f.SenatorRoleID) + " " + RoleMention(f.TribuneRoleID), nil
}

func validateEnvelope(e Envelope) error {
	if err := validateBody(e.Body); err != nil {
		return err
	}
	if e.Options != 0 {
		if err := validateOptions(e.Options); err != nil {
			return err
		}
	}
	if e.Author == "" || strings.ContainsAny(e.Author, " \t\r\n") {
		return invalid("Bill author %q is not a mention.", e.Author)
	}
	return nil
}

func validateBody(body string) error {
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return invalid("Bill is too long. Max length is %d characters.", MaxBodyLength)
	}
	return nil
}

func validateOptions(n int) error {
	if n < MinOptions {
		return invalid("Too few options given.")
	}
	if n > MaxOptions {
		return invalid("Too many options given.")
	}
	return nil
}

// envelopePattern accepts the current single-line layout as well as the
// older bold, multi-line one ("**Bill 4:** \r\n... \r\nBill by: ...").
var envelopePattern = regexp.MustCompile(`(?s)^(?:\*\*)?Bill (\d+)(?: \((\d+) options\))?:(?:\*\*)? (?:\r?\n)?` +
	`(?:Amendment to (?:\*\*)?Bill (\d+)(?:\*\*)? (?:\r?\n)?)?` +
	`(.*) (?:\r?\n)?Bill by: (\S+) (?:\r?\n)?(\S+) (\S+)\s*$`)

// DecodeEnvelope parses message text produced by Render.
func DecodeEnvelope(content string) (Envelope, error) {
	m := envelopePattern.FindStringSubmatch(content)
	if m == nil {
		return Envelope{}, &MalformedBillError{Reason: "no bill envelope found"}
	}

	var e Envelope
	var err error
	if e.Index, err = strconv.Atoi(m[1]); err != nil {
		return Envelope{}, &MalformedBillError{Reason: "bad bill number " + m[1]}
	}
	if m[2] != "" {
		if e.Options, err = strconv.Atoi(m[2]); err != nil {
			return Envelope{}, &MalformedBillError{Reason: "bad option count " + m[2]}
		}
	}
	if m[3] != "" {
		if e.Referenced, err = strconv.Atoi(m[3]); err != nil {
			return Envelope{}, &MalformedBillError{Reason: "bad referenced bill " + m[3]}
		}
	}
	e.Body = m[4]
	e.Author = m[5]
	return e, nil
}

// decodeMessage is DecodeEnvelope with the message ID filled into errors.
func decodeMessage(msg *Message) (Envelope, error) {
	e, err := DecodeEnvelope(msg.Content)
	if err != nil {
		if mb, ok := err.(*MalformedBillError); ok {
			mb.MessageID = msg.ID
		}
		return Envelope{}, err
	}
	return e, nil
}

// leadingNumber extracts the bill number the way the locator does: the
// second whitespace-separated token with every non-digit removed.
func leadingNumber(content string) (int, bool) {
	fields := strings.Fields(content)
	if len(fields) < 2 {
		return 0, false
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, fields[1])
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
