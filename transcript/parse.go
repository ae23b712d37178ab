package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kbukum/getscript/llm"
)

// ParseStatus tags the outcome of extracting segments from model output.
type ParseStatus int

const (
	// ParseOK means a non-empty JSON array was decoded.
	ParseOK ParseStatus = iota
	// ParseEmpty means the output was blank or decoded to an empty array.
	ParseEmpty
	// ParseMalformed means no decodable JSON array was found.
	ParseMalformed
)

func (s ParseStatus) String() string {
	switch s {
	case ParseOK:
		return "ok"
	case ParseEmpty:
		return "empty"
	case ParseMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("ParseStatus(%d)", int(s))
	}
}

// ParsedItem is one element of the model's array. Index is set only when
// the element carried one.
type ParsedItem struct {
	Index *int
	Text  string
}

// ParseOutcome is the result of ParseSegmentsJSON. Err explains a
// ParseMalformed status.
type ParseOutcome struct {
	Status ParseStatus
	Items  []ParsedItem
	Err    error
}

var errNoArray = errors.New("no JSON array in response")

// wireItem accepts both field names models tend to use for the rewrite.
type wireItem struct {
	Index       *int    `json:"index"`
	Text        *string `json:"text"`
	CleanedText *string `json:"cleanedText"`
}

// ParseSegmentsJSON extracts the cleaned segment array from model output.
// A strict decode of the fence-stripped text is tried first; failing that,
// the first balanced [...] span is decoded. Elements may be objects with a
// "cleanedText" or "text" field, or bare strings.
func ParseSegmentsJSON(text string) ParseOutcome {
	body := llm.StripCodeFence(text)
	if body == "" {
		return ParseOutcome{Status: ParseEmpty}
	}

	raw, err := decodeArray(body)
	if err != nil {
		span, ok := extractArray(body)
		if !ok {
			return ParseOutcome{Status: ParseMalformed, Err: errNoArray}
		}
		if raw, err = decodeArray(span); err != nil {
			return ParseOutcome{Status: ParseMalformed, Err: err}
		}
	}
	if len(raw) == 0 {
		return ParseOutcome{Status: ParseEmpty}
	}

	items := make([]ParsedItem, len(raw))
	for i, elem := range raw {
		item, err := decodeItem(elem)
		if err != nil {
			return ParseOutcome{Status: ParseMalformed, Err: fmt.Errorf("element %d: %w", i, err)}
		}
		items[i] = item
	}
	return ParseOutcome{Status: ParseOK, Items: items}
}

func decodeArray(s string) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func decodeItem(elem json.RawMessage) (ParsedItem, error) {
	var s string
	if err := json.Unmarshal(elem, &s); err == nil {
		return ParsedItem{Text: strings.TrimSpace(s)}, nil
	}
	var w wireItem
	if err := json.Unmarshal(elem, &w); err != nil {
		return ParsedItem{}, err
	}
	item := ParsedItem{Index: w.Index}
	switch {
	case w.CleanedText != nil:
		item.Text = strings.TrimSpace(*w.CleanedText)
	case w.Text != nil:
		item.Text = strings.TrimSpace(*w.Text)
	}
	return item, nil
}

// extractArray returns the span from the first '[' to its matching ']',
// skipping brackets inside string literals.
func extractArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// orderedTexts returns item texts in input order. When every item carries a
// distinct index in [0, n) the indices decide the order; otherwise the array
// order is used.
func orderedTexts(items []ParsedItem, n int) []string {
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Text
	}
	if len(items) != n {
		return texts
	}
	byIndex := make([]string, n)
	seen := make([]bool, n)
	for _, it := range items {
		if it.Index == nil || *it.Index < 0 || *it.Index >= n || seen[*it.Index] {
			return texts
		}
		seen[*it.Index] = true
		byIndex[*it.Index] = it.Text
	}
	return byIndex
}
