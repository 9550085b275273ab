package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// listTextKeys are the object fields accepted as the text of a list element,
// in priority order.
var listTextKeys = []string{"original", "name", "step", "text"}

// NormalizeList turns an ingredient or instruction payload into an ordered
// list of strings. The payload may be a JSON array or a JSON string holding an
// encoded array. Any other shape yields an empty list and an ErrDecode error;
// callers are expected to keep the empty list and log the error.
func NormalizeList(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []string{}, nil
	}

	switch trimmed[0] {
	case '[':
		return decodeArray(trimmed)
	case '"':
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return []string{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		inner := bytes.TrimSpace([]byte(encoded))
		if len(inner) == 0 {
			return []string{}, nil
		}
		if inner[0] != '[' {
			return []string{}, fmt.Errorf("%w: encoded text is not a list", ErrDecode)
		}
		return decodeArray(inner)
	default:
		return []string{}, fmt.Errorf("%w: unexpected %s payload", ErrDecode, describeJSON(trimmed))
	}
}

func decodeArray(data []byte) ([]string, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return []string{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	out := make([]string, 0, len(elems))
	for _, elem := range elems {
		if text, ok := elementText(elem); ok {
			out = append(out, text)
		}
	}
	return out, nil
}

func elementText(elem json.RawMessage) (string, bool) {
	elem = bytes.TrimSpace(elem)
	if len(elem) == 0 {
		return "", false
	}

	switch elem[0] {
	case '"':
		var s string
		if err := json.Unmarshal(elem, &s); err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(elem, &obj); err != nil {
			return "", false
		}
		for _, key := range listTextKeys {
			if v, ok := obj[key]; ok {
				if text, ok := elementText(v); ok {
					return text, true
				}
			}
		}
		return "", false
	default:
		var n json.Number
		if err := json.Unmarshal(elem, &n); err != nil {
			return "", false
		}
		if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
			return "", false
		}
		return n.String(), true
	}
}

func describeJSON(data []byte) string {
	switch data[0] {
	case '{':
		return "object"
	case 't', 'f':
		return "boolean"
	default:
		return "scalar"
	}
}
