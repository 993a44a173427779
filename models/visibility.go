package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Visibility is the request-side form of a blog's visibility flag. It accepts
// a JSON boolean or the strings "public" / "private".
type Visibility bool

const (
	VisibilityPublic  Visibility = true
	VisibilityPrivate Visibility = false
)

func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public", "true":
		return VisibilityPublic, nil
	case "private", "false":
		return VisibilityPrivate, nil
	default:
		return false, fmt.Errorf("invalid visibility value %q, use 'public' or 'private'", s)
	}
}

func (v *Visibility) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseVisibility(s)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("invalid visibility value %s, use 'public' or 'private'", string(data))
	}
	*v = Visibility(b)
	return nil
}

func (v Visibility) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(v))
}
