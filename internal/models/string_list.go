package models

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList ensures image fields can be decoded whether stored as a single
// string or an array of strings.
type StringList []string

// UnmarshalBSONValue accepts both string and array BSON types, allowing legacy
// documents with a single "image" value to be decoded without failing the request.
func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*s = nil
		return nil
	case bsontype.Array:
		var values []string
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return err
		}
		*s = compactStrings(values)
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*s = compactStrings([]string{value})
		return nil
	default:
		return fmt.Errorf("cannot decode %s into StringList", t)
	}
}

// MarshalBSONValue always stores the list as an array.
func (s StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue([]string(s))
}

// UnmarshalJSON mirrors UnmarshalBSONValue for the JSON bins and request bodies.
func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*s = nil
		return nil
	case strings.HasPrefix(trimmed, "\""):
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*s = compactStrings([]string{value})
		return nil
	default:
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("cannot decode %s into StringList: %w", trimmed, err)
		}
		*s = compactStrings(values)
		return nil
	}
}

// First returns the first entry or "" for an empty list.
func (s StringList) First() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Compact drops blank entries and trims the rest.
func (s StringList) Compact() StringList {
	return compactStrings(s)
}
