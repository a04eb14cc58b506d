package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList decodes image URL lists whether they were stored as an array, a
// JSON-encoded array string or a single plain URL.
type StringList []string

// UnmarshalBSONValue accepts array and string BSON types, allowing legacy
// documents to be decoded without failing the entire request.
func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*s = nil
		return nil
	case bsontype.Array:
		var values []string
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return err
		}
		*s = values
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		return s.fromString(value)
	default:
		return fmt.Errorf("cannot decode %s into StringList", t)
	}
}

// MarshalBSONValue always stores the list as an array, keeping new writes
// consistent even when legacy documents used a string value.
func (s StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s == nil {
		return bson.MarshalValue([]string{})
	}
	return bson.MarshalValue([]string(s))
}

// UnmarshalJSON accepts an array or the stringified array the admin panel
// sends in multipart forms.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err == nil {
		*s = values
		return nil
	}
	var value *string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("imageUrls: %w", err)
	}
	if value == nil {
		*s = nil
		return nil
	}
	return s.fromString(*value)
}

func (s *StringList) fromString(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		*s = []string{}
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var values []string
		if err := json.Unmarshal([]byte(trimmed), &values); err != nil {
			return fmt.Errorf("imageUrls: %w", err)
		}
		*s = values
		return nil
	}
	*s = []string{trimmed}
	return nil
}
