package nullable

import (
	"bytes"
	"encoding/json"
)

// String distinguishes an absent JSON key from an explicit null.
// Set is true whenever the key was present in the payload; Value is nil for null.
type String struct {
	Set   bool
	Value *string
}

func Of(v string) String {
	return String{Set: true, Value: &v}
}

func Null() String {
	return String{Set: true}
}

func (s *String) UnmarshalJSON(data []byte) error {
	s.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		s.Value = nil
		return nil
	}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.Value = &v
	return nil
}

// Normalized treats an empty string as null.
func (s String) Normalized() String {
	if s.Set && s.Value != nil && *s.Value == "" {
		return String{Set: true}
	}
	return s
}

// IsNull reports whether the key was present and carried no value.
func (s String) IsNull() bool {
	return s.Set && s.Value == nil
}
