package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MaxRecords is the most entries the API returns for one query.
const MaxRecords = 10000

// Well-known record fields used to derive artifacts.
const (
	FieldUsername       = "username"
	FieldPassword       = "password"
	FieldHashedPassword = "hashed_password"
	FieldEmail          = "email"
)

// Record is one breach entry returned by the API.
//
// All fields are optional and nullable. The field order of the API response
// is preserved so that tabular output follows it. Records are not modified
// after decoding.
type Record struct {
	keys   []string
	fields map[string]json.RawMessage
}

// NewRecord builds a Record from alternating key and string value pairs.
// It is mainly useful for constructing fixtures.
func NewRecord(pairs ...string) Record {
	r := Record{fields: make(map[string]json.RawMessage, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		if _, seen := r.fields[pairs[i]]; !seen {
			r.keys = append(r.keys, pairs[i])
		}
		r.fields[pairs[i]] = quote(pairs[i+1])
	}
	return r
}

// UnmarshalJSON decodes a record object keeping its key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	keys, fields, err := decodeOrderedObject(data)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	r.keys = keys
	r.fields = fields
	return nil
}

// MarshalJSON encodes the record with its original key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(quote(k))
		buf.WriteByte(':')
		raw := r.fields[k]
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Keys returns the field names in API order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Has reports whether the record carries the field, even if it is null.
func (r Record) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Field returns the text value of a field. Missing and null fields are empty.
func (r Record) Field(name string) string {
	return textValue(r.fields[name])
}

// Username returns the username field.
func (r Record) Username() string { return r.Field(FieldUsername) }

// Password returns the plaintext password field.
func (r Record) Password() string { return r.Field(FieldPassword) }

// HashedPassword returns the hashed password field.
func (r Record) HashedPassword() string { return r.Field(FieldHashedPassword) }

// Email returns the email field as sent by the API.
func (r Record) Email() string { return r.Field(FieldEmail) }

// Columns returns the union of record keys in first-seen order.
// The first record's keys come first, in its order; keys that only appear in
// later records follow in the order they are first met.
func Columns(records []Record) []string {
	seen := make(map[string]struct{})
	cols := make([]string, 0)
	for _, r := range records {
		for _, k := range r.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}
