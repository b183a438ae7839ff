package cachette

import (
	"bytes"
	"reflect"

	"github.com/evergreen-ci/utility"
)

// ValueKind indicates which variant a Value holds.
type ValueKind string

const (
	// ValueKindString is a plain UTF-8 text value.
	ValueKindString ValueKind = "string"
	// ValueKindDocument is a structured key-value document.
	ValueKindDocument ValueKind = "document"
	// ValueKindBinary is a raw byte payload.
	ValueKindBinary ValueKind = "binary"
)

// Value is a decoded secret value. Exactly one of String, Document, or
// Binary is populated, determined by what the SecretSource returned for the
// fetch that produced it.
type Value struct {
	// String is the value of a plain text secret.
	String *string
	// Document is the value of a secret that holds a structured key-value
	// document.
	Document map[string]interface{}
	// Binary is the value of a secret that holds raw bytes.
	Binary []byte
}

// NewStringValue returns a Value holding the given text.
func NewStringValue(s string) Value {
	return Value{String: utility.ToStringPtr(s)}
}

// NewDocumentValue returns a Value holding the given document.
func NewDocumentValue(doc map[string]interface{}) Value {
	return Value{Document: doc}
}

// NewBinaryValue returns a Value holding the given bytes.
func NewBinaryValue(b []byte) Value {
	return Value{Binary: b}
}

// Kind returns which variant the value holds.
func (v Value) Kind() ValueKind {
	switch {
	case v.Document != nil:
		return ValueKindDocument
	case v.Binary != nil:
		return ValueKindBinary
	default:
		return ValueKindString
	}
}

// IsZero returns whether the value holds no variant at all.
func (v Value) IsZero() bool {
	return v.String == nil && v.Document == nil && v.Binary == nil
}

// Equal returns whether two values are structurally equal. Values of
// different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}

	switch v.Kind() {
	case ValueKindDocument:
		return reflect.DeepEqual(v.Document, other.Document)
	case ValueKindBinary:
		return bytes.Equal(v.Binary, other.Binary)
	default:
		return utility.FromStringPtr(v.String) == utility.FromStringPtr(other.String) && (v.String == nil) == (other.String == nil)
	}
}

// AsString renders the value as text. Binary values are rendered as their
// raw bytes interpreted as UTF-8; document values return the empty string.
func (v Value) AsString() string {
	switch v.Kind() {
	case ValueKindBinary:
		return string(v.Binary)
	case ValueKindString:
		return utility.FromStringPtr(v.String)
	default:
		return ""
	}
}
