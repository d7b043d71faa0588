package model

import (
	"encoding/json"
)

// Missing explains why an optional field carries no value.
type Missing uint8

// Reasons a field may be missing. Present means the value is set.
const (
	Present  Missing = iota
	Null             // absent from the payload or JSON null
	Sentinel         // backend placeholder literal, see SentinelValue
	Blank            // empty or whitespace-only text
)

// SentinelValue is the literal the hiring backend writes into text columns
// it has no value for. It is resolved to Missing=Sentinel at ingestion.
const SentinelValue = "string"

func (m Missing) String() string {
	switch m {
	case Present:
		return "present"
	case Null:
		return "null"
	case Sentinel:
		return "sentinel"
	case Blank:
		return "blank"
	default:
		return "unknown"
	}
}

// Opt is an optional value that remembers why it is missing.
// The zero value is missing with reason Null.
type Opt[T any] struct {
	v   T
	set bool
	why Missing
}

// Some wraps a present value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{v: v, set: true}
}

// None returns a missing value with the given reason. Passing Present is
// treated as Null.
func None[T any](reason Missing) Opt[T] {
	if reason == Present {
		reason = Null
	}
	return Opt[T]{why: reason}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.v, o.set
}

// Valid reports whether a value is present.
func (o Opt[T]) Valid() bool { return o.set }

// Reason returns Present for set values, otherwise why it is missing.
func (o Opt[T]) Reason() Missing {
	if o.set {
		return Present
	}
	if o.why == Present {
		return Null
	}
	return o.why
}

// Or returns the value, or def when missing.
func (o Opt[T]) Or(def T) T {
	if o.set {
		return o.v
	}
	return def
}

// MarshalJSON writes the value, or null when missing.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

// UnmarshalJSON reads null as missing (Null) and anything else as present.
// Sentinel and blank resolution is done by the ingest package, not here.
func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = None[T](Null)
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
