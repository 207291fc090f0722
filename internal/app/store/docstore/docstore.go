// Package docstore defines the document-collection contract the rest of the
// app persists through. Two backends satisfy it: MongoDB (primary) and a
// local JSON-file store (fallback) with the same query semantics, so every
// caller works unchanged whichever backend was selected at startup.
package docstore

import (
	"context"
	"errors"
)

// ErrNoDocuments is returned by FindOne when no document matches the filter.
// The mongo backend maps mongo.ErrNoDocuments onto it.
var ErrNoDocuments = errors.New("docstore: no documents in result")

// Op is a filter operator.
type Op uint8

const (
	OpEq Op = iota
	OpExists
	OpLt
	OpGt
)

// Cond is a single field predicate.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Filter is a conjunction of conditions. A nil or empty filter matches
// every document.
type Filter []Cond

// Eq matches documents whose field equals value.
func Eq(field string, value any) Cond { return Cond{Field: field, Op: OpEq, Value: value} }

// Exists matches documents where the field is present (or absent when
// present is false).
func Exists(field string, present bool) Cond {
	return Cond{Field: field, Op: OpExists, Value: present}
}

// Lt matches documents whose field orders strictly before value.
// Documents missing the field (or holding null) never match.
func Lt(field string, value any) Cond { return Cond{Field: field, Op: OpLt, Value: value} }

// Gt matches documents whose field orders strictly after value.
func Gt(field string, value any) Cond { return Cond{Field: field, Op: OpGt, Value: value} }

// Set holds the fields written by an update ($set semantics: listed fields
// are replaced, everything else is untouched). A nil value stores null.
type Set map[string]any

// Collection is a named set of documents.
//
// out parameters follow the driver convention: FindOne decodes the matched
// document into a struct pointer, Find into a pointer to a slice.
type Collection interface {
	FindOne(ctx context.Context, filter Filter, out any) error
	Find(ctx context.Context, filter Filter, out any) error
	InsertOne(ctx context.Context, doc any) error

	// UpdateOne applies set to the first matching document and reports how
	// many documents matched (0 or 1). With upsert, a missing document is
	// created from the filter's equality conditions plus the set fields.
	UpdateOne(ctx context.Context, filter Filter, set Set, upsert bool) (int64, error)

	// UpdateMany applies set to every matching document and reports the
	// modified count.
	UpdateMany(ctx context.Context, filter Filter, set Set) (int64, error)

	DeleteMany(ctx context.Context, filter Filter) (int64, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// DB hands out collections and manages backend lifetime. It is constructed
// once at startup and injected into everything that persists data.
type DB interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error

	// Kind reports the active backend, "mongo" or "jsonfile".
	Kind() string
}

// Collection names used across the app.
const (
	ColUsers        = "users"
	ColStudents     = "students"
	ColAttendance   = "attendance"
	ColScanSessions = "scan_sessions"
	ColShareLinks   = "share_links"
)
