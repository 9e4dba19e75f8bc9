// Package session keeps one signature record per browser session. Records
// expire after a TTL of inactivity and are never persisted beyond it.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-siggen/pkg/model"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session: not found")
	// ErrStaleRevision is returned when a field edit carries a revision at or
	// below the last one applied to that field.
	ErrStaleRevision = errors.New("session: stale revision")
)

// Record is what a session stores: the signature plus the last edit revision
// applied to each field.
type Record struct {
	Data      model.SignatureData     `json:"data"`
	Revisions map[model.Field]uint64 `json:"revisions,omitempty"`
}

// NewRecord wraps data with no revisions applied.
func NewRecord(data model.SignatureData) Record {
	return Record{Data: data}
}

// Revision returns the highest revision applied to any field.
func (r Record) Revision() uint64 {
	var latest uint64
	for _, rev := range r.Revisions {
		if rev > latest {
			latest = rev
		}
	}
	return latest
}

// ApplyField writes value to field through a model.Form. A zero revision is
// unordered and always applies. A non-zero revision must be greater than the
// last one applied to field, otherwise ErrStaleRevision is returned and
// nothing changes.
func (r *Record) ApplyField(field model.Field, value string, revision uint64) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownField, field)
	}
	if revision > 0 {
		if last := r.Revisions[field]; revision <= last {
			return fmt.Errorf("%w: %s revision %d, last applied %d", ErrStaleRevision, field, revision, last)
		}
	}

	form := model.NewFormFrom(r.Data)
	form.OnChange(func(_ model.Field, snapshot model.SignatureData) {
		r.Data = snapshot
	})
	if err := form.UpdateField(field, value); err != nil {
		return err
	}

	if revision > 0 {
		if r.Revisions == nil {
			r.Revisions = make(map[model.Field]uint64)
		}
		r.Revisions[field] = revision
	}
	return nil
}

// clone copies the revision map so callers never share it with the store.
func (r Record) clone() Record {
	if r.Revisions == nil {
		return r
	}
	revisions := make(map[model.Field]uint64, len(r.Revisions))
	for field, rev := range r.Revisions {
		revisions[field] = rev
	}
	r.Revisions = revisions
	return r
}

// UpdateFunc mutates a record in place. Returning an error aborts the update
// and leaves the stored record unchanged.
type UpdateFunc func(rec *Record) error

// Store persists records by session id. Update is atomic per session.
type Store interface {
	Load(ctx context.Context, id string) (Record, error)
	Save(ctx context.Context, id string, rec Record) error
	Update(ctx context.Context, id string, fn UpdateFunc) (Record, error)
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
