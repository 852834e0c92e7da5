// Package publish orchestrates a single item submission: validate the form,
// upload the photograph when one was captured, then write the record. The
// pipeline is driven by one caller at a time; its busy flag is how that
// caller disables resubmission while a run is in flight.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ricsouza/trecos/internal/form"
	"github.com/ricsouza/trecos/internal/model"
)

// State is the pipeline's current phase.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateUploading  State = "uploading"
	StateWriting    State = "writing"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

var (
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("publish: submission already in flight")

	// ErrNeedsReset is returned when submitting after a finished run
	// without resetting first.
	ErrNeedsReset = errors.New("publish: pipeline finished, reset before resubmitting")

	// ErrInvalidForm is returned when required fields fail validation.
	// This is a local outcome, not a pipeline failure: the field errors
	// are surfaced and the pipeline returns to idle.
	ErrInvalidForm = errors.New("publish: form has invalid fields")

	// ErrNoIdentity is returned when nobody is signed in and anonymous
	// submissions are disabled.
	ErrNoIdentity = errors.New("publish: no authenticated identity")
)

// BlobGateway uploads an encoded photograph and resolves its durable URL.
type BlobGateway interface {
	Upload(ctx context.Context, encoded, subtype string) (string, error)
}

// RecordStore appends a new item and returns its assigned id.
type RecordStore interface {
	Create(ctx context.Context, item model.Item) (string, error)
}

// Options are the pipeline's policy knobs.
type Options struct {
	// AllowAnonymous permits submissions with no signed-in identity; the
	// record's owner is then left empty.
	AllowAnonymous bool
}

// Pipeline runs the two-phase publish sequence for one submission at a time.
// It is not safe for concurrent use; the caller owns it.
type Pipeline struct {
	blobs   BlobGateway
	records RecordStore
	opts    Options

	state       State
	form        form.ItemForm
	dirty       form.Dirty
	errs        form.Errors
	photoFormat string
	err         error
	createdID   string
	succeeded   bool
}

// New returns an idle pipeline with an empty form and the default image.
func New(blobs BlobGateway, records RecordStore, opts Options) *Pipeline {
	return &Pipeline{
		blobs:   blobs,
		records: records,
		opts:    opts,
		state:   StateIdle,
		form:    form.New(),
	}
}

// SetName updates the name field, marks it dirty and recomputes the error
// messages.
func (p *Pipeline) SetName(v string) {
	p.form.Name = v
	p.dirty.Name = true
	p.recompute()
}

// SetDescription updates the description field, marks it dirty and
// recomputes the error messages.
func (p *Pipeline) SetDescription(v string) {
	p.form.Description = v
	p.dirty.Description = true
	p.recompute()
}

// SetLocation updates the location field, marks it dirty and recomputes the
// error messages.
func (p *Pipeline) SetLocation(v string) {
	p.form.Location = v
	p.dirty.Location = true
	p.recompute()
}

// AttachPhoto stores a captured photograph: the base64 payload and its
// format tag. An empty payload means the capture was cancelled and the image
// field is left unchanged.
func (p *Pipeline) AttachPhoto(payload, format string) {
	if payload == "" {
		return
	}
	p.form.Image = payload
	p.photoFormat = format
}

func (p *Pipeline) recompute() {
	p.errs = form.ComputeErrors(p.form, p.dirty)
}

// Submit runs the publish sequence. ownerID is the currently authenticated
// identity, read at the moment of submission; empty means nobody is signed
// in. Validation failures and the anonymous-submission policy return the
// pipeline to idle; upload and write failures land it in the failed state.
func (p *Pipeline) Submit(ctx context.Context, ownerID string) error {
	if p.Busy() {
		return ErrBusy
	}
	if p.state != StateIdle {
		return ErrNeedsReset
	}

	p.state = StateValidating
	p.dirty = form.AllDirty
	p.recompute()
	if !p.errs.OK() {
		p.state = StateIdle
		return ErrInvalidForm
	}

	if ownerID != "" {
		p.form.OwnerID = ownerID
	} else if !p.opts.AllowAnonymous {
		p.state = StateIdle
		return ErrNoIdentity
	}

	if p.form.Image != model.DefaultImage {
		p.state = StateUploading
		url, err := p.blobs.Upload(ctx, p.form.Image, p.photoFormat)
		if err != nil {
			return p.fail(fmt.Errorf("uploading photo: %w", err))
		}
		// The durable URL replaces the raw payload before the write.
		p.form.Image = url
	}

	p.state = StateWriting
	id, err := p.records.Create(ctx, model.Item{
		Name:        p.form.Name,
		Description: p.form.Description,
		Location:    p.form.Location,
		Image:       p.form.Image,
		OwnerID:     p.form.OwnerID,
	})
	if err != nil {
		return p.fail(fmt.Errorf("writing record: %w", err))
	}

	p.createdID = id
	p.succeeded = true
	p.state = StateSucceeded
	slog.Info("item published", "id", id)
	return nil
}

func (p *Pipeline) fail(err error) error {
	p.err = err
	p.state = StateFailed
	return err
}

// Reset reinitializes the form (all fields cleared, image back to the
// default), clears the success flag and returns the pipeline to idle.
func (p *Pipeline) Reset() {
	p.state = StateIdle
	p.form = form.New()
	p.dirty = form.Dirty{}
	p.errs = form.Errors{}
	p.photoFormat = ""
	p.err = nil
	p.createdID = ""
	p.succeeded = false
}

// State returns the pipeline's current phase.
func (p *Pipeline) State() State { return p.state }

// Busy reports whether a submission is in flight; callers must disable the
// submit affordance while it is set.
func (p *Pipeline) Busy() bool {
	return p.state == StateValidating || p.state == StateUploading || p.state == StateWriting
}

// Succeeded reports whether the last run wrote a record.
func (p *Pipeline) Succeeded() bool { return p.succeeded }

// FieldErrors returns the current per-field error messages.
func (p *Pipeline) FieldErrors() form.Errors { return p.errs }

// Err returns the failure of the last run, if any.
func (p *Pipeline) Err() error { return p.err }

// CreatedID returns the identifier assigned by the record store on success.
func (p *Pipeline) CreatedID() string { return p.createdID }

// Form returns a snapshot of the current form values.
func (p *Pipeline) Form() form.ItemForm { return p.form }
