// Package form holds the item submission form and its field validation.
// Validation is a pure recomputation over the current field values and dirty
// flags, so it is safe to run on every field change without accumulating
// state between calls.
package form

import (
	"strings"
	"unicode/utf8"

	"github.com/ricsouza/trecos/internal/model"
)

// MinFieldLength is the minimum length for the required text fields.
const MinFieldLength = 3

// ItemForm carries the values of a single item submission.
type ItemForm struct {
	Name        string
	Description string
	Location    string
	Image       string
	OwnerID     string
}

// New returns an empty form with the default image loaded.
func New() ItemForm {
	return ItemForm{Image: model.DefaultImage}
}

// Dirty tracks which text fields have been touched by the caller. Pristine
// fields never show an error message.
type Dirty struct {
	Name        bool
	Description bool
	Location    bool
}

// AllDirty marks every field as touched, used when a submission forces a
// full validation pass.
var AllDirty = Dirty{Name: true, Description: true, Location: true}

// Errors holds the current error message for each text field. An empty
// message means the field is pristine or valid.
type Errors struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// OK reports whether no field carries an error message.
func (e Errors) OK() bool {
	return e == Errors{}
}

// Validation messages, keyed by field and failing rule.
const (
	msgNameRequired        = "Name is required."
	msgNameTooShort        = "Name is too short."
	msgDescriptionRequired = "Description is required."
	msgDescriptionTooShort = "Description is too short."
	msgLocationRequired    = "Location is required."
	msgLocationTooShort    = "Location is too short."
)

// ComputeErrors derives the error messages for the form's text fields. Each
// call is a full recompute: a pristine or valid field maps to an empty
// message, an invalid touched field maps to the messages of its failing
// rules, space-joined in rule order (required before minimum length).
func ComputeErrors(f ItemForm, d Dirty) Errors {
	return Errors{
		Name:        fieldError(f.Name, d.Name, msgNameRequired, msgNameTooShort),
		Description: fieldError(f.Description, d.Description, msgDescriptionRequired, msgDescriptionTooShort),
		Location:    fieldError(f.Location, d.Location, msgLocationRequired, msgLocationTooShort),
	}
}

// Valid reports whether every required field passes its rules, regardless of
// dirty flags.
func (f ItemForm) Valid() bool {
	return ComputeErrors(f, AllDirty).OK()
}

func fieldError(value string, dirty bool, requiredMsg, tooShortMsg string) string {
	if !dirty {
		return ""
	}
	var failing []string
	if value == "" {
		failing = append(failing, requiredMsg)
	} else if utf8.RuneCountInString(value) < MinFieldLength {
		failing = append(failing, tooShortMsg)
	}
	return strings.Join(failing, " ")
}
