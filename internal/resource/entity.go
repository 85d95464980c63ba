// Package resource holds the entity types of every collection, their JSON coercion
// rules and the descriptors the generic handlers are built from.
package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrValidation matches every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError is a client error in an entity body.
type ValidationError struct {
	Resource string
	Err      error
}

func (e *ValidationError) Error() string {
	return e.Resource + " validation failed: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidation as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Entity is one record of a resource collection. The set of entities is closed,
// every implementation lives in this package.
type Entity interface {
	meta() *Meta
}

// Meta holds the store assigned fields of every entity.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Meta) meta() *Meta {
	return m
}

// MetaOf returns the store assigned fields of e.
func MetaOf(e Entity) Meta {
	return *e.meta()
}

// Visibility is the status field gating public listing.
type Visibility struct {
	Status Text `json:"status"`
}

func (v *Visibility) status() string {
	return string(v.Status)
}

type withStatus interface {
	status() string
}

// StatusOf returns the status of e, or "" for entities without one.
func StatusOf(e Entity) string {
	if s, ok := e.(withStatus); ok {
		return s.status()
	}

	return ""
}

// keys a client can't set, "_id" and "__v" come from older exports
var metaKeys = []string{"id", "_id", "__v", "createdAt", "updatedAt"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

func stripMeta(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	for _, k := range metaKeys {
		delete(fields, k)
	}

	return fields, nil
}

// apply merges the JSON object body into e. Fields missing from body keep their
// value, unknown fields are dropped and the meta fields can't be changed.
func apply(name string, e Entity, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	fields, err := stripMeta(body)
	if err != nil {
		return &ValidationError{Resource: name, Err: errors.New("body must be a JSON object")}
	}

	if len(fields) == 0 {
		return nil
	}

	clean, err := json.Marshal(fields)
	if err != nil {
		return &ValidationError{Resource: name, Err: err}
	}

	if err = json.Unmarshal(clean, e); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &ValidationError{Resource: name, Err: fmt.Errorf("%s: cannot use %s", typeErr.Field, typeErr.Value)}
		}

		return &ValidationError{Resource: name, Err: err}
	}

	return nil
}

// check runs the struct tag validation of e.
func check(name string, e Entity) error {
	err := validate.Struct(e)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Resource: name, Err: err}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fmt.Sprintf("Path `%s` is required.", fe.Field()))
			continue
		}

		msgs = append(msgs, fmt.Sprintf("Path `%s` is invalid (%s).", fe.Field(), fe.Tag()))
	}

	return &ValidationError{Resource: name, Err: errors.New(strings.Join(msgs, " "))}
}

// encode returns the JSON payload of e without the meta fields.
func encode(e Entity) ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	fields, err := stripMeta(raw)
	if err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}
