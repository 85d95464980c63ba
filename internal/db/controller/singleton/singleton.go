// Package singleton provides find-or-create access to collections holding a single
// live document, the site settings and the commissioner.
package singleton

import (
	"context"
	"errors"

	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
)

// ErrStoreNil is returned when the store is nil.
var ErrStoreNil = errors.New("store is nil")

// latest selects the live document when older exports left more than one.
var latest = store.Query{Order: store.Order{Field: store.OrderUpdated, Desc: true}}

// Get returns the live document of the collection or store.ErrNotFound.
func Get(ctx context.Context, s store.Store, d resource.Descriptor) (store.Document, error) {
	if s == nil {
		return store.Document{}, ErrStoreNil
	}

	return s.First(ctx, d.Name, latest)
}

// GetOrCreate returns the live document, creating an empty one if there is none.
func GetOrCreate(ctx context.Context, s store.Store, d resource.Descriptor) (store.Document, error) {
	doc, err := Get(ctx, s, d)
	if err == nil || !errors.Is(err, store.ErrNotFound) {
		return doc, err
	}

	doc, err = d.NewDocument(nil)
	if err != nil {
		return store.Document{}, err
	}

	if err = s.Create(ctx, &doc); err != nil {
		return store.Document{}, err
	}

	return doc, nil
}

// Save merges body into the live document, or creates it from body when there is
// none. created reports which one happened.
func Save(ctx context.Context, s store.Store, d resource.Descriptor, body []byte) (doc store.Document, created bool, err error) {
	existing, err := Get(ctx, s, d)

	switch {
	case err == nil:
		doc, err = s.Update(ctx, d.Name, existing.ID, func(doc *store.Document) error {
			return d.Merge(doc, body)
		})

		return doc, false, err
	case !errors.Is(err, store.ErrNotFound):
		return store.Document{}, false, err
	}

	doc, err = d.NewDocument(body)
	if err != nil {
		return store.Document{}, false, err
	}

	if err = s.Create(ctx, &doc); err != nil {
		return store.Document{}, false, err
	}

	return doc, true, nil
}
