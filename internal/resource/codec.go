package resource

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/guit-county/guit-portal/internal/store"
)

// Decode returns the entity stored in doc.
func (d Descriptor) Decode(doc store.Document) (Entity, error) {
	e := d.New()

	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, e); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s %s", d.Name, doc.ID)
		}
	}

	*e.meta() = Meta{ID: doc.ID, CreatedAt: doc.CreatedAt.UTC(), UpdatedAt: doc.UpdatedAt.UTC()}

	return e, nil
}

// View decodes doc and removes secrets, the form every response uses.
func (d Descriptor) View(doc store.Document) (Entity, error) {
	e, err := d.Decode(doc)
	if err != nil {
		return nil, err
	}

	if d.Redact != nil {
		d.Redact(e)
	}

	return e, nil
}

// Views is View for a list of documents. The result is never nil.
func (d Descriptor) Views(docs []store.Document) ([]Entity, error) {
	out := make([]Entity, 0, len(docs))

	for _, doc := range docs {
		e, err := d.View(doc)
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, nil
}

// NewDocument builds a new document from a create body. Schema defaults fill the
// fields body doesn't set. Errors caused by body are ValidationErrors.
func (d Descriptor) NewDocument(body []byte) (store.Document, error) {
	e := d.New()

	if err := d.save(nil, e, body); err != nil {
		return store.Document{}, err
	}

	doc := store.Document{Collection: d.Name}
	if err := d.fill(&doc, e); err != nil {
		return store.Document{}, err
	}

	return doc, nil
}

// Merge applies the partial body to doc. It is meant to run as a store.Mutator.
func (d Descriptor) Merge(doc *store.Document, body []byte) error {
	prev, err := d.Decode(*doc)
	if err != nil {
		return err
	}

	next, err := d.Decode(*doc)
	if err != nil {
		return err
	}

	if err = d.save(prev, next, body); err != nil {
		return err
	}

	return d.fill(doc, next)
}

// Mutate decodes doc, runs fn on the entity and writes it back, for server side
// changes like the like counter.
func (d Descriptor) Mutate(doc *store.Document, fn func(e Entity) error) error {
	e, err := d.Decode(*doc)
	if err != nil {
		return err
	}

	if err = fn(e); err != nil {
		return err
	}

	return d.fill(doc, e)
}

func (d Descriptor) save(prev, next Entity, body []byte) error {
	if err := apply(d.Name, next, body); err != nil {
		return err
	}

	if err := check(d.Name, next); err != nil {
		return err
	}

	if d.BeforeSave != nil {
		return d.BeforeSave(prev, next)
	}

	return nil
}

// fill copies the payload and the indexed columns of e into doc.
func (d Descriptor) fill(doc *store.Document, e Entity) error {
	data, err := encode(e)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", d.Name)
	}

	doc.Data = data
	doc.Status = StatusOf(e)
	doc.SortKey = ""
	doc.Keys = nil

	if d.SortKey != nil {
		doc.SortKey = d.SortKey(e)
	}

	if d.Keys != nil {
		doc.Keys = d.Keys(e)
	}

	return nil
}
