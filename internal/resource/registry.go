package resource

import (
	"fmt"

	"github.com/guit-county/guit-portal/internal/store"
)

// Collection names.
const (
	CollectionNews         = "news"
	CollectionArtists      = "artists"
	CollectionStudents     = "students"
	CollectionLeaders      = "leaders"
	CollectionServices     = "services"
	CollectionEducation    = "education"
	CollectionHistory      = "history"
	CollectionHealthcare   = "healthcare"
	CollectionPoliticians  = "politicians"
	CollectionMilitary     = "military"
	CollectionPayams       = "payams"
	CollectionBomas        = "bomas"
	CollectionSports       = "sports"
	CollectionSlides       = "slides"
	CollectionMessages     = "messages"
	CollectionNewsletter   = "newsletter"
	CollectionSettings     = "settings"
	CollectionCommissioner = "commissioner"
	CollectionUsers        = "users"
)

// Status values.
const (
	StatusActive    = "active"
	StatusPublished = "published"
	StatusNew       = "new"
	StatusRead      = "read"
)

// Roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Descriptor describes a resource collection and how its entities are stored.
type Descriptor struct {
	// Name is the collection and the path segment below /api.
	Name string
	// New returns an entity with the schema defaults.
	New func() Entity
	// Keys returns the unique keys of e, nil for collections without unique fields.
	Keys func(e Entity) []string
	// SortKey returns the natural order of e, nil when the collection has none.
	SortKey func(e Entity) string
	// Public is the query of the public listing, nil when the collection isn't public.
	Public *store.Query
	// BeforeSave runs on create (prev is nil) and update after validation.
	BeforeSave func(prev, next Entity) error
	// Redact removes secrets before e leaves the server.
	Redact func(e Entity)
}

func keyEmail(email Text) string { return store.Key("email", string(email)) }

func keyUsername(username Text) string { return store.Key("username", string(username)) }

func activeOrdered(order store.Order) *store.Query {
	return &store.Query{Status: StatusActive, Order: order}
}

var (
	natural      = store.Order{Field: store.OrderCreated}
	newestFirst  = store.Order{Field: store.OrderCreated, Desc: true}
	sortKeyAsc   = store.Order{Field: store.OrderSortKey}
	sortKeyDesc  = store.Order{Field: store.OrderSortKey, Desc: true}
	sortKeyShift = uint64(1) << 63
)

var descriptors = []Descriptor{
	{
		Name: CollectionNews, New: newNews,
		SortKey: func(e Entity) string { return sortTime(e.(*News).Date) },
		Public:  &store.Query{Status: StatusPublished, Order: sortKeyDesc},
	},
	{Name: CollectionArtists, New: func() Entity { return &Artist{Visibility: active()} }, Public: activeOrdered(natural)},
	{Name: CollectionStudents, New: func() Entity { return &Student{Visibility: active()} }, Public: activeOrdered(natural)},
	{Name: CollectionLeaders, New: func() Entity { return &Leader{Visibility: active()} }, Public: activeOrdered(natural)},
	{Name: CollectionServices, New: func() Entity { return &Service{Visibility: active()} }, Public: activeOrdered(newestFirst)},
	{Name: CollectionEducation, New: func() Entity { return &Education{Visibility: active()} }, Public: activeOrdered(natural)},
	{
		Name: CollectionHistory, New: newHistory,
		SortKey: func(e Entity) string { return string(e.(*History).Year) },
		Public:  &store.Query{Order: sortKeyDesc},
	},
	{Name: CollectionHealthcare, New: func() Entity { return &Healthcare{Visibility: active()} }, Public: activeOrdered(natural)},
	{Name: CollectionPoliticians, New: func() Entity { return &Politician{Visibility: active()} }, Public: activeOrdered(natural)},
	{Name: CollectionMilitary, New: func() Entity { return &Military{Visibility: active()} }, Public: activeOrdered(natural)},
	{Name: CollectionPayams, New: func() Entity { return &Payam{Visibility: active()} }, Public: activeOrdered(natural)},
	{Name: CollectionBomas, New: func() Entity { return &Boma{Visibility: active()} }, Public: activeOrdered(natural)},
	{Name: CollectionSports, New: func() Entity { return &Sport{Visibility: active()} }, Public: activeOrdered(natural)},
	{
		Name: CollectionSlides, New: func() Entity { return &Slide{Visibility: active()} },
		SortKey: func(e Entity) string { return sortInt(e.(*Slide).Order) },
		Public:  activeOrdered(sortKeyAsc),
	},
	{Name: CollectionMessages, New: newMessage},
	{
		Name: CollectionNewsletter, New: newSubscriber,
		Keys: func(e Entity) []string { return []string{keyEmail(e.(*Subscriber).Email)} },
	},
	{Name: CollectionSettings, New: func() Entity { return &Settings{} }},
	{Name: CollectionCommissioner, New: func() Entity { return &Commissioner{} }},
	{
		Name: CollectionUsers, New: newUser,
		Keys:       userKeys,
		BeforeSave: hashUserPassword,
		Redact:     redactUser,
	},
}

var byName = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(descriptors))
	for _, d := range descriptors {
		m[d.Name] = d
	}

	return m
}()

// All returns the descriptors of every collection in registration order.
func All() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)

	return out
}

// Lookup returns the descriptor of the named collection.
func Lookup(name string) (Descriptor, bool) {
	d, ok := byName[name]
	return d, ok
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) Descriptor {
	d, ok := byName[name]
	if !ok {
		panic(fmt.Sprintf("resource: unknown collection %q", name))
	}

	return d
}

// sortTime orders dates as strings, unset dates first.
func sortTime(t FlexTime) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

// sortInt orders signed integers as strings.
func sortInt(n FlexInt) string {
	return fmt.Sprintf("%020d", uint64(n)+sortKeyShift) //nolint: gosec
}
