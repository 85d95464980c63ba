package resource

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guit-county/guit-portal/internal/store"
)

func fields(t *testing.T, data []byte) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	return m
}

func TestNewDocumentDefaults(t *testing.T) {
	doc, err := MustLookup(CollectionNews).NewDocument([]byte(`{"title":"Road Repairs","likes":"3","views":10}`))
	require.NoError(t, err)

	assert.Equal(t, CollectionNews, doc.Collection)
	assert.Equal(t, StatusPublished, doc.Status)
	assert.NotEmpty(t, doc.SortKey, "news are sorted by date")

	m := fields(t, doc.Data)
	assert.Equal(t, "Road Repairs", m["title"])
	assert.Equal(t, "image", m["mediaType"])
	assert.EqualValues(t, 3, m["likes"])
	assert.NotNil(t, m["date"])
	assert.NotContains(t, m, "views", "unknown fields are dropped")
	assert.NotContains(t, m, "id")
	assert.NotContains(t, m, "createdAt")
}

func TestNewDocumentIgnoresMeta(t *testing.T) {
	doc, err := MustLookup(CollectionServices).NewDocument(
		[]byte(`{"id":"x","_id":"y","createdAt":"garbage","updatedAt":1,"name":"Water"}`),
	)
	require.NoError(t, err)

	m := fields(t, doc.Data)
	assert.Equal(t, "Water", m["name"])
	assert.Equal(t, StatusActive, doc.Status)
	assert.Empty(t, doc.ID)
}

func TestNewDocumentValidation(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		body       string
	}{
		{"bad number", CollectionNews, `{"likes":"many"}`},
		{"bad bool", CollectionArtists, `{"featured":"perhaps"}`},
		{"bad date", CollectionStudents, `{"dob":"someday"}`},
		{"object for text", CollectionPayams, `{"name":{"en":"Torit"}}`},
		{"not an object", CollectionBomas, `[1,2]`},
		{"malformed", CollectionBomas, `{"name":`},
		{"missing email", CollectionNewsletter, `{}`},
		{"missing password", CollectionUsers, `{"email":"a@guit.gov"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MustLookup(tt.collection).NewDocument([]byte(tt.body))
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.collection+" validation failed")
		})
	}
}

func TestNewDocumentEmptyBody(t *testing.T) {
	doc, err := MustLookup(CollectionMessages).NewDocument(nil)
	require.NoError(t, err)
	assert.Equal(t, StatusNew, doc.Status)
}

func TestMerge(t *testing.T) {
	d := MustLookup(CollectionArtists)

	doc, err := d.NewDocument([]byte(`{"fullName":"Akol Deng","genre":"afrobeat"}`))
	require.NoError(t, err)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	doc.ID, doc.CreatedAt, doc.UpdatedAt = "a1", created, created

	require.NoError(t, d.Merge(&doc, []byte(`{"genre":"gospel","featured":"on","id":"other","createdAt":"2020-01-01"}`)))

	e, err := d.Decode(doc)
	require.NoError(t, err)

	a := e.(*Artist)
	assert.Equal(t, Text("Akol Deng"), a.FullName, "unspecified fields keep their value")
	assert.Equal(t, Text("gospel"), a.Genre)
	assert.True(t, bool(a.Featured))
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, created, a.CreatedAt)

	err = d.Merge(&doc, []byte(`{"featured":"perhaps"}`))
	require.ErrorIs(t, err, ErrValidation)
}

func TestSortKeys(t *testing.T) {
	slides := MustLookup(CollectionSlides)

	var keys []string
	for _, order := range []string{`-5`, `0`, `3`, `12`} {
		doc, err := slides.NewDocument([]byte(`{"order":` + order + `}`))
		require.NoError(t, err)
		keys = append(keys, doc.SortKey)
	}

	assert.IsIncreasing(t, keys, "slide sort keys follow the numeric order")

	news := MustLookup(CollectionNews)
	older, err := news.NewDocument([]byte(`{"date":"2023-12-31"}`))
	require.NoError(t, err)
	newer, err := news.NewDocument([]byte(`{"date":"2024-01-01"}`))
	require.NoError(t, err)
	assert.Less(t, older.SortKey, newer.SortKey)

	history, err := MustLookup(CollectionHistory).NewDocument([]byte(`{"year":2011}`))
	require.NoError(t, err)
	assert.Equal(t, "2011", history.SortKey)
	assert.Empty(t, history.Status, "history has no status")
}

func TestUsers(t *testing.T) {
	d := MustLookup(CollectionUsers)

	doc, err := d.NewDocument([]byte(`{"username":"akol","email":"akol@guit.gov","password":"secret"}`))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{store.Key("email", "akol@guit.gov"), store.Key("username", "akol")}, doc.Keys)
	assert.Equal(t, StatusActive, doc.Status)

	stored := fields(t, doc.Data)
	assert.True(t, IsPasswordHash(stored["password"].(string)), "password is stored hashed")
	assert.Equal(t, RoleAdmin, stored["role"])

	view, err := d.View(doc)
	require.NoError(t, err)

	out, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, fields(t, out), "password")

	// updating another field keeps the hash
	hash := stored["password"]
	require.NoError(t, d.Merge(&doc, []byte(`{"phone":"0912"}`)))
	assert.Equal(t, hash, fields(t, doc.Data)["password"])

	require.NoError(t, d.Merge(&doc, []byte(`{"password":"changed"}`)))
	e, err := d.Decode(doc)
	require.NoError(t, err)

	match, rehash, err := e.(*User).VerifyPassword("changed")
	require.NoError(t, err)
	assert.True(t, match)
	assert.False(t, rehash)

	noName, err := d.NewDocument([]byte(`{"email":"x@guit.gov","password":"p"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{store.Key("email", "x@guit.gov")}, noName.Keys, "username is only unique when set")
}

func TestVerifyLegacyPassword(t *testing.T) {
	u := &User{Password: "admin123"}

	match, rehash, err := u.VerifyPassword("admin123")
	require.NoError(t, err)
	assert.True(t, match)
	assert.True(t, rehash)

	match, rehash, err = u.VerifyPassword("wrong")
	require.NoError(t, err)
	assert.False(t, match)
	assert.False(t, rehash)

	match, _, err = (&User{}).VerifyPassword("")
	require.NoError(t, err)
	assert.False(t, match, "empty stored password never matches")
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name string
		e    Entity
		want string
	}{
		{"news", &News{Title: "Road Repairs"}, "Road Repairs"},
		{"artist stage name", &Artist{StageName: "DJ Torit"}, "DJ Torit"},
		{"artist full name", &Artist{FullName: "Akol Deng", StageName: "DJ Torit"}, "Akol Deng"},
		{"student names", &Student{FirstName: "Mary", LastName: "Ajak"}, "Mary Ajak"},
		{"user email", &User{Email: "a@guit.gov"}, "a@guit.gov"},
		{"message name", &Message{Name: "John"}, "John"},
		{"subscriber", &Subscriber{Email: "s@guit.gov"}, "s@guit.gov"},
		{"settings", &Settings{SiteTitle: "Guit County"}, "Guit County"},
		{"boma", &Boma{Name: "Kuach"}, "Kuach"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayTitle(tt.e))
		})
	}
}

func TestRegistry(t *testing.T) {
	all := All()
	require.Len(t, all, 19)

	for _, d := range all {
		got, ok := Lookup(d.Name)
		require.True(t, ok, d.Name)
		assert.Equal(t, d.Name, got.Name)
		assert.NotNil(t, d.New(), d.Name)
	}

	_, ok := Lookup("zones")
	assert.False(t, ok)
	assert.Panics(t, func() { MustLookup("zones") })
}
