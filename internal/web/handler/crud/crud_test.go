package crud

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/db"
	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/web/handler"
)

// setupApp mounts the crud routes of every resource on an in-memory SQLite store.
func setupApp(t *testing.T) (*fiber.App, store.Store) {
	t.Helper()

	gdb, err := db.Open(config.DB{GormEngine: config.GormEngineSQLite, Path: ":memory:"}, false)
	require.NoError(t, err, "failed to create test database")

	st := store.NewGorm(gdb)
	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	api := app.Group(handler.APIPath)

	for _, d := range resource.All() {
		require.NoError(t, New(d).Init(api, &config.Config{}, st))
	}

	return app, st
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, out
}

func object(t *testing.T, data []byte) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m), string(data))

	return m
}

func TestInitNil(t *testing.T) {
	require.ErrorIs(t, New(resource.MustLookup(resource.CollectionNews)).Init(nil, nil, nil), handler.ErrNil)
}

func TestLifecycle(t *testing.T) {
	app, _ := setupApp(t)

	code, body := do(t, app, http.MethodGet, "/api/services", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))

	code, body = do(t, app, http.MethodPost, "/api/services",
		`{"name":"Water Supply","category":"utilities","id":"mine","createdAt":"1999-01-01","__v":3}`)
	require.Equal(t, http.StatusCreated, code, string(body))

	created := object(t, body)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.NotEqual(t, "mine", id)
	assert.Equal(t, "active", created["status"])
	assert.NotContains(t, created, "_id")
	assert.NotContains(t, created, "__v")
	assert.NotEqual(t, "1999-01-01T00:00:00Z", created["createdAt"])

	code, body = do(t, app, http.MethodGet, "/api/services/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Water Supply", object(t, body)["name"])

	time.Sleep(2 * time.Millisecond)

	code, body = do(t, app, http.MethodPut, "/api/services/"+id, `{"status":"inactive","id":"other"}`)
	require.Equal(t, http.StatusOK, code, string(body))

	updated := object(t, body)
	assert.Equal(t, id, updated["id"])
	assert.Equal(t, "Water Supply", updated["name"], "unspecified fields keep their value")
	assert.Equal(t, "inactive", updated["status"])
	assert.Equal(t, created["createdAt"], updated["createdAt"])
	assert.NotEqual(t, created["updatedAt"], updated["updatedAt"])

	code, body = do(t, app, http.MethodDelete, "/api/services/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"message":"Deleted successfully"}`, string(body))

	code, body = do(t, app, http.MethodDelete, "/api/services/"+id, "")
	require.Equal(t, http.StatusOK, code, "delete is idempotent")
	assert.JSONEq(t, `{"message":"Deleted successfully"}`, string(body))

	code, body = do(t, app, http.MethodGet, "/api/services/"+id, "")
	require.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"message":"Not Found"}`, string(body))
}

func TestListOrder(t *testing.T) {
	app, _ := setupApp(t)

	var ids []string

	for _, name := range []string{"Torit", "Kapoeta", "Magwi"} {
		code, body := do(t, app, http.MethodPost, "/api/payams", `{"name":"`+name+`"}`)
		require.Equal(t, http.StatusCreated, code)
		ids = append(ids, object(t, body)["id"].(string))

		time.Sleep(2 * time.Millisecond)
	}

	// touching the first one moves it to the front
	code, _ := do(t, app, http.MethodPut, "/api/payams/"+ids[0], `{"chief":"Lokuli"}`)
	require.Equal(t, http.StatusOK, code)

	code, body := do(t, app, http.MethodGet, "/api/payams", "")
	require.Equal(t, http.StatusOK, code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 3)
	assert.Equal(t, ids[0], list[0]["id"])
	assert.Equal(t, ids[2], list[1]["id"])
	assert.Equal(t, ids[1], list[2]["id"])
}

func TestClientErrors(t *testing.T) {
	app, _ := setupApp(t)

	code, body := do(t, app, http.MethodPost, "/api/news", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, object(t, body), "error")

	code, _ = do(t, app, http.MethodPost, "/api/news", `{"likes":"many"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPost, "/api/newsletter", `{}`)
	assert.Equal(t, http.StatusBadRequest, code, "email is required")

	code, _ = do(t, app, http.MethodPost, "/api/newsletter", `{"email":"a@guit.gov"}`)
	require.Equal(t, http.StatusCreated, code)

	code, body = do(t, app, http.MethodPost, "/api/newsletter", `{"email":"a@guit.gov"}`)
	assert.Equal(t, http.StatusBadRequest, code, "email is unique")
	assert.Contains(t, object(t, body)["error"], "duplicate")

	code, body = do(t, app, http.MethodPut, "/api/news/missing", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"message":"Not Found"}`, string(body))
}

func TestCoercion(t *testing.T) {
	app, _ := setupApp(t)

	code, body := do(t, app, http.MethodPost, "/api/students",
		`{"fullName":"Mary Ajak","enrollYear":"2019","scholarship":"on","dob":"2001-05-04","nickname":"M"}`)
	require.Equal(t, http.StatusCreated, code, string(body))

	m := object(t, body)
	assert.EqualValues(t, 2019, m["enrollYear"])
	assert.Equal(t, true, m["scholarship"])
	assert.Equal(t, "2001-05-04T00:00:00.000Z", m["dob"])
	assert.NotContains(t, m, "nickname", "unknown fields are dropped")
	assert.NotContains(t, m, "gradYear", "unset numbers are omitted")
}

func TestDateOutOfRange(t *testing.T) {
	app, st := setupApp(t)

	code, body := do(t, app, http.MethodPost, "/api/news", `{"title":"Bridge Opens","date":"2024-03-09"}`)
	require.Equal(t, http.StatusCreated, code, string(body))

	for _, in := range []string{`100000000000000000`, `"100000000000000000"`, `-100000000000000000`} {
		code, body = do(t, app, http.MethodPost, "/api/news", `{"title":"far","date":`+in+`}`)
		assert.Equal(t, http.StatusBadRequest, code, in)
		assert.Contains(t, object(t, body), "error")
	}

	n, err := st.Count(t.Context(), resource.CollectionNews, store.Query{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "rejected articles are not stored")

	code, body = do(t, app, http.MethodGet, "/api/news", "")
	require.Equal(t, http.StatusOK, code, string(body))

	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "2024-03-09T00:00:00.000Z", list[0]["date"])
}

func TestFormBody(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader("name=John&subject=Roads&message=Fix+them"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	m := object(t, out)
	assert.Equal(t, "Fix them", m["message"])
	assert.Equal(t, "new", m["status"])
}

func TestUsersHidePassword(t *testing.T) {
	app, st := setupApp(t)

	code, body := do(t, app, http.MethodPost, "/api/users", `{"username":"akol","email":"akol@guit.gov","password":"secret"}`)
	require.Equal(t, http.StatusCreated, code, string(body))

	m := object(t, body)
	assert.NotContains(t, m, "password")
	assert.Equal(t, "admin", m["role"])

	stored, err := st.Get(t.Context(), resource.CollectionUsers, m["id"].(string))
	require.NoError(t, err)
	assert.NotContains(t, string(stored.Data), "secret")

	code, body = do(t, app, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(body), "password")

	code, _ = do(t, app, http.MethodPost, "/api/users", `{"username":"other","email":"akol@guit.gov","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code, "duplicate email")

	code, _ = do(t, app, http.MethodPost, "/api/users", `{"username":"akol","email":"new@guit.gov","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code, "duplicate username")
}

func TestWithCreate(t *testing.T) {
	app := fiber.New()
	api := app.Group(handler.APIPath)

	gdb, err := db.Open(config.DB{GormEngine: config.GormEngineSQLite, Path: ":memory:"}, false)
	require.NoError(t, err)

	s := New(resource.MustLookup(resource.CollectionCommissioner), WithCreate(func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusTeapot)
	}))
	require.NoError(t, s.Init(api, &config.Config{}, store.NewGorm(gdb)))

	code, _ := do(t, app, http.MethodPost, "/api/commissioner", `{}`)
	assert.Equal(t, http.StatusTeapot, code)
}
