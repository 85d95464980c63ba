package like

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/db"
	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/web/handler"
)

func setup(t *testing.T) (*fiber.App, store.Store, string) {
	t.Helper()

	gdb, err := db.Open(config.DB{GormEngine: config.GormEngineSQLite, Path: ":memory:"}, false)
	require.NoError(t, err, "failed to create test database")

	st := store.NewGorm(gdb)

	doc, err := resource.MustLookup(resource.CollectionNews).NewDocument([]byte(`{"title":"Road Repairs","likes":"4"}`))
	require.NoError(t, err)
	require.NoError(t, st.Create(context.Background(), &doc))

	app := fiber.New()
	s := &Service{}
	require.NoError(t, s.Init(app.Group(handler.APIPath), &config.Config{}, st))

	return app, st, doc.ID
}

func like(t *testing.T, app *fiber.App, id string) (int, string) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/news/"+id+"/like", nil), -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestLike(t *testing.T) {
	app, _, id := setup(t)

	code, body := like(t, app, id)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"success":true,"likes":5}`, body)

	code, body = like(t, app, id)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"success":true,"likes":6}`, body)

	code, body = like(t, app, "missing")
	require.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"message":"News not found"}`, body)
}

func TestConcurrentLikes(t *testing.T) {
	app, st, id := setup(t)

	const n = 8

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/news/"+id+"/like", nil), -1)
			if assert.NoError(t, err) {
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			}
		}()
	}

	wg.Wait()

	doc, err := st.Get(context.Background(), resource.CollectionNews, id)
	require.NoError(t, err)

	e, err := resource.MustLookup(resource.CollectionNews).Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, resource.FlexInt(4+n), e.(*resource.News).Likes, "no like is lost")
}
