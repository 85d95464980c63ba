package upload

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/web/handler"
)

// a 1x1 png
var png = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func setup(t *testing.T, maxSize int64) (*fiber.App, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "uploads")
	cfg := &config.Config{Upload: config.Upload{Dir: dir, MaxSize: maxSize}}

	app := fiber.New()
	s := &Service{}
	require.NoError(t, s.Init(app.Group(handler.APIPath), cfg, nil))

	return app, dir
}

func multipartBody(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)

	if contentType != "" {
		h.Set("Content-Type", contentType)
	}

	part, err := w.CreatePart(h)
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf, w.FormDataContentType()
}

func post(t *testing.T, app *fiber.App, body io.Reader, contentType string) (int, map[string]string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp.StatusCode, out
}

func files(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}

	return out
}

func TestInitCreatesDir(t *testing.T) {
	_, dir := setup(t, 1<<20)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestUpload(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		filename    string
		contentType string
		content     []byte
		wantCode    int
		wantError   string
	}{
		{
			name: "image", field: FormField, filename: "Photo.PNG", contentType: "image/png", content: png,
			wantCode: http.StatusOK,
		},
		{
			name: "sniffed image", field: FormField, filename: "photo.png", content: png,
			wantCode: http.StatusOK,
		},
		{
			name: "text", field: FormField, filename: "notes.txt", contentType: "text/plain", content: []byte("hello"),
			wantCode: http.StatusBadRequest, wantError: msgBadType,
		},
		{
			name: "sniffed text", field: FormField, filename: "notes.bin", contentType: fiber.MIMEOctetStream,
			content:  []byte("just some plain words"),
			wantCode: http.StatusBadRequest, wantError: msgBadType,
		},
		{
			name: "too large", field: FormField, filename: "big.mp4", contentType: "video/mp4",
			content:  bytes.Repeat([]byte{0}, 2<<20),
			wantCode: http.StatusBadRequest, wantError: "Upload error: File too large (max 1 MB)",
		},
		{
			name: "wrong field", field: "file", filename: "photo.png", contentType: "image/png", content: png,
			wantCode: http.StatusBadRequest, wantError: msgNoFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, dir := setup(t, 1<<20)

			body, ct := multipartBody(t, tt.field, tt.filename, tt.contentType, tt.content)
			code, out := post(t, app, body, ct)

			require.Equal(t, tt.wantCode, code, out)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, out["error"])
				assert.Empty(t, files(t, dir), "nothing is written")

				return
			}

			require.True(t, strings.HasPrefix(out["url"], URLPrefix+"/image-"), out["url"])
			assert.True(t, strings.HasSuffix(out["url"], ".png"), "extension is kept lower cased")

			stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(out["url"], URLPrefix+"/")))
			require.NoError(t, err)
			assert.Equal(t, png, stored)
		})
	}
}

func TestNoMultipart(t *testing.T) {
	app, _ := setup(t, 1<<20)

	code, out := post(t, app, strings.NewReader(`{}`), fiber.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, msgNoFile, out["error"])
}
