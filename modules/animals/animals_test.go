package animals_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/modules/animals"
	"github.com/dmitrymomot/formkit/pkg/binder"
	"github.com/dmitrymomot/formkit/pkg/pixbuf"
	"github.com/dmitrymomot/formkit/pkg/ratelimiter"
	"github.com/dmitrymomot/formkit/pkg/storage"
)

type part struct {
	name        string
	filename    string
	contentType string
	body        []byte
}

func multipartRequest(t *testing.T, target string, parts ...part) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, p := range parts {
		h := textproto.MIMEHeader{}
		disposition := `form-data; name="` + p.name + `"`
		if p.filename != "" {
			disposition += `; filename="` + p.filename + `"`
		}
		h.Set("Content-Disposition", disposition)
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(p.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 100), B: 200, A: 0xff})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func desc(kind string) []byte {
	return []byte(`{"name":"Rex","kind":"` + kind + `"}`)
}

func newService(t *testing.T, opts ...animals.Option) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "/files/")
	require.NoError(t, err)
	return animals.Router(animals.NewService(store, opts...)), dir
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// failingStorage rejects every write.
type failingStorage struct{ err error }

func (f failingStorage) Save(context.Context, string, io.Reader, string) (*storage.Object, error) {
	return nil, f.err
}
func (f failingStorage) Delete(context.Context, string) error { return f.err }
func (f failingStorage) Exists(context.Context, string) bool  { return false }
func (f failingStorage) URL(string) string                    { return "" }

func TestAnimalDesc_IsAnimal(t *testing.T) {
	t.Parallel()
	for kind, want := range map[string]bool{
		"dog":  true,
		"cat":  true,
		"bird": false,
		"Dog":  false,
		"":     false,
	} {
		assert.Equal(t, want, animals.AnimalDesc{Kind: kind}.IsAnimal(), kind)
	}
}

func TestIsAnimal(t *testing.T) {
	t.Parallel()

	t.Run("dog is stored as png", func(t *testing.T) {
		t.Parallel()
		h, dir := newService(t)
		src := testImage()

		rec := serve(h, multipartRequest(t, "/is_animal",
			part{name: "img", filename: "rex.png", contentType: "image/png", body: pngBytes(t, src)},
			part{name: "animal_desc", contentType: "application/json", body: desc("dog")},
		))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"animal":true}`, rec.Body.String())

		f, err := os.Open(filepath.Join(dir, "animals", "rex.png"))
		require.NoError(t, err)
		defer f.Close()
		stored, err := png.Decode(f)
		require.NoError(t, err)
		require.Equal(t, src.Bounds(), stored.Bounds())
		for y := range 3 {
			for x := range 4 {
				assert.Equal(t, src.NRGBAAt(x, y), color.NRGBAModel.Convert(stored.At(x, y)), "pixel %d,%d", x, y)
			}
		}
	})

	t.Run("part order does not matter", func(t *testing.T) {
		t.Parallel()
		h, dir := newService(t)

		rec := serve(h, multipartRequest(t, "/is_animal",
			part{name: "animal_desc", body: desc("cat")},
			part{name: "img", filename: "../../tom.png", body: pngBytes(t, testImage())},
		))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"animal":true}`, rec.Body.String())
		assert.FileExists(t, filepath.Join(dir, "animals", "tom.png"), "filename is sanitized")
	})

	t.Run("other kinds are not stored", func(t *testing.T) {
		t.Parallel()
		h, dir := newService(t)

		rec := serve(h, multipartRequest(t, "/is_animal",
			part{name: "img", filename: "tweety.png", body: pngBytes(t, testImage())},
			part{name: "animal_desc", body: desc("bird")},
		))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"animal":false}`, rec.Body.String())
		assert.NoDirExists(t, filepath.Join(dir, "animals"))
	})

	tests := []struct {
		name       string
		parts      []part
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing image",
			parts:      []part{{name: "animal_desc", body: desc("dog")}},
			wantStatus: http.StatusBadRequest,
			wantBody:   `field "img"`,
		},
		{
			name: "image without filename",
			parts: []part{
				{name: "img", body: []byte("not read")},
				{name: "animal_desc", body: desc("dog")},
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "filename",
		},
		{
			name: "not an image",
			parts: []part{
				{name: "img", filename: "rex.png", contentType: "image/png", body: []byte("definitely not png")},
				{name: "animal_desc", body: desc("dog")},
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "failed to decode image",
		},
		{
			name: "broken description",
			parts: []part{
				{name: "img", filename: "rex.png", body: pngBytes(t, testImage())},
				{name: "animal_desc", body: []byte(`{"name":`)},
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `field "animal_desc"`,
		},
		{
			name: "unknown field",
			parts: []part{
				{name: "img", filename: "rex.png", body: pngBytes(t, testImage())},
				{name: "owner", body: []byte("bob")},
				{name: "animal_desc", body: desc("dog")},
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `field "owner"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, dir := newService(t)

			rec := serve(h, multipartRequest(t, "/is_animal", tt.parts...))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NoDirExists(t, filepath.Join(dir, "animals"))
		})
	}

	t.Run("not multipart", func(t *testing.T) {
		t.Parallel()
		h, _ := newService(t)
		req := httptest.NewRequest(http.MethodPost, "/is_animal", strings.NewReader(`{"kind":"dog"}`))
		req.Header.Set("Content-Type", "application/json")

		rec := serve(h, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("body limit", func(t *testing.T) {
		t.Parallel()
		h, _ := newService(t, animals.WithMaxBodySize(256))

		rec := serve(h, multipartRequest(t, "/is_animal",
			part{name: "img", filename: "rex.png", body: bytes.Repeat([]byte{0}, 4096)},
			part{name: "animal_desc", body: desc("dog")},
		))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("part limit", func(t *testing.T) {
		t.Parallel()
		limits := binder.DefaultConfig()
		limits.MaxPartSize = 16
		h, _ := newService(t, animals.WithLimits(limits))

		rec := serve(h, multipartRequest(t, "/is_animal",
			part{name: "img", filename: "rex.png", body: pngBytes(t, testImage())},
			part{name: "animal_desc", body: desc("dog")},
		))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Contains(t, rec.Body.String(), `field "img"`)
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()
		h := animals.Router(animals.NewService(failingStorage{err: storage.ErrAccessDenied}))

		rec := serve(h, multipartRequest(t, "/is_animal",
			part{name: "img", filename: "rex.png", body: pngBytes(t, testImage())},
			part{name: "animal_desc", body: desc("dog")},
		))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "access denied", "storage errors are not leaked")
	})
}

func TestIsAnimalForm(t *testing.T) {
	t.Parallel()

	urlencoded := func(values url.Values) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/is_animal/form", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
		return req
	}

	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantBody   string
	}{
		{
			name: "urlencoded dog",
			req: func(*testing.T) *http.Request {
				return urlencoded(url.Values{"animal_desc": {string(desc("dog"))}})
			},
			wantStatus: http.StatusOK,
			wantBody:   "out is true",
		},
		{
			name: "urlencoded bird",
			req: func(*testing.T) *http.Request {
				return urlencoded(url.Values{"animal_desc": {string(desc("bird"))}})
			},
			wantStatus: http.StatusOK,
			wantBody:   "out is false",
		},
		{
			name: "multipart cat",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/is_animal/form", part{name: "animal_desc", body: desc("cat")})
			},
			wantStatus: http.StatusOK,
			wantBody:   "out is true",
		},
		{
			name: "urlencoded missing field",
			req: func(*testing.T) *http.Request {
				return urlencoded(url.Values{})
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "animal_desc",
		},
		{
			name: "urlencoded unknown field",
			req: func(*testing.T) *http.Request {
				return urlencoded(url.Values{"animal_desc": {string(desc("dog"))}, "img": {"x"}})
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `field "img"`,
		},
		{
			name: "multipart broken json",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/is_animal/form", part{name: "animal_desc", body: []byte("{")})
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "animal_desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _ := newService(t)

			rec := serve(h, tt.req(t))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestService_Classify(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "/files/")
	require.NoError(t, err)
	svc := animals.NewService(store)

	img, err := binder.RGB().Decode(context.Background(), binder.NewPart(
		textproto.MIMEHeader{"Content-Type": {"image/png"}},
		bytes.NewReader(pngBytes(t, testImage())),
	))
	require.NoError(t, err)

	res, err := svc.Classify(context.Background(), animals.IsAnimalRequest{
		Img:        binder.File[*pixbuf.Buffer]{Name: "rex.png", Inner: img},
		AnimalDesc: animals.AnimalDesc{Name: "Rex", Kind: "dog"},
	})
	require.NoError(t, err)
	assert.True(t, res.Animal)
	require.NotNil(t, res.Stored)
	assert.Equal(t, "animals/rex.png", res.Stored.Path)
	assert.Equal(t, "image/png", res.Stored.MIMEType)
	assert.Len(t, res.Stored.SHA256, 64)
	assert.Equal(t, "/files/animals/rex.png", store.URL(res.Stored.Path))

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"animal":true}`, string(out))
}

func TestService_Ready(t *testing.T) {
	t.Parallel()
	store, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	assert.NoError(t, animals.NewService(store).Ready(context.Background()))

	err = animals.NewService(failingStorage{err: storage.ErrAccessDenied}).Ready(context.Background())
	assert.True(t, errors.Is(err, storage.ErrAccessDenied))
}

func TestNewStorage(t *testing.T) {
	t.Parallel()

	t.Run("local", func(t *testing.T) {
		t.Parallel()
		store, err := animals.NewStorage(context.Background(), animals.Config{
			StorageDriver: "LOCAL",
			LocalDir:      t.TempDir(),
			PublicURL:     "/files",
		})
		require.NoError(t, err)
		assert.IsType(t, &storage.LocalStorage{}, store)
		assert.Equal(t, "/files/a.png", store.URL("a.png"))
	})

	t.Run("s3 needs a bucket", func(t *testing.T) {
		t.Parallel()
		_, err := animals.NewStorage(context.Background(), animals.Config{
			StorageDriver: animals.DriverS3,
			S3:            animals.S3Config{Region: "us-east-1"},
		})
		require.ErrorIs(t, err, storage.ErrInvalidConfig)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Parallel()
		_, err := animals.NewStorage(context.Background(), animals.Config{StorageDriver: "ftp"})
		require.ErrorIs(t, err, storage.ErrInvalidConfig)
	})
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity: 1, RefillRate: 1, RefillInterval: time.Minute,
	})
	require.NoError(t, err)

	byClient := func(r *http.Request) string { return r.Header.Get("X-Client") }
	h, _ := newService(t, animals.WithRateLimit(bucket, byClient))

	request := func(client string) *httptest.ResponseRecorder {
		req := multipartRequest(t, "/is_animal",
			part{name: "img", filename: "b.png", contentType: "image/png", body: pngBytes(t, testImage())},
			part{name: "animal_desc", body: desc("bird")},
		)
		req.Header.Set("X-Client", client)
		return serve(h, req)
	}

	rec := request("10.0.0.1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = request("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, request("10.0.0.2").Code)

	// Keys are scoped to this module.
	res, err := bucket.Status(context.Background(), animals.Dir+":10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Remaining)
}
