package netx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	t.Run("success decodes response", func(t *testing.T) {
		var gotBody map[string]string
		var gotCT, gotMethod string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = w.Write([]byte(`{"translatedText":"hola"}`))
		}))
		defer ts.Close()

		var out struct {
			TranslatedText string `json:"translatedText"`
		}
		err := PostJSON(context.Background(), ts.Client(), ts.URL, map[string]string{"q": "hello"}, &out)
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotCT)
		assert.Equal(t, "hello", gotBody["q"])
		assert.Equal(t, "hola", out.TranslatedText)
	})

	t.Run("non-2xx -> StatusError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad language"}`))
		}))
		defer ts.Close()

		err := PostJSON(context.Background(), ts.Client(), ts.URL, map[string]string{}, nil)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusBadRequest, se.Code)
		assert.Contains(t, se.Error(), "bad language")
	})

	t.Run("invalid JSON -> ErrDecode", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer ts.Close()

		var out map[string]any
		err := PostJSON(context.Background(), ts.Client(), ts.URL, map[string]string{}, &out)
		require.ErrorIs(t, err, ErrDecode)
	})

	t.Run("bad url -> request error", func(t *testing.T) {
		err := PostJSON(context.Background(), nil, "://bad-url", map[string]string{}, nil)
		require.Error(t, err)
	})

	t.Run("context deadline", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer ts.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := PostJSON(ctx, ts.Client(), ts.URL, map[string]string{}, nil)
		require.Error(t, err)
	})
}

func TestPostMultipartFile(t *testing.T) {
	t.Run("uploads file under field", func(t *testing.T) {
		var gotName, gotContent string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f, hdr, err := r.FormFile("file")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer f.Close()
			b, _ := io.ReadAll(f)
			gotName = hdr.Filename
			gotContent = string(b)
			_, _ = w.Write([]byte(`{"transcript":"hello world"}`))
		}))
		defer ts.Close()

		var out struct {
			Transcript string `json:"transcript"`
		}
		err := PostMultipartFile(context.Background(), ts.Client(), ts.URL, "file", "audio.m4a", strings.NewReader("RIFF"), &out)
		require.NoError(t, err)

		assert.Equal(t, "audio.m4a", gotName)
		assert.Equal(t, "RIFF", gotContent)
		assert.Equal(t, "hello world", out.Transcript)
	})

	t.Run("server error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		err := PostMultipartFile(context.Background(), ts.Client(), ts.URL, "file", "a.m4a", strings.NewReader("x"), nil)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusInternalServerError, se.Code)
	})

	t.Run("reader error", func(t *testing.T) {
		err := PostMultipartFile(context.Background(), nil, "http://127.0.0.1:1", "file", "a.m4a", failingReader{}, nil)
		require.ErrorContains(t, err, "read upload")
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }
