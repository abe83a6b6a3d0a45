package davsdk

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const videosMultiStatus = `<?xml version="1.0" encoding="utf-8"?>
<d:multistatus xmlns:d="DAV:">
  <d:response>
    <d:href>/videos/Movies/</d:href>
    <d:propstat><d:prop>
      <d:resourcetype><d:collection/></d:resourcetype>
      <d:displayname>Movies</d:displayname>
    </d:prop></d:propstat>
  </d:response>
  <d:response>
    <d:href>/videos/clip.mp4</d:href>
    <d:propstat><d:prop>
      <d:resourcetype/>
      <d:displayname>clip.mp4</d:displayname>
      <d:getcontentlength>104857600</d:getcontentlength>
    </d:prop></d:propstat>
  </d:response>
</d:multistatus>`

func newTestClient(t *testing.T, handler http.Handler, mutate ...func(*Config)) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &Config{
		BaseURL:  srv.URL,
		Username: "alice",
		Password: "s3cret",
	}
	for _, m := range mutate {
		m(cfg)
	}

	c, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, srv
}

func TestRequestConstruction(t *testing.T) {
	var got *http.Request
	var body []byte
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusMultiStatus)
		w.Write([]byte(videosMultiStatus))
	}))

	_, err := c.ListContents(context.Background(), "videos")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, MethodPropfind, got.Method)
	assert.Equal(t, "/videos", got.URL.Path, "path normalized to a leading slash")
	assert.Equal(t, "1", got.Header.Get(HeaderDepth))
	assert.Equal(t, "*/*", got.Header.Get(HeaderAccept))
	assert.Equal(t, "*/*", got.Header.Get(HeaderAcceptEncoding))
	assert.Contains(t, got.Header.Get(HeaderUserAgent), "DavBox/")
	assert.Contains(t, got.Header.Get("Content-Type"), "application/xml")

	// eager Basic auth, no 401 round-trip
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:s3cret"))
	assert.Equal(t, wantAuth, got.Header.Get("Authorization"))

	// Host derived from the resolved URL, including the ephemeral port
	assert.Equal(t, got.Host, c.base.Host)

	assert.Contains(t, string(body), "<d:resourcetype/>")
	assert.Contains(t, string(body), "<d:getcontentlength/>")
	assert.Contains(t, string(body), "<d:getlastmodified/>")
	assert.Contains(t, string(body), "<d:displayname/>")
}

func TestListContents_EndToEnd(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMultiStatus)
		w.Write([]byte(videosMultiStatus))
	}))

	entries, err := c.ListContents(context.Background(), "/videos")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Movies", entries[0].Name)
	assert.True(t, entries[0].IsDir())

	assert.Equal(t, "clip.mp4", entries[1].Name)
	assert.False(t, entries[1].IsDir())
	require.NotNil(t, entries[1].Size)
	assert.Equal(t, int64(104857600), *entries[1].Size)
}

func TestListContents_HTTPErrorSurfaced(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`<d:error xmlns:d="DAV:"><d:description>no access to /videos</d:description></d:error>`))
	}))

	_, err := c.ListContents(context.Background(), "/videos")
	var davErr *DAVError
	require.ErrorAs(t, err, &davErr)
	assert.Equal(t, CodeAuth, davErr.Code)
	assert.Equal(t, http.StatusForbidden, davErr.Status)
	assert.Contains(t, davErr.Message, "no access to /videos", "server description surfaced")
}

func TestListContents_MalformedBodyFails(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMultiStatus)
		w.Write([]byte(`<d:multistatus xmlns:d="DAV:"><d:response>`))
	}))

	_, err := c.ListContents(context.Background(), "/videos")
	var davErr *DAVError
	require.ErrorAs(t, err, &davErr)
	assert.Equal(t, CodeParse, davErr.Code)
}

func TestTestConnection(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "multistatus", status: http.StatusMultiStatus, want: true},
		{name: "ok", status: http.StatusOK, want: true},
		{name: "unauthorized is logical false", status: http.StatusUnauthorized, want: false},
		{name: "not found is logical false", status: http.StatusNotFound, want: false},
		{name: "server error", status: http.StatusInternalServerError, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotDepth string
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotDepth = r.Header.Get(HeaderDepth)
				w.WriteHeader(tt.status)
			}))

			ok, err := c.TestConnection(context.Background())
			require.NoError(t, err, "an HTTP answer is never a transport error")
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, "0", gotDepth)
		})
	}
}

func TestTestConnection_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listens anymore

	c, err := New(&Config{BaseURL: url, RetryCount: -1, Timeout: 2 * time.Second})
	require.NoError(t, err)

	ok, err := c.TestConnection(context.Background())
	assert.False(t, ok)
	var davErr *DAVError
	require.ErrorAs(t, err, &davErr)
	assert.Equal(t, CodeNetwork, davErr.Code)
}

func TestCreateDirectory_Idempotent(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, MethodMkcol, r.Method)
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusCreated)
		} else {
			w.WriteHeader(http.StatusMethodNotAllowed) // already exists
		}
	}))

	require.NoError(t, c.CreateDirectory(context.Background(), "/new-dir"))
	require.NoError(t, c.CreateDirectory(context.Background(), "/new-dir"), "second create succeeds too")
	assert.Equal(t, int32(2), calls.Load())
}

func TestCreateDirectory_OtherErrorsSurface(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	err := c.CreateDirectory(context.Background(), "/a/b/c")
	var davErr *DAVError
	require.ErrorAs(t, err, &davErr)
	assert.Equal(t, CodeProtocol, davErr.Code)
	assert.Equal(t, http.StatusConflict, davErr.Status)
}

func TestUploadDownloadDelete(t *testing.T) {
	store := map[string][]byte{}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			store[r.URL.Path] = body
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			if data, ok := store[r.URL.Path]; ok {
				w.Write(data)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case http.MethodDelete:
			delete(store, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	ctx := context.Background()
	payload := []byte("file contents")

	require.NoError(t, c.UploadFile(ctx, payload, "/docs/a.txt"))
	assert.Equal(t, payload, store["/docs/a.txt"])

	got, err := c.DownloadFile(ctx, "/docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, c.DeleteItem(ctx, "/docs/a.txt"))

	_, err = c.DownloadFile(ctx, "/docs/a.txt")
	var davErr *DAVError
	require.ErrorAs(t, err, &davErr)
	assert.Equal(t, http.StatusNotFound, davErr.Status)
}

func TestDownloadFile_EmptyBodyIsFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	_, err := c.DownloadFile(context.Background(), "/empty.bin")
	require.ErrorIs(t, err, ErrEmptyBody)
}

func TestRenameItem(t *testing.T) {
	var gotMethod, gotDest, gotOverwrite string
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotDest = r.Header.Get(HeaderDestination)
		gotOverwrite = r.Header.Get(HeaderOverwrite)
		w.WriteHeader(http.StatusCreated)
	}))

	require.NoError(t, c.RenameItem(context.Background(), "/docs/old.txt", "new.txt"))
	assert.Equal(t, MethodMove, gotMethod)
	assert.Equal(t, srv.URL+"/docs/new.txt", gotDest)
	assert.Equal(t, "F", gotOverwrite)

	err := c.RenameItem(context.Background(), "/docs/old.txt", "bad/name")
	assert.Error(t, err)
}

func TestDownloadAll(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data:" + r.URL.Path))
	}))

	dir := t.TempDir()
	results := c.DownloadAll(context.Background(), &DownloadOpts{
		TargetDir: dir,
		Workers:   2,
		Jobs: []*DownloadJob{
			{RemotePath: "/a.txt"},
			{RemotePath: "/b.txt"},
			{RemotePath: "/sub/c.txt", Name: "renamed.txt"},
		},
	})

	done := 0
	for res := range results {
		require.NoError(t, res.Error)
		data, err := os.ReadFile(res.LocalPath)
		require.NoError(t, err)
		assert.Equal(t, "data:"+res.RemotePath, string(data))
		done++
	}
	assert.Equal(t, 3, done)

	assert.FileExists(t, filepath.Join(dir, "a.txt"))
	assert.FileExists(t, filepath.Join(dir, "renamed.txt"))
}

func TestDownloadAll_HostileNamesStayInTargetDir(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))

	parent := t.TempDir()
	dir := filepath.Join(parent, "downloads")

	// names as a malicious listing could deliver them via displayname
	results := c.DownloadAll(context.Background(), &DownloadOpts{
		TargetDir: dir,
		Jobs: []*DownloadJob{
			{RemotePath: "/a.txt", Name: "../escaped.txt"},
			{RemotePath: "/b.txt", Name: "sub/dir.txt"},
			{RemotePath: "/c.txt", Name: ".."},
		},
	})

	var failed int
	for res := range results {
		if res.Error != nil {
			failed++
			var davErr *DAVError
			require.ErrorAs(t, res.Error, &davErr)
			assert.Equal(t, CodeData, davErr.Code)
			continue
		}
		rel, err := filepath.Rel(dir, res.LocalPath)
		require.NoError(t, err)
		assert.False(t, strings.HasPrefix(rel, ".."), "result %q escapes the target dir", res.LocalPath)
	}
	assert.Equal(t, 1, failed, "only the bare .. name is unusable")

	assert.FileExists(t, filepath.Join(dir, "escaped.txt"))
	assert.FileExists(t, filepath.Join(dir, "dir.txt"))
	assert.NoFileExists(t, filepath.Join(parent, "escaped.txt"))
}

func TestGetProperties(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.Header.Get(HeaderDepth))
		w.WriteHeader(http.StatusMultiStatus)
		w.Write([]byte(`<d:multistatus xmlns:d="DAV:"><d:response><d:propstat><d:prop>
			<d:getcontentlength>77</d:getcontentlength>
			<d:getcontenttype>text/plain</d:getcontenttype>
		</d:prop></d:propstat></d:response></d:multistatus>`))
	}))

	props, err := c.GetProperties(context.Background(), "/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "77", props["getcontentlength"])
	assert.Equal(t, "text/plain", props["getcontenttype"])
}
