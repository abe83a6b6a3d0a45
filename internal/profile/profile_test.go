package profile

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilePassword(t *testing.T) {
	p := New("nas", "nas.local:8080", "alice", "hunter2", false)

	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("hunter2")), p.Password)
	assert.Equal(t, "hunter2", p.PlainPassword())

	// a stored value that is not valid base64 reads back as-is
	p.Password = "not-base64!!"
	assert.Equal(t, "not-base64!!", p.PlainPassword())
}

func TestProfileDisplayURL(t *testing.T) {
	tests := []struct {
		name    string
		profile *Profile
		want    string
	}{
		{
			name:    "bare host gets scheme",
			profile: New("a", "nas.local:8080", "u", "p", false),
			want:    "http://nas.local:8080",
		},
		{
			name:    "tls profile prefers https",
			profile: New("b", "dav.example.com", "u", "p", true),
			want:    "https://dav.example.com",
		},
		{
			name:    "credentials in url are dropped",
			profile: New("c", "https://bob:pw@dav.example.com/remote", "u", "p", true),
			want:    "https://dav.example.com/remote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.DisplayURL())
		})
	}
}

func TestProfileSDKConfig(t *testing.T) {
	p := New("nas", "nas.local", "alice", "hunter2", true)
	cfg := p.SDKConfig(10*time.Second, true)

	assert.Equal(t, "nas.local", cfg.BaseURL)
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, "hunter2", cfg.Password, "sdk receives the decoded password")
	assert.True(t, cfg.UseTLS)
	assert.True(t, cfg.InsecureTLS)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profiles.json")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Add(New("nas", "nas.local", "alice", "hunter2", false)))
	require.NoError(t, s.Add(New("office", "dav.example.com", "bob", "pw", true)))
	require.NoError(t, s.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 2, reopened.Len())

	p, err := reopened.Get("nas")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", p.PlainPassword())

	// lookup by ID works too
	byID, err := reopened.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, byID.Name)
}

func TestStoreDuplicateAndRemove(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	require.NoError(t, s.Add(New("nas", "nas.local", "u", "p", false)))
	err = s.Add(New("NAS", "other.local", "u", "p", false))
	require.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, s.Remove("nas"))
	require.ErrorIs(t, s.Remove("nas"), ErrNotFound)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestStoreUpdate(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	p := New("nas", "nas.local", "u", "p", false)
	require.NoError(t, s.Add(p))

	changed := *p
	changed.ServerURL = "nas.example.com"
	require.NoError(t, s.Update(&changed))

	got, err := s.Get("nas")
	require.NoError(t, err)
	assert.Equal(t, "nas.example.com", got.ServerURL)

	unknown := New("other", "x.local", "u", "p", false)
	require.ErrorIs(t, s.Update(unknown), ErrNotFound)
}

func TestStoreListSorted(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	require.NoError(t, s.Add(New("zeta", "z.local", "u", "p", false)))
	require.NoError(t, s.Add(New("Alpha", "a.local", "u", "p", false)))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "zeta", list[1].Name)
}
