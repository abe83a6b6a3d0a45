package profile

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/davbox/davbox/internal/davsdk"
	"github.com/google/uuid"
)

// Profile holds the saved connection settings for one WebDAV server.
// The password is kept base64-encoded so profile files are not
// immediately readable over someone's shoulder. This is obfuscation,
// not protection.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ServerURL string `json:"serverUrl"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	UseTLS    bool   `json:"useTls"`

	Connected bool `json:"-"`
}

func New(name, serverURL, username, password string, useTLS bool) *Profile {
	p := &Profile{
		ID:        uuid.NewString(),
		Name:      name,
		ServerURL: serverURL,
		Username:  username,
		UseTLS:    useTLS,
	}
	p.SetPassword(password)
	return p
}

// SetPassword stores the plain password in its encoded form.
func (p *Profile) SetPassword(plain string) {
	p.Password = base64.StdEncoding.EncodeToString([]byte(plain))
}

// PlainPassword decodes the stored password. A value that does not
// decode is treated as a legacy plain-text password.
func (p *Profile) PlainPassword() string {
	decoded, err := base64.StdEncoding.DecodeString(p.Password)
	if err != nil {
		return p.Password
	}
	return string(decoded)
}

// DisplayURL renders the server address without credentials, suitable
// for listings and logs.
func (p *Profile) DisplayURL() string {
	u, err := url.Parse(p.serverURLWithScheme())
	if err != nil {
		return p.ServerURL
	}
	u.User = nil
	return u.String()
}

func (p *Profile) serverURLWithScheme() string {
	if strings.Contains(p.ServerURL, "://") {
		return p.ServerURL
	}
	scheme := "http"
	if p.UseTLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, p.ServerURL)
}

// SDKConfig builds the client configuration for this profile.
func (p *Profile) SDKConfig(timeout time.Duration, insecureTLS bool) *davsdk.Config {
	return &davsdk.Config{
		BaseURL:     p.ServerURL,
		Username:    p.Username,
		Password:    p.PlainPassword(),
		UseTLS:      p.UseTLS,
		InsecureTLS: insecureTLS,
		Timeout:     timeout,
	}
}
