package credstore

import (
	"net/http"
	"net/url"
)

// Mirror receives a transient copy of the access token whenever the
// persistent pair changes. Mirrors exist for server-side readability only.
type Mirror interface {
	SetAccessToken(token string) error
	ClearAccessToken() error
}

// NopMirror discards mirror writes.
type NopMirror struct{}

func (NopMirror) SetAccessToken(string) error { return nil }
func (NopMirror) ClearAccessToken() error     { return nil }

// CookieMirror writes the access token into an HTTP cookie jar, typically the
// jar shared with the transport client, so requests carry the token as a
// session cookie alongside the authorization header.
type CookieMirror struct {
	Jar  http.CookieJar
	URL  *url.URL
	Name string
}

func (m CookieMirror) cookieName() string {
	if m.Name != "" {
		return m.Name
	}
	return "accessToken"
}

func (m CookieMirror) SetAccessToken(token string) error {
	if m.Jar == nil || m.URL == nil {
		return nil
	}
	m.Jar.SetCookies(m.URL, []*http.Cookie{{Name: m.cookieName(), Value: token, Path: "/"}})
	return nil
}

func (m CookieMirror) ClearAccessToken() error {
	if m.Jar == nil || m.URL == nil {
		return nil
	}
	m.Jar.SetCookies(m.URL, []*http.Cookie{{Name: m.cookieName(), Value: "", Path: "/", MaxAge: -1}})
	return nil
}
