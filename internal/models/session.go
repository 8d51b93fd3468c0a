package models

import (
	"net/http"
	"time"
)

// HubSession is the locally persisted session state for a single hub.
// The cookies are opaque and replayed verbatim.
type HubSession struct {
	Version   string    `json:"version" yaml:"version" default:"1.0"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Endpoint  string    `json:"endpoint" yaml:"endpoint"`
	Username  string    `json:"username" yaml:"username"`
	UserID    int64     `json:"user_id" yaml:"user_id"`
	Cookies   []Cookie  `json:"cookies" yaml:"cookies"`
}

// HasCookies reports whether any unexpired cookie remains.
func (s *HubSession) HasCookies() bool {
	for _, c := range s.Cookies {
		if !c.IsExpired() {
			return true
		}
	}
	return false
}

func (s *HubSession) GetHTTPCookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		if c.IsExpired() {
			continue
		}
		cookies = append(cookies, c.ToHTTP())
	}
	return cookies
}

type Cookie struct {
	Name     string    `json:"name" yaml:"name"`
	Value    string    `json:"value" yaml:"value"`
	Path     string    `json:"path,omitempty" yaml:"path,omitempty"`
	Domain   string    `json:"domain,omitempty" yaml:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty" yaml:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty" yaml:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty" yaml:"http_only,omitempty"`
}

func (c Cookie) IsExpired() bool {
	return !c.Expires.IsZero() && time.Now().After(c.Expires)
}

func (c Cookie) ToHTTP() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

func NewCookies(cookies []*http.Cookie) []Cookie {
	result := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		result = append(result, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	return result
}
