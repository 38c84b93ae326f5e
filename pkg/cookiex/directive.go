package cookiex

import (
	"net/http"
	"time"
)

// SessionMaxAge marks a directive without a Max-Age attribute, the cookie
// lives until the browser session ends.
const SessionMaxAge = -1

// Directive describes one Set-Cookie header. MaxAge is in whole seconds:
// positive keeps the cookie that long, 0 deletes it immediately and
// SessionMaxAge omits the attribute.
type Directive struct {
	Name     string
	Value    string
	MaxAge   int
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
	Path     string
	Domain   string
}

// Cookie converts d into an *http.Cookie. now anchors the Expires attribute
// that accompanies Max-Age for older clients.
func (d Directive) Cookie(now time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     d.Name,
		Value:    d.Value,
		Path:     d.Path,
		Domain:   d.Domain,
		Secure:   d.Secure,
		HttpOnly: d.HTTPOnly,
		SameSite: d.SameSite,
	}

	switch {
	case d.MaxAge > 0:
		c.MaxAge = d.MaxAge
		c.Expires = now.Add(time.Duration(d.MaxAge) * time.Second).UTC()
	case d.MaxAge == 0:
		// net/http renders "Max-Age=0" for negative values.
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0).UTC()
	}
	return c
}

// String renders d as a Set-Cookie header value.
func (d Directive) String(now time.Time) string {
	return d.Cookie(now).String()
}

// Write adds every directive to w as a Set-Cookie header.
func Write(w http.ResponseWriter, now time.Time, directives []Directive) {
	for _, d := range directives {
		http.SetCookie(w, d.Cookie(now))
	}
}
