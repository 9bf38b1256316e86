package viewtrack

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the client-held view list: a URL-encoded JSON array of
// {postId, viewedAt}. The value is not signed; the client owns it.
const CookieName = "viewed_posts"

// Decode parses the raw cookie value. A corrupt or absent value yields an
// empty list, so the first view after corruption counts.
func Decode(raw string) []ViewRecord {
	if raw == "" {
		return nil
	}
	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	var records []ViewRecord
	if err := json.Unmarshal([]byte(unescaped), &records); err != nil {
		return nil
	}
	return records
}

// Encode serializes the view list for the cookie value
func Encode(records []ViewRecord) string {
	b, err := json.Marshal(records)
	if err != nil {
		return ""
	}
	return url.QueryEscape(string(b))
}

// ReadCookie returns the view list carried by the request, or nil
func ReadCookie(c echo.Context) []ViewRecord {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return nil
	}
	return Decode(cookie.Value)
}

// WriteCookie persists the (pruned) view list back to the client
func WriteCookie(c echo.Context, records []ViewRecord) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    Encode(records),
		Path:     "/",
		Expires:  time.Now().Add(Window),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
