package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csrfFieldRe = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

// pageClient drives the page surface the way a browser would: it carries
// cookies between requests and submits forms with the csrf token scraped
// from the previously rendered page.
type pageClient struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newPageClient(t *testing.T, h http.Handler) *pageClient {
	return &pageClient{
		t:       t,
		h:       h,
		cookies: make(map[string]*http.Cookie),
	}
}

func (c *pageClient) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Value == "" || cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return w
}

func (c *pageClient) get(path string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(httptest.NewRequest("GET", path, nil))
}

func (c *pageClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// csrfToken scrapes the hidden csrf form field out of a rendered page.
func (c *pageClient) csrfToken(w *httptest.ResponseRecorder) string {
	c.t.Helper()
	m := csrfFieldRe.FindStringSubmatch(w.Body.String())
	require.NotNil(c.t, m, "no csrf field in page")
	return m[1]
}

func TestPageFlow(t *testing.T) {
	h := newTestServer(t)
	c := newPageClient(t, h)

	// Anonymous feed access redirects to the login page.
	w := c.get("/")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// Sign up through the form.
	w = c.get("/signup")
	require.Equal(t, http.StatusOK, w.Code)
	w = c.postForm("/signup", url.Values{
		"gorilla.csrf.Token": {c.csrfToken(w)},
		"username":           {"alice"},
		"email":              {"alice@example.com"},
		"password":           {"password123"},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// The login page shows the signup flash exactly once.
	w = c.get("/login")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Account created successfully. You can now login.")
	loginToken := c.csrfToken(w)
	w = c.get("/login")
	assert.NotContains(t, w.Body.String(), "Account created successfully.")

	// A wrong password bounces back with a flash.
	w = c.postForm("/login", url.Values{
		"gorilla.csrf.Token": {loginToken},
		"username":           {"alice"},
		"password":           {"wrong"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	w = c.get("/login")
	assert.Contains(t, w.Body.String(), "Invalid username or password")

	// Correct credentials set the session cookie.
	w = c.postForm("/login", url.Values{
		"gorilla.csrf.Token": {c.csrfToken(w)},
		"username":           {"alice"},
		"password":           {"password123"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.NotNil(t, c.cookies["remember_token"])

	w = c.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No posts yet.")

	// Publish a post through the form.
	w = c.get("/create_post")
	require.Equal(t, http.StatusOK, w.Code)
	w = c.postForm("/create_post", url.Values{
		"gorilla.csrf.Token": {c.csrfToken(w)},
		"content":            {"hello from the page"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	w = c.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "hello from the page")
	assert.Contains(t, body, "0 likes")

	// Like it through the feed's toggle form.
	m := regexp.MustCompile(`/like_post/(\d+)`).FindStringSubmatch(body)
	require.NotNil(t, m)
	w2 := c.postForm("/like_post/"+m[1], url.Values{"gorilla.csrf.Token": {c.csrfToken(w)}})
	require.Equal(t, http.StatusFound, w2.Code)

	w = c.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1 likes")
	assert.Contains(t, w.Body.String(), "Unlike")

	// Logout clears the cookie and rotates the remember token, so the old
	// cookie value can't be replayed.
	old := *c.cookies["remember_token"]
	w2 = c.postForm("/logout", url.Values{"gorilla.csrf.Token": {c.csrfToken(w)}})
	require.Equal(t, http.StatusFound, w2.Code)
	assert.Equal(t, "/login", w2.Header().Get("Location"))
	assert.Nil(t, c.cookies["remember_token"])

	replay := httptest.NewRequest("GET", "/", nil)
	replay.AddCookie(&old)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, replay)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestPageFormWithoutCSRFToken(t *testing.T) {
	h := newTestServer(t)
	c := newPageClient(t, h)

	c.get("/signup")
	w := c.postForm("/signup", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
