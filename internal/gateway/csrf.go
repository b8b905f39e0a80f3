package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

const (
	csrfFieldName  = "csrfmiddlewaretoken"
	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"
)

// TokenSource yields a CSRF token, or "" when it has none.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Chain asks each source in order and returns the first non-empty token.
type Chain []TokenSource

func (c Chain) Token(ctx context.Context) string {
	for _, s := range c {
		if s == nil {
			continue
		}
		if tok := s.Token(ctx); tok != "" {
			return tok
		}
	}
	return ""
}

// StaticToken is a token handed over through configuration.
type StaticToken string

func (s StaticToken) Token(context.Context) string { return string(s) }

// CookieToken reads the csrftoken cookie the backend set in the jar.
type CookieToken struct {
	Jar  http.CookieJar
	Base *url.URL
}

func (c CookieToken) Token(context.Context) string {
	if c.Jar == nil || c.Base == nil {
		return ""
	}
	for _, ck := range c.Jar.Cookies(c.Base) {
		if ck.Name == csrfCookieName {
			return ck.Value
		}
	}
	return ""
}

// FormFieldToken scrapes the hidden csrfmiddlewaretoken input from a page
// rendered by the backend. The first token found is kept.
type FormFieldToken struct {
	Client  *http.Client
	PageURL string

	mu    sync.Mutex
	token string
}

func (f *FormFieldToken) Token(ctx context.Context) string {
	if f == nil || f.PageURL == "" || f.Client == nil {
		return ""
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token != "" {
		return f.token
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.PageURL, nil)
	if err != nil {
		return ""
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return ""
	}
	f.token = scrapeCSRFField(resp.Body)
	return f.token
}

// Reset drops the cached token so the next call scrapes the page again.
func (f *FormFieldToken) Reset() {
	if f == nil {
		return
	}
	f.mu.Lock()
	f.token = ""
	f.mu.Unlock()
}

func scrapeCSRFField(r io.Reader) string {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "input" {
				continue
			}
			var name, value string
			for _, a := range tok.Attr {
				switch strings.ToLower(a.Key) {
				case "name":
					name = a.Val
				case "value":
					value = a.Val
				}
			}
			if name == csrfFieldName && value != "" {
				return value
			}
		}
	}
}
