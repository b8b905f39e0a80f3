package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/monitoring"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 4 << 20

// Filter narrows ListEvents. The zero value lists every event.
type Filter string

const (
	FilterAll      Filter = ""
	FilterUpcoming Filter = "upcoming"
)

// Gateway is the set of calls the console makes against the events backend.
// Reads return an empty slice alongside any error; every error is an *Error.
type Gateway interface {
	ListEvents(ctx context.Context, filter Filter) ([]model.Event, error)
	ListRegistrations(ctx context.Context) ([]model.Registration, error)
	ListMyRegistrations(ctx context.Context) ([]model.Registration, error)
	Profile(ctx context.Context) (*model.Profile, error)
	CreateEvent(ctx context.Context, payload dto.EventPayload) (*model.Event, error)
	UpdateEvent(ctx context.Context, id int, payload dto.EventPayload) (*model.Event, error)
	DeleteEvent(ctx context.Context, id int) error
	SubmitRegistration(ctx context.Context, eventID int, form dto.RegistrationForm) error
	UpdateRegistration(ctx context.Context, regID int, form dto.RegistrationForm) error
}

type Config struct {
	BaseURL           string
	Timeout           time.Duration
	SessionCookie     string
	CSRFToken         string
	CSRFPage          string
	SniffLegacyErrors bool
}

type Client struct {
	base  *url.URL
	http  *http.Client
	csrf  TokenSource
	form  *FormFieldToken
	sniff bool
	log   *zerolog.Logger
}

var _ Gateway = (*Client)(nil)

func New(cfg Config, log *zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("gateway base url is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse gateway base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if cfg.SessionCookie != "" {
		jar.SetCookies(base, []*http.Cookie{{Name: "sessionid", Value: cfg.SessionCookie, Path: "/"}})
	}

	hc := &http.Client{
		Jar:     jar,
		Timeout: cfg.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	c := &Client{
		base:  base,
		http:  hc,
		sniff: cfg.SniffLegacyErrors,
		log:   log,
	}
	if cfg.CSRFPage != "" {
		c.form = &FormFieldToken{Client: hc, PageURL: c.resolve(cfg.CSRFPage, nil)}
	}
	c.csrf = Chain{c.form, StaticToken(cfg.CSRFToken), CookieToken{Jar: jar, Base: base}}
	return c, nil
}

func (c *Client) ListEvents(ctx context.Context, filter Filter) ([]model.Event, error) {
	var q url.Values
	if filter != FilterAll {
		q = url.Values{"filter": {string(filter)}}
	}
	events := make([]model.Event, 0)
	if err := c.getJSON(ctx, "list_events", "api/events/", q, &events); err != nil {
		return make([]model.Event, 0), err
	}
	return events, nil
}

func (c *Client) ListRegistrations(ctx context.Context) ([]model.Registration, error) {
	regs := make([]model.Registration, 0)
	if err := c.getJSON(ctx, "list_registrations", "api/registrations/", nil, &regs); err != nil {
		return make([]model.Registration, 0), err
	}
	return regs, nil
}

// ListMyRegistrations accepts either a bare array or {"registrations": [...]}.
func (c *Client) ListMyRegistrations(ctx context.Context) ([]model.Registration, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "list_my_registrations", "api/user/registrations/", nil, &raw); err != nil {
		return make([]model.Registration, 0), err
	}
	regs := make([]model.Registration, 0)
	if t := bytes.TrimSpace(raw); len(t) > 0 && t[0] == '[' {
		if err := json.Unmarshal(t, &regs); err != nil {
			return make([]model.Registration, 0), &Error{Kind: KindRejected, Op: "list_my_registrations", Message: "unreadable response", Err: err}
		}
		return regs, nil
	}
	var env struct {
		Registrations []model.Registration `json:"registrations"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return make([]model.Registration, 0), &Error{Kind: KindRejected, Op: "list_my_registrations", Message: "unreadable response", Err: err}
	}
	if env.Registrations != nil {
		regs = env.Registrations
	}
	return regs, nil
}

// Profile accepts either a bare profile object or {"profile": {...}}.
func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "profile", "api/user/profile/", nil, &raw); err != nil {
		return nil, err
	}
	var env struct {
		Profile *model.Profile `json:"profile"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Profile != nil {
		return env.Profile, nil
	}
	var p model.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &Error{Kind: KindRejected, Op: "profile", Message: "unreadable response", Err: err}
	}
	return &p, nil
}

func (c *Client) CreateEvent(ctx context.Context, payload dto.EventPayload) (*model.Event, error) {
	return c.mutateEvent(ctx, "create_event", "api/events/create/", payload)
}

func (c *Client) UpdateEvent(ctx context.Context, id int, payload dto.EventPayload) (*model.Event, error) {
	return c.mutateEvent(ctx, "update_event", "api/events/"+strconv.Itoa(id)+"/update/", payload)
}

func (c *Client) DeleteEvent(ctx context.Context, id int) error {
	const op = "delete_event"
	status, body, err := c.do(ctx, op, http.MethodPost, "api/events/"+strconv.Itoa(id)+"/delete/", nil, "")
	if err != nil {
		return err
	}
	if _, gerr := classifyMutation(op, status, body); gerr != nil {
		c.logFailure(gerr)
		return gerr
	}
	return nil
}

func (c *Client) SubmitRegistration(ctx context.Context, eventID int, form dto.RegistrationForm) error {
	return c.postForm(ctx, "submit_registration", "register/"+strconv.Itoa(eventID)+"/", form)
}

func (c *Client) UpdateRegistration(ctx context.Context, regID int, form dto.RegistrationForm) error {
	return c.postForm(ctx, "update_registration", "accounts/registration/"+strconv.Itoa(regID)+"/update/", form)
}

func (c *Client) mutateEvent(ctx context.Context, op, path string, payload dto.EventPayload) (*model.Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Op: op, Message: "cannot encode event", Err: err}
	}
	status, respBody, err := c.do(ctx, op, http.MethodPost, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	resp, gerr := classifyMutation(op, status, respBody)
	if gerr != nil {
		c.logFailure(gerr)
		return nil, gerr
	}
	return resp.Event, nil
}

func (c *Client) postForm(ctx context.Context, op, path string, form dto.RegistrationForm) error {
	vals := url.Values{
		"name":   {form.Name},
		"email":  {form.Email},
		"mobile": {form.Mobile},
		"course": {form.Course},
		"branch": {form.Branch},
	}
	if tok := c.csrf.Token(ctx); tok != "" {
		vals.Set(csrfFieldName, tok)
	}
	status, body, err := c.do(ctx, op, http.MethodPost, path, strings.NewReader(vals.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	if gerr := classifyForm(op, status, body, c.sniff); gerr != nil {
		c.logFailure(gerr)
		return gerr
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, q url.Values, out any) error {
	status, body, err := c.doURL(ctx, op, http.MethodGet, c.resolve(path, q), nil, "")
	if err != nil {
		return err
	}
	if status/100 != 2 {
		gerr := &Error{Kind: kindFromStatus(status), Op: op, Status: status}
		if gerr.Kind == KindValidation || gerr.Kind == KindAlreadyRegistered {
			gerr.Kind = KindRejected
		}
		c.logFailure(gerr)
		return gerr
	}
	if err := json.Unmarshal(body, out); err != nil {
		gerr := &Error{Kind: KindRejected, Op: op, Status: status, Message: "unreadable response", Err: err}
		c.logFailure(gerr)
		return gerr
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) (int, []byte, error) {
	return c.doURL(ctx, op, method, c.resolve(path, nil), body, contentType)
}

func (c *Client) doURL(ctx context.Context, op, method, target string, body io.Reader, contentType string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if method == http.MethodGet {
		req.Header.Set("Cache-Control", "no-cache")
	} else if tok := c.csrf.Token(ctx); tok != "" {
		req.Header.Set(csrfHeaderName, tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		monitoring.TrackGatewayRequest(op, "transport_error", time.Since(start))
		gerr := transportError(op, err)
		c.logFailure(gerr)
		return 0, nil, gerr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		monitoring.TrackGatewayRequest(op, "transport_error", time.Since(start))
		gerr := transportError(op, err)
		c.logFailure(gerr)
		return 0, nil, gerr
	}
	monitoring.TrackGatewayRequest(op, strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode == http.StatusForbidden && c.form != nil {
		c.form.Reset()
	}
	return resp.StatusCode, data, nil
}

func (c *Client) resolve(path string, q url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: strings.TrimLeft(path, "/")})
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) logFailure(err *Error) {
	if c.log == nil {
		return
	}
	c.log.Warn().
		Str("op", err.Op).
		Str("kind", err.Kind.String()).
		Int("status", err.Status).
		Err(err.Err).
		Msg(err.Message)
}
