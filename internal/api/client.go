package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/Vantled/balikbayani-sub001/internal/form"
)

// Client talks to the portal backend over its REST contracts.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// New builds a client for the backend at base, authenticating with the
// given bearer token.
func New(base, token string, timeout time.Duration) *Client {
	return &Client{
		base:  base,
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

// GetApplication fetches the flat applicant fields of an application.
func (c *Client) GetApplication(ctx context.Context, id string) (map[string]string, error) {
	env, err := c.do(ctx, http.MethodGet, "/applications/"+url.PathEscape(id), nil, "", nil)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return nil, fmt.Errorf("api: decode application: %w", err)
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = stringify(v)
	}
	return fields, nil
}

// GetCorrections fetches the flagged-field list of an application. The
// reason list may be sparse.
func (c *Client) GetCorrections(ctx context.Context, id string) ([]Correction, error) {
	env, err := c.do(ctx, http.MethodGet, "/applications/"+url.PathEscape(id)+"/corrections", nil, "", nil)
	if err != nil {
		return nil, err
	}
	var out []Correction
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("api: decode corrections: %w", err)
	}
	return out, nil
}

// ListDocuments fetches document metadata for an application.
func (c *Client) ListDocuments(ctx context.Context, applicationID, applicationType string) ([]Document, error) {
	q := url.Values{}
	q.Set("applicationId", applicationID)
	q.Set("applicationType", applicationType)
	env, err := c.do(ctx, http.MethodGet, "/documents", q, "", nil)
	if err != nil {
		return nil, err
	}
	var wire []documentWire
	if err := json.Unmarshal(env.Data, &wire); err != nil {
		return nil, fmt.Errorf("api: decode documents: %w", err)
	}
	docs := make([]Document, 0, len(wire))
	for i := range wire {
		docs = append(docs, wire[i].toDocument())
	}
	return docs, nil
}

// FetchDocument downloads a stored document's binary content.
func (c *Client) FetchDocument(ctx context.Context, id string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/documents/"+url.PathEscape(id)+"/view", nil, "", nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &Error{Category: CategoryNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", categorize(resp.StatusCode, "document fetch failed")
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Category: CategoryNetwork, Message: err.Error()}
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// SubmitApplication creates a new application via multipart form data and
// returns the generated control number.
func (c *Client) SubmitApplication(ctx context.Context, applicationType string, fields map[string]string, files map[string]*form.Attachment) (string, error) {
	body, contentType, err := encodeMultipart(applicationType, fields, files)
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, http.MethodPost, "/applications", nil, contentType, body)
	if err != nil {
		return "", err
	}
	var res submitResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return "", fmt.Errorf("api: decode submit result: %w", err)
	}
	return res.ControlNumber, nil
}

// ResolveCorrections resubmits the flagged fields of an application. The
// request is JSON unless a flagged document carries a new file, in which
// case the whole request switches to multipart.
func (c *Client) ResolveCorrections(ctx context.Context, id string, fields map[string]string, files map[string]*form.Attachment) error {
	path := "/applications/" + url.PathEscape(id) + "/corrections/resolve"

	if len(files) == 0 {
		data, err := json.Marshal(map[string]any{"fields": fields})
		if err != nil {
			return fmt.Errorf("api: encode resolve payload: %w", err)
		}
		_, err = c.do(ctx, http.MethodPost, path, nil, "application/json", bytes.NewReader(data))
		return err
	}

	body, contentType, err := encodeMultipart("", fields, files)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, path, nil, contentType, body)
	return err
}

// SessionValid reports whether the bearer token still looks usable. The
// client holds no signing secret, so the check is an unverified parse of
// the expiry claim; the backend remains the authority.
func (c *Client) SessionValid(now time.Time) bool {
	return tokenValidAt(c.token, now)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*http.Request, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// do performs a request expecting an enveloped JSON response and converts
// every failure shape into a categorized *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*envelope, error) {
	req, err := c.newRequest(ctx, method, path, query, contentType, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Category: CategoryNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Category: CategoryNetwork, Message: err.Error()}
	}

	var env envelope
	decodeErr := json.Unmarshal(data, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if decodeErr == nil {
			msg = env.failureMessage()
		}
		return nil, categorize(resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return nil, &Error{Status: resp.StatusCode, Category: CategoryServer, Message: "malformed response body"}
	}
	if !env.Success {
		return nil, &Error{Status: resp.StatusCode, Category: CategoryServer, Message: env.failureMessage()}
	}
	return &env, nil
}

// encodeMultipart writes fields and files as multipart form data. Keys are
// written in sorted order so payloads are deterministic.
func encodeMultipart(applicationType string, fields map[string]string, files map[string]*form.Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if applicationType != "" {
		if err := w.WriteField("application_type", applicationType); err != nil {
			return nil, "", fmt.Errorf("api: encode multipart: %w", err)
		}
	}
	for _, k := range sortedKeys(fields) {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("api: encode multipart: %w", err)
		}
	}
	for _, k := range sortedFileKeys(files) {
		a := files[k]
		part, err := w.CreateFormFile(k, a.Name)
		if err != nil {
			return nil, "", fmt.Errorf("api: encode multipart: %w", err)
		}
		if _, err := part.Write(a.Content); err != nil {
			return nil, "", fmt.Errorf("api: encode multipart: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("api: encode multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFileKeys(m map[string]*form.Attachment) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stringify flattens a decoded JSON value to the string form the form state
// store carries.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
