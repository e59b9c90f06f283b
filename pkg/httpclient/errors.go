package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps how much of a response body is buffered.
const maxBodyBytes = 8 << 20

// StatusError reports a non-2xx response from a remote endpoint.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

// CheckResponse returns a *StatusError for non-2xx responses, consuming and
// closing the body. 2xx responses are left untouched.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}
	return &StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
}

// DecodeJSON checks the status of resp and decodes its body into dst.
// The body is always closed.
func DecodeJSON(resp *http.Response, dst any) error {
	if err := CheckResponse(resp); err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
