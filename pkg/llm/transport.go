package llm

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an error reply is kept for the message.
const maxErrorBody = 512

// statusError is an error status from the server. It is raised by
// statusTransport before the ollama client tries to decode the body, so
// plain-text and empty error replies are classified by their status code.
type statusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *statusError) Error() string {
	if e.Message == "" {
		return "server replied " + e.Status
	}
	return fmt.Sprintf("server replied %s: %s", e.Status, e.Message)
}

// statusTransport turns every reply with status >= 400 into a *statusError.
type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return nil, &statusError{StatusCode: resp.StatusCode, Status: status, Message: errorMessage(body)}
}

// errorMessage prefers the "error" field of a JSON body and falls back to the
// raw text.
func errorMessage(body []byte) string {
	var reply struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &reply); err == nil && reply.Error != "" {
		return reply.Error
	}
	return strings.TrimSpace(string(body))
}

// withStatusTransport returns a copy of h whose transport reports error
// statuses as *statusError.
func withStatusTransport(h *http.Client) *http.Client {
	if h == nil {
		h = &http.Client{}
	}
	if _, ok := h.Transport.(*statusTransport); ok {
		return h
	}
	wrapped := *h
	wrapped.Transport = &statusTransport{base: h.Transport}
	return &wrapped
}
