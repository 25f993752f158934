package stereotype

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is any non-2xx response from the service, carrying the HTTP
// status and whatever error body the server supplied. Local validation
// failures that mirror a server condition (empty template id) use it too.
type APIError struct {
	StatusCode int
	Name       string
	Message    string
}

func (ae *APIError) Error() string {
	if ae.StatusCode > 0 {
		if ae.Name != "" && ae.Message != "" {
			return fmt.Sprintf("stereotype request failed (HTTP %d): %s: %s", ae.StatusCode, ae.Name, ae.Message)
		} else if ae.Message != "" {
			return fmt.Sprintf("stereotype request failed (HTTP %d): %s", ae.StatusCode, ae.Message)
		}
		return fmt.Sprintf("stereotype request failed (HTTP %d)", ae.StatusCode)
	}
	return "stereotype request failed"
}

type errorBody struct {
	Name    string `json:"error"`
	Message string `json:"message,omitempty"`
}

func errorFromResponse(statusCode int, body []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && (eb.Name != "" || eb.Message != "") {
		return &APIError{StatusCode: statusCode, Name: eb.Name, Message: eb.Message}
	}
	return &APIError{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}
}
