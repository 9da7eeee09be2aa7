// Package response serializes tool results and maps the error taxonomy
// into the structured JSON error objects returned at the tool boundary.
// No tool ever propagates an error past this layer.
package response

import (
	"encoding/json"
	"errors"
	"fmt"

	"apstramcp/pkg/client"
	"apstramcp/pkg/credentials"
	"apstramcp/pkg/normalize"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrorBody is the JSON shape of a failed tool call.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Body    string `json:"body,omitempty"`
}

// Classify maps err onto the error taxonomy.
func Classify(err error) ErrorBody {
	var (
		configErr  *credentials.ConfigurationError
		sessionErr *credentials.SessionError
		authErr    *client.AuthenticationError
		reqErr     *client.RequestError
		valErr     *normalize.ValidationError
	)

	switch {
	case errors.As(err, &configErr):
		return ErrorBody{Error: "configuration_error", Message: configErr.Reason}
	case errors.As(err, &sessionErr):
		return ErrorBody{Error: "session_error", Message: sessionErr.Reason}
	case errors.As(err, &authErr):
		return ErrorBody{Error: "authentication_error", Message: authErr.Error(), Status: authErr.Status, Body: authErr.Body}
	case errors.As(err, &reqErr):
		return ErrorBody{Error: "request_error", Message: reqErr.Error(), Status: reqErr.Status, Body: reqErr.Body}
	case errors.As(err, &valErr):
		return ErrorBody{Error: "validation_error", Message: valErr.Reason}
	default:
		return ErrorBody{Error: "internal_error", Message: err.Error()}
	}
}

// Error turns err into a structured JSON error result.
func Error(err error) *mcp.CallToolResult {
	body := Classify(err)
	encoded, marshalErr := json.MarshalIndent(body, "", "  ")
	if marshalErr != nil {
		encoded = []byte(fmt.Sprintf(`{"error":"internal_error","message":%q}`, err.Error()))
	}

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(encoded)}},
	}
}

// Text wraps an already-serialized payload into a tool result.
func Text(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// JSON pretty-prints v into a tool result.
func JSON(v any) *mcp.CallToolResult {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Error(fmt.Errorf("encoding result: %w", err))
	}

	return Text(string(encoded))
}
