package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"apstramcp/pkg/client"
	"apstramcp/pkg/credentials"
	"apstramcp/pkg/normalize"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := map[string]struct {
		err            error
		expectedError  string
		expectedStatus int
	}{
		"configuration error": {
			err:           &credentials.ConfigurationError{Reason: "no credentials"},
			expectedError: "configuration_error",
		},
		"session error": {
			err:           &credentials.SessionError{Reason: "invalid or expired session token"},
			expectedError: "session_error",
		},
		"authentication error": {
			err:            &client.AuthenticationError{Status: 401, Body: "denied"},
			expectedError:  "authentication_error",
			expectedStatus: 401,
		},
		"request error": {
			err:            &client.RequestError{Status: 422, Body: "bad request"},
			expectedError:  "request_error",
			expectedStatus: 422,
		},
		"wrapped request error": {
			err:            fmt.Errorf("calling tool: %w", &client.RequestError{Status: 500, Body: "boom"}),
			expectedError:  "request_error",
			expectedStatus: 500,
		},
		"validation error": {
			err:           &normalize.ValidationError{Reason: "expected 3 elements, got 2"},
			expectedError: "validation_error",
		},
		"unknown error": {
			err:           errors.New("something else"),
			expectedError: "internal_error",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			body := Classify(test.err)

			assert.Equal(t, test.expectedError, body.Error)
			assert.Equal(t, test.expectedStatus, body.Status)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestError(t *testing.T) {
	result := Error(&client.RequestError{Status: 404, Body: "not found"})

	require.True(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var body ErrorBody
	require.NoError(t, json.Unmarshal([]byte(text.Text), &body))
	assert.Equal(t, "request_error", body.Error)
	assert.Equal(t, 404, body.Status)
	assert.Equal(t, "not found", body.Body)
}

func TestTextAndJSON(t *testing.T) {
	textResult := Text("payload")
	require.Len(t, textResult.Content, 1)
	assert.False(t, textResult.IsError)

	jsonResult := JSON(map[string]string{"message": "ok"})
	require.Len(t, jsonResult.Content, 1)
	text := jsonResult.Content[0].(*mcp.TextContent)
	assert.JSONEq(t, `{"message":"ok"}`, text.Text)
}
