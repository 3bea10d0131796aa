package xrpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMakeParams tests the makeParams function.
func TestMakeParams(t *testing.T) {
	testCases := []struct {
		name     string
		input    map[string]interface{}
		expected string
	}{
		{
			name:     "Empty input",
			input:    map[string]interface{}{},
			expected: "",
		},
		{
			name: "Single value",
			input: map[string]interface{}{
				"key": "value",
			},
			expected: "key=value",
		},
		{
			name: "Multiple values",
			input: map[string]interface{}{
				"key1": "value1",
				"key2": "value2",
			},
			expected: "key1=value1&key2=value2",
		},
		{
			name: "Slice of strings",
			input: map[string]interface{}{
				"key": []string{"value1", "value2", "value3"},
			},
			expected: "key=value1&key=value2&key=value3",
		},
		{
			name: "Mixed values",
			input: map[string]interface{}{
				"key1": "value1",
				"key2": []string{"value2", "value3"},
			},
			expected: "key1=value1&key2=value2&key2=value3",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := makeParams(tc.input)
			if result != tc.expected {
				t.Errorf("got '%q', want '%q'", result, tc.expected)
			}
		})
	}
}

func TestDoProcedure(t *testing.T) {
	assert := assert.New(t)

	var gotMethod, gotPath, gotType, gotUA string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotUA = r.Header.Get("User-Agent")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	ua := "sequencer-test"
	c := &Client{Host: srv.URL, UserAgent: &ua}
	var out struct {
		Ok bool `json:"ok"`
	}
	err := c.Do(context.Background(), Procedure, "application/json", "com.example.doThing", nil, map[string]string{"hostname": "pds.test"}, &out)
	require.NoError(t, err)

	assert.Equal(http.MethodPost, gotMethod)
	assert.Equal("/xrpc/com.example.doThing", gotPath)
	assert.Equal("application/json", gotType)
	assert.Equal(ua, gotUA)
	assert.Equal("pds.test", gotBody["hostname"])
	assert.True(out.Ok)
}

func TestDoErrorResponse(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ratelimit-limit", "10")
		w.Header().Set("ratelimit-remaining", "0")
		w.Header().Set("ratelimit-reset", "1700000000")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"RateLimitExceeded","message":"slow down"}`))
	}))
	defer srv.Close()

	c := &Client{Host: srv.URL}
	err := c.Do(context.Background(), Query, "", "com.example.getThing", map[string]any{"q": "x"}, nil, nil)
	require.Error(t, err)

	var xerr *Error
	require.True(t, errors.As(err, &xerr))
	assert.True(xerr.IsThrottled())
	assert.Equal(10, xerr.Ratelimit.Limit)
	assert.Equal(0, xerr.Ratelimit.Remaining)

	var xe *XRPCError
	require.True(t, errors.As(err, &xe))
	assert.Equal("RateLimitExceeded", xe.ErrStr)
}
