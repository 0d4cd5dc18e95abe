package sitethumbs

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStringEscapesScriptBreakers(t *testing.T) {
	got, err := JSONString("<a>&'b'")
	require.NoError(t, err)

	for _, esc := range []string{"\\u003c", "\\u0026", "\\u0027", "\\u003e"} {
		assert.Contains(t, got, esc)
	}
	assert.False(t, strings.ContainsAny(got, "<>&'"), "unescaped characters in %s", got)

	var back string
	require.NoError(t, json.Unmarshal([]byte(got), &back))
	assert.Equal(t, "<a>&'b'", back)
}

func TestJSONStringNested(t *testing.T) {
	got, err := JSONString(map[string]any{"html": "</script><script>alert('x')</script>", "n": 3})
	require.NoError(t, err)
	assert.NotContains(t, got, "</script>")
	assert.True(t, strings.HasPrefix(got, "{"))
	assert.False(t, strings.HasSuffix(got, "\n"))
}

func TestJSONStringUnsupportedValue(t *testing.T) {
	_, err := JSONString(make(chan int))
	assert.Error(t, err)
}

func TestToJSONRendersRaw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToJSON([]string{"a&b"}).Render(context.Background(), &buf))
	assert.Equal(t, "[\"a\\u0026b\"]", buf.String())
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/", BuildURL("http://localhost:8080"))
	assert.Equal(t, "https://example.com/blog/img/thumb_a.jpg", BuildURL("https://example.com", "blog/img", "thumb_a.jpg"))
	assert.Equal(t, "https://example.com/sub/a", BuildURL("https://example.com/sub/", "a"))
}
