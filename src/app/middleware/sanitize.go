package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans untrusted text before it reaches validation and storage.
type Sanitizer interface {
	Sanitize(s string) string
}

// plaintextFields are hashed and never stored or echoed; they pass untouched.
var plaintextFields = map[string]struct{}{
	"password": {},
}

// NewStrictSanitizer strips all markup and HTML-escapes the remaining text.
func NewStrictSanitizer() Sanitizer {
	return bluemonday.StrictPolicy()
}

// Sanitize rewrites every string in a JSON request body and every query
// value through s. Bodies that are not valid JSON are left as is so the
// validation stage can reject them.
func Sanitize(s Sanitizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if q := c.Request.URL.Query(); len(q) > 0 {
			for key, values := range q {
				for i, v := range values {
					values[i] = s.Sanitize(v)
				}
				q[key] = values
			}
			c.Request.URL.RawQuery = q.Encode()
		}

		if c.Request.Body != nil && isJSON(c.ContentType()) {
			raw, err := io.ReadAll(c.Request.Body)
			if err == nil {
				raw = sanitizeJSON(s, raw)
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			c.Request.ContentLength = int64(len(raw))
		}

		c.Next()
	}
}

func isJSON(contentType string) bool {
	return contentType == "" || strings.HasSuffix(contentType, "/json") || strings.HasSuffix(contentType, "+json")
}

func sanitizeJSON(s Sanitizer, raw []byte) []byte {
	if len(bytes.TrimSpace(raw)) == 0 {
		return raw
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return raw
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(sanitizeValue(s, v)); err != nil {
		return raw
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func sanitizeValue(s Sanitizer, v any) any {
	switch t := v.(type) {
	case string:
		return s.Sanitize(t)
	case map[string]any:
		for k, inner := range t {
			if _, ok := plaintextFields[k]; ok {
				continue
			}
			t[k] = sanitizeValue(s, inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = sanitizeValue(s, inner)
		}
		return t
	default:
		return v
	}
}
