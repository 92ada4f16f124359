package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// SanitizeAndCleanInputMiddleware strips markup from every string in a JSON
// body, nested objects and arrays included. Text is stored unescaped, so
// "5 < 7" stays as typed. Link fields and the terms and metadata snapshots
// pass through untouched.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abort(c, http.StatusBadRequest, "invalid_input", "Invalid body")
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		newBody, err := sanitizeBody(policy, buf)
		if err != nil {
			abort(c, http.StatusBadRequest, "invalid_input", "Malformed JSON")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
		c.Request.ContentLength = int64(len(newBody))
		c.Next()
	}
}

func sanitizeBody(policy *bluemonday.Policy, buf []byte) ([]byte, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(buf, &body); err != nil {
		return nil, err
	}
	for k, raw := range body {
		if isOpaqueKey(k) {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		cleaned, err := encode(clean(policy, k, v))
		if err != nil {
			return nil, err
		}
		body[k] = cleaned
	}
	return encode(body)
}

// encode marshals without HTML escaping; the raw snapshots keep their bytes.
func encode(v interface{}) ([]byte, error) {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(out.Bytes(), "\n"), nil
}

func isLinkKey(k string) bool {
	k = strings.ToLower(k)
	return k == "url" || k == "link" || strings.HasSuffix(k, "_url") || strings.HasSuffix(k, "_link")
}

// isOpaqueKey reports fields stored exactly as sent.
func isOpaqueKey(k string) bool {
	switch strings.ToLower(k) {
	case "terms", "metadata":
		return true
	}
	return isLinkKey(k)
}

func clean(policy *bluemonday.Policy, key string, v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		if isOpaqueKey(key) {
			return t
		}
		return html.UnescapeString(policy.Sanitize(t))
	case map[string]interface{}:
		if isOpaqueKey(key) {
			return t
		}
		for k, inner := range t {
			t[k] = clean(policy, k, inner)
		}
		return t
	case []interface{}:
		if isOpaqueKey(key) {
			return t
		}
		for i, inner := range t {
			t[i] = clean(policy, key, inner)
		}
		return t
	}
	return v
}
