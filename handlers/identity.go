package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

func stringField(body map[string]any, key string) string {
	if v, ok := body[key].(string); ok {
		return v
	}
	return ""
}

func intField(body map[string]any, key string) (int, bool) {
	switch v := body[key].(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// TrustedUserID resolves the caller-supplied user id: the named body field
// first, then the X-User-Id header. The id is taken on trust; there is no
// session layer here, so verification belongs to a future auth layer and
// must slot in at this single point.
func TrustedUserID(r *http.Request, body map[string]any, key string) (int, bool) {
	if id, ok := intField(body, key); ok && id > 0 {
		return id, true
	}

	if h := r.Header.Get("X-User-Id"); h != "" {
		if id, err := strconv.Atoi(h); err == nil && id > 0 {
			return id, true
		}
	}

	return 0, false
}
