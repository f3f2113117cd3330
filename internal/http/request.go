package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/hakai/internal/config"
)

// Content types used for action bodies
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// NewRequest builds the HTTP request for an action against a resolved URL.
func NewRequest(ctx context.Context, rawURL string, action config.Action, userAgent string) (*http.Request, error) {
	method := strings.ToUpper(action.Method)
	if method == "" {
		method = http.MethodGet
	}
	if !config.SupportedMethods[method] {
		return nil, fmt.Errorf("unsupported HTTP method: %s", action.Method)
	}

	var body io.Reader
	contentType := ""
	if carriesBody(method) && action.PostParams != nil {
		payload, ct, err := EncodeBody(action.PostParams)
		if err != nil {
			return nil, err
		}
		body = strings.NewReader(payload)
		contentType = ct
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	return req, nil
}

// EncodeBody turns post_params into a request body and its content type.
//
// A string holding valid JSON is sent as JSON, any other string as a form
// body verbatim. A mapping is form-encoded with its keys sorted.
func EncodeBody(params interface{}) (string, string, error) {
	switch p := params.(type) {
	case string:
		if gjson.Valid(p) && isJSONDocument(p) {
			return p, ContentTypeJSON, nil
		}
		return p, ContentTypeForm, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var sb strings.Builder
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(k))
			sb.WriteByte('=')
			if p[k] != nil {
				sb.WriteString(url.QueryEscape(fmt.Sprint(p[k])))
			}
		}
		return sb.String(), ContentTypeForm, nil
	default:
		return "", "", fmt.Errorf("unsupported post_params type %T", params)
	}
}

// isJSONDocument reports whether s is a JSON object or array. Bare scalars
// such as 42 stay form bodies.
func isJSONDocument(s string) bool {
	r := gjson.Parse(s)
	return r.IsObject() || r.IsArray()
}

func carriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
