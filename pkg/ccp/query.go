package ccp

import (
	"net/url"
	"sort"
	"strings"
)

// buildQuery assembles the retrieval query string: AppID and Object first,
// then the optional search attributes in a fixed order, then the request's
// extra parameters in sorted key order so identical requests always encode
// identically. Keys and values are percent-encoded.
func buildQuery(appID string, req SecretRequest) string {
	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	add("AppID", appID)
	add("Object", req.Object)
	if req.Safe != "" {
		add("Safe", req.Safe)
	}
	if req.Folder != "" {
		add("Folder", req.Folder)
	}
	if req.UserName != "" {
		add("UserName", req.UserName)
	}
	if req.Address != "" {
		add("Address", req.Address)
	}
	if req.Database != "" {
		add("Database", req.Database)
	}
	if req.PolicyID != "" {
		add("PolicyID", req.PolicyID)
	}

	keys := make([]string, 0, len(req.Params))
	for key, value := range req.Params {
		if key == "" || value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		add(key, req.Params[key])
	}

	return b.String()
}

// requestURL joins the base URL (trailing slash stripped), the endpoint path
// and the query string.
func requestURL(opts Options, query string) string {
	return strings.TrimSuffix(opts.BaseURL, "/") + opts.Endpoint + "?" + query
}
