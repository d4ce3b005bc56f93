package xt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	signAlgorithm  = "HmacSHA256"
	signRecvWindow = "60000"
)

// signaturePayload builds the exact string the XT signature covers: the
// validate-* header fields in fixed order, then "#method#path" followed by
// the "#"-prefixed canonical query and body. Deviating by a single byte
// breaks authentication against the exchange.
func signaturePayload(apiKey, method, path string, query url.Values, body []byte, timestamp int64) string {
	var b strings.Builder
	b.WriteString("validate-algorithms=" + signAlgorithm)
	b.WriteString("&validate-appkey=" + apiKey)
	b.WriteString("&validate-recvwindow=" + signRecvWindow)
	b.WriteString("&validate-timestamp=" + strconv.FormatInt(timestamp, 10))
	b.WriteString("#" + method + "#" + path)
	if qs := canonicalQuery(query); qs != "" {
		b.WriteString("#" + qs)
	}
	if len(body) > 0 {
		b.WriteString("#")
		b.Write(body)
	}
	return b.String()
}

// canonicalQuery joins set params as key=value sorted lexicographically by
// key. Unset params never appear in url.Values, which mirrors the required
// stripping of undefined-valued keys; an empty set yields "".
func canonicalQuery(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+query.Get(k))
	}
	return strings.Join(parts, "&")
}

// signHeaders produces the validate-* header set for one request. The body
// bytes must be exactly what goes on the wire.
func signHeaders(apiKey, secretKey, method, path string, query url.Values, body []byte, timestamp int64) map[string]string {
	payload := signaturePayload(apiKey, method, path, query, body, timestamp)
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return map[string]string{
		"validate-algorithms": signAlgorithm,
		"validate-appkey":     apiKey,
		"validate-recvwindow": signRecvWindow,
		"validate-timestamp":  strconv.FormatInt(timestamp, 10),
		"validate-signature":  hex.EncodeToString(mac.Sum(nil)),
	}
}
