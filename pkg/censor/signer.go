package censor

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	apiFormat        = "JSON"
	apiVersion       = "2022-03-02"
	apiAction        = "TextModerationPlus"
	apiService       = "chat_detection_pro"
	signatureMethod  = "HMAC-SHA1"
	signatureVersion = "1.0"
	timestampLayout  = "2006-01-02T15:04:05Z"
)

// Signer builds signed parameter sets for the Aliyun text moderation API.
// It performs pure computation only; credentials are not validated here,
// bad ones simply produce signatures the remote service rejects.
type Signer struct {
	accessKeyID     string
	accessKeySecret string
}

func NewSigner(accessKeyID, accessKeySecret string) *Signer {
	return &Signer{
		accessKeyID:     accessKeyID,
		accessKeySecret: accessKeySecret,
	}
}

// SignedParams returns the full parameter set for moderating one text
// segment, including the computed Signature. Every other parameter must be
// in place before signing, so Signature is always added last.
func (s *Signer) SignedParams(content string, timestamp time.Time, nonce string) url.Values {
	payload, _ := json.Marshal(map[string]string{"content": content})

	params := url.Values{}
	params.Set("Format", apiFormat)
	params.Set("Version", apiVersion)
	params.Set("AccessKeyId", s.accessKeyID)
	params.Set("SignatureMethod", signatureMethod)
	params.Set("Timestamp", timestamp.UTC().Format(timestampLayout))
	params.Set("SignatureVersion", signatureVersion)
	params.Set("SignatureNonce", nonce)
	params.Set("Action", apiAction)
	params.Set("Service", apiService)
	params.Set("ServiceParameters", string(payload))

	params.Set("Signature", s.sign(params))
	return params
}

func (s *Signer) sign(params url.Values) string {
	stringToSign := "POST&" + percentEncode("/") + "&" + percentEncode(canonicalizedQuery(params))

	mac := hmac.New(sha1.New, []byte(s.accessKeySecret+"&"))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// canonicalizedQuery joins percent-encoded key=value pairs with '&', keys
// sorted ascending byte-wise. The result is identical regardless of the
// order parameters were inserted in.
func canonicalizedQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params.Get(k)))
	}
	return strings.Join(pairs, "&")
}

// percentEncode is the RFC3986-compatible variant of form encoding the
// signature scheme requires: space encodes to %20 rather than '+', '*'
// encodes to %2A and '~' stays literal.
func percentEncode(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "+", "%20")
	e = strings.ReplaceAll(e, "*", "%2A")
	e = strings.ReplaceAll(e, "%7E", "~")
	return e
}
