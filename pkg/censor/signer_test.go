package censor

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTimestamp = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

const testNonce = "6ba7b810-9dc4-11d1-80b4-00c04fd430c8"

func TestSignedParams_ContainsAllParameters(t *testing.T) {
	signer := NewSigner("testid", "testsecret")

	params := signer.SignedParams("hello", testTimestamp, testNonce)

	assert.Equal(t, "JSON", params.Get("Format"))
	assert.Equal(t, "2022-03-02", params.Get("Version"))
	assert.Equal(t, "testid", params.Get("AccessKeyId"))
	assert.Equal(t, "HMAC-SHA1", params.Get("SignatureMethod"))
	assert.Equal(t, "1.0", params.Get("SignatureVersion"))
	assert.Equal(t, testNonce, params.Get("SignatureNonce"))
	assert.Equal(t, "2024-01-02T03:04:05Z", params.Get("Timestamp"))
	assert.Equal(t, "TextModerationPlus", params.Get("Action"))
	assert.Equal(t, "chat_detection_pro", params.Get("Service"))
	assert.Equal(t, `{"content":"hello"}`, params.Get("ServiceParameters"))
	assert.NotEmpty(t, params.Get("Signature"))
}

func TestSignedParams_SignatureMatchesReference(t *testing.T) {
	signer := NewSigner("testid", "testsecret")

	params := signer.SignedParams("hello", testTimestamp, testNonce)

	// Reference string-to-sign assembled by hand: sorted key=value pairs,
	// percent-encoded, then the whole query encoded once more.
	canonical := "AccessKeyId=testid" +
		"&Action=TextModerationPlus" +
		"&Format=JSON" +
		"&Service=chat_detection_pro" +
		"&ServiceParameters=%7B%22content%22%3A%22hello%22%7D" +
		"&SignatureMethod=HMAC-SHA1" +
		"&SignatureNonce=" + testNonce +
		"&SignatureVersion=1.0" +
		"&Timestamp=2024-01-02T03%3A04%3A05Z" +
		"&Version=2022-03-02"
	stringToSign := "POST&%2F&" + url.QueryEscape(canonical)

	mac := hmac.New(sha1.New, []byte("testsecret&"))
	mac.Write([]byte(stringToSign))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, params.Get("Signature"))
}

func TestSignedParams_Deterministic(t *testing.T) {
	signer := NewSigner("testid", "testsecret")

	first := signer.SignedParams("some segment", testTimestamp, testNonce)
	second := signer.SignedParams("some segment", testTimestamp, testNonce)

	require.Equal(t, first.Get("Signature"), second.Get("Signature"))
	assert.Equal(t, first, second)
}

func TestCanonicalizedQuery_SortedRegardlessOfInsertionOrder(t *testing.T) {
	a := url.Values{}
	a.Set("Action", "X")
	a.Set("AccessKeyId", "Y")

	b := url.Values{}
	b.Set("AccessKeyId", "Y")
	b.Set("Action", "X")

	assert.Equal(t, "AccessKeyId=Y&Action=X", canonicalizedQuery(a))
	assert.Equal(t, canonicalizedQuery(a), canonicalizedQuery(b))
}

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a b", "a%20b"},
		{"a*b", "a%2Ab"},
		{"a~b", "a~b"},
		{"a+b", "a%2Bb"},
		{"/", "%2F"},
		{`{"content":"x"}`, "%7B%22content%22%3A%22x%22%7D"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, percentEncode(tt.in))
		})
	}
}
