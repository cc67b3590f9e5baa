package signer

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbcloud/core"
)

var testCreds = core.StorageCredentials{
	AccessKey: "test-access-key",
	SecretKey: "test-secret-key",
	Bucket:    "kb",
	Domain:    "cdn.example.com",
	Region:    "z0",
	Filename:  "knowledge.json",
}

func hmacSHA1(secret, payload string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

func TestUploadToken_Format(t *testing.T) {
	token := UploadToken(testCreds, 1700000000)

	parts := strings.Split(token, ":")
	require.Len(t, parts, 3)
	assert.Equal(t, testCreds.AccessKey, parts[0])

	policyJSON, err := base64.URLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	var policy struct {
		Scope    string `json:"scope"`
		Deadline int64  `json:"deadline"`
	}
	require.NoError(t, json.Unmarshal(policyJSON, &policy))
	assert.Equal(t, "kb:knowledge.json", policy.Scope)
	assert.Equal(t, int64(1700000000), policy.Deadline)

	// Verify the signature independently over the encoded policy.
	assert.Equal(t, hmacSHA1(testCreds.SecretKey, parts[2]), parts[1])
}

func TestUploadToken_Deterministic(t *testing.T) {
	first := UploadToken(testCreds, 1700000000)
	second := UploadToken(testCreds, 1700000000)
	assert.Equal(t, first, second)

	assert.NotEqual(t, first, UploadToken(testCreds, 1700003600),
		"a different deadline must produce a different token")

	other := testCreds
	other.SecretKey = "another-secret"
	assert.NotEqual(t, first, UploadToken(other, 1700000000),
		"a different secret must produce a different token")
}

func TestUploadToken_EmptySecretStillSigns(t *testing.T) {
	creds := testCreds
	creds.SecretKey = ""
	token := UploadToken(creds, 1700000000)
	assert.Len(t, strings.Split(token, ":"), 3)
}

func TestDownloadURL_Format(t *testing.T) {
	url := DownloadURL(testCreds, 1700000000)

	base := "http://cdn.example.com/knowledge.json"
	expectedSig := hmacSHA1(testCreds.SecretKey, fmt.Sprintf("%s?e=%d", base, 1700000000))
	expected := fmt.Sprintf("%s?e=%d&token=%s:%s", base, 1700000000, testCreds.AccessKey, expectedSig)
	assert.Equal(t, expected, url)
}

func TestObjectURL_Normalization(t *testing.T) {
	cases := []struct {
		domain string
		want   string
	}{
		{"cdn.example.com", "http://cdn.example.com/knowledge.json"},
		{"cdn.example.com/", "http://cdn.example.com/knowledge.json"},
		{"http://cdn.example.com", "http://cdn.example.com/knowledge.json"},
		{"https://cdn.example.com/", "https://cdn.example.com/knowledge.json"},
	}
	for _, tc := range cases {
		creds := testCreds
		creds.Domain = tc.domain
		assert.Equal(t, tc.want, ObjectURL(creds), "domain %q", tc.domain)
	}
}

func TestDeadline(t *testing.T) {
	now := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	assert.Equal(t, now.Unix()+3600, Deadline(now))
}
