// Package signer builds the HMAC-signed tokens the blob store expects.
//
// The storage service uses a symmetric scheme: an upload is authorized by a
// token derived from a JSON put-policy, and a private download by a signature
// over the object URL plus an expiry. Both are bound to a one-hour deadline,
// so callers must sign fresh per attempt instead of caching tokens.
package signer

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kbcloud/core"
)

// TokenTTL is the server-side validity window of every signed token.
const TokenTTL = time.Hour

type putPolicy struct {
	Scope    string `json:"scope"`
	Deadline int64  `json:"deadline"`
}

// Deadline returns the token expiry for a signature minted now, in epoch
// seconds (the clock base the verifying service uses).
func Deadline(now time.Time) int64 {
	return now.Add(TokenTTL).Unix()
}

// UploadToken authorizes overwriting the configured object until deadline.
// The scope names the fixed bucket:key pair, so repeated uploads replace the
// same object rather than minting new ones. The result has the form
// accessKey:signature:encodedPolicy.
func UploadToken(creds core.StorageCredentials, deadline int64) string {
	policy, _ := json.Marshal(putPolicy{
		Scope:    creds.Bucket + ":" + creds.Filename,
		Deadline: deadline,
	})
	encodedPolicy := base64.URLEncoding.EncodeToString(policy)
	signature := sign(creds.SecretKey, encodedPolicy)
	return creds.AccessKey + ":" + signature + ":" + encodedPolicy
}

// DownloadURL returns a time-boxed signed URL for the configured object:
// <url>?e=<deadline>&token=<accessKey>:<signature>.
func DownloadURL(creds core.StorageCredentials, deadline int64) string {
	url := ObjectURL(creds)
	signature := sign(creds.SecretKey, fmt.Sprintf("%s?e=%d", url, deadline))
	return fmt.Sprintf("%s?e=%d&token=%s:%s", url, deadline, creds.AccessKey, signature)
}

// ObjectURL builds the canonical object URL from the configured domain and
// filename: a scheme is prepended when absent and one trailing slash is
// stripped from the domain.
func ObjectURL(creds core.StorageCredentials) string {
	domain := creds.Domain
	if !strings.HasPrefix(domain, "http") {
		domain = "http://" + domain
	}
	domain = strings.TrimSuffix(domain, "/")
	return domain + "/" + creds.Filename
}

func sign(secret, payload string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}
