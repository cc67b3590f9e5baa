// Package qiniu persists the document in a Kodo-style object storage bucket
// reachable over plain HTTP: multipart form uploads authorized by an upload
// token, downloads through signed time-boxed URLs.
package qiniu

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/sirupsen/logrus"

	"kbcloud/core"
	"kbcloud/signer"
)

// requestTimeout bounds every load/save call; the storage service itself only
// enforces the one-hour token window.
const requestTimeout = 30 * time.Second

var regionUploadHosts = map[string]string{
	"z0":  "https://up.qiniup.com",
	"z1":  "https://up-z1.qiniup.com",
	"z2":  "https://up-z2.qiniup.com",
	"na0": "https://up-na0.qiniup.com",
	"as0": "https://up-as0.qiniup.com",
}

type Store struct {
	creds      core.StorageCredentials
	uploadHost string
	client     *http.Client
	now        func() time.Time
}

// NewStore creates a store for the object named by the credentials.
func NewStore(creds core.StorageCredentials) *Store {
	host, ok := regionUploadHosts[creds.Region]
	if !ok {
		host = regionUploadHosts["z0"]
		logrus.WithField("region", creds.Region).Warn("Unknown storage region, using default upload host")
	}
	return &Store{
		creds:      creds,
		uploadHost: host,
		client:     &http.Client{Timeout: requestTimeout},
		now:        time.Now,
	}
}

// Load fetches and decodes the remote document. A 404 means the object was
// never created and is reported as core.ErrDocumentNotFound, not a failure.
func (s *Store) Load(ctx context.Context) (*core.Document, error) {
	now := s.now()
	// The extra t parameter defeats intermediary caches between us and the
	// bucket; the signature does not cover it.
	url := fmt.Sprintf("%s&t=%d", signer.DownloadURL(s.creds, signer.Deadline(now)), now.UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &core.StoreError{Op: "download", Err: err}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &core.StoreError{Op: "download", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		logrus.WithField("filename", s.creds.Filename).Info("Remote object does not exist yet")
		return nil, core.ErrDocumentNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.StoreError{Op: "download", Err: fmt.Errorf("%s: %s", resp.Status, readSnippet(resp.Body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.StoreError{Op: "download", Err: err}
	}
	return core.DecodeDocument(body)
}

// Save serializes the document and uploads it whole, overwriting the object.
// A fresh token is signed per attempt so retries after the one-hour window
// are not rejected by the service. Retrying is the caller's policy.
func (s *Store) Save(ctx context.Context, doc *core.Document) error {
	data, err := core.EncodeDocument(doc)
	if err != nil {
		return err
	}
	token := signer.UploadToken(s.creds, signer.Deadline(s.now()))

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("key", s.creds.Filename); err != nil {
		return &core.StoreError{Op: "upload", Err: err}
	}
	if err := form.WriteField("token", token); err != nil {
		return &core.StoreError{Op: "upload", Err: err}
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, s.creds.Filename))
	header.Set("Content-Type", "application/json")
	part, err := form.CreatePart(header)
	if err != nil {
		return &core.StoreError{Op: "upload", Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return &core.StoreError{Op: "upload", Err: err}
	}
	if err := form.Close(); err != nil {
		return &core.StoreError{Op: "upload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadHost, &body)
	if err != nil {
		return &core.StoreError{Op: "upload", Err: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return &core.StoreError{Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &core.StoreError{Op: "upload", Err: fmt.Errorf("%s: %s", resp.Status, readSnippet(resp.Body))}
	}

	logrus.WithFields(logrus.Fields{
		"filename": s.creds.Filename,
		"bytes":    len(data),
	}).Info("Document uploaded")
	return nil
}

func readSnippet(r io.Reader) string {
	snippet, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(bytes.TrimSpace(snippet))
}
