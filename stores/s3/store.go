// Package s3 keeps the document as a single object in an AWS S3 bucket. It
// is an alternative to the token-signed HTTP backend for deployments that
// already live on AWS; the sync semantics are identical.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"

	"kbcloud/core"
)

type Store struct {
	client *awss3.Client
	bucket string
	key    string
}

// NewStore creates an S3-backed store for one bucket/key pair. Credentials
// come from the default AWS config chain, not from StorageCredentials.
func NewStore(bucket, key string) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Store{
		client: awss3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
	}, nil
}

func (s *Store) Load(ctx context.Context) (*core.Document, error) {
	resp, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, core.ErrDocumentNotFound
		}
		return nil, &core.StoreError{Op: "download", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.StoreError{Op: "download", Err: err}
	}
	return core.DecodeDocument(data)
}

func (s *Store) Save(ctx context.Context, doc *core.Document) error {
	data, err := core.EncodeDocument(doc)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return &core.StoreError{Op: "upload", Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"key":    s.key,
		"bytes":  len(data),
	}).Info("Document uploaded")
	return nil
}
