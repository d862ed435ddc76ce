// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/staranto/regctl/internal/backend"
)

// API is the subset of the S3 client the store needs.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store keeps each variable as an object at <bucket>/<prefix>/<name>.
type Store struct {
	api    API
	Bucket string
	Prefix string
}

// Option customizes a Store.
type Option func(*Store)

// WithPrefix sets the key prefix objects are written under.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.Prefix = prefix }
}

// NewStore returns a store writing to bucket through api.
func NewStore(api API, bucket string, opts ...Option) (*Store, error) {
	if api == nil {
		return nil, errors.New("s3: client is nil")
	}
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	s := &Store{api: api, Bucket: bucket}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Key returns the object key backing the named variable.
func (s *Store) Key(name string) string {
	if s.Prefix == "" {
		return name
	}
	return path.Join(s.Prefix, name)
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, bool, error) {
	key := s.Key(name)
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, s.fail("get", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, s.fail("get", key, err)
	}
	return data, true, nil
}

func (s *Store) Set(ctx context.Context, name string, value []byte) error {
	key := s.Key(name)
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return s.fail("put", key, err)
	}
	log.Debugf("put s3://%s/%s (%d bytes)", s.Bucket, key, len(value))
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	key := s.Key(name)
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return s.fail("delete", key, err)
	}
	return nil
}

func (s *Store) String() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Prefix)
}

// fail converts an SDK error into a QueryError carrying the HTTP status code
// as the native code.
func (s *Store) fail(op, key string, err error) error {
	code := 0
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		code = re.HTTPStatusCode()
	}
	msg := err.Error()
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		msg = fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return &backend.QueryError{
		Op:      op,
		Section: fmt.Sprintf("s3://%s/%s", s.Bucket, key),
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
