package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
)

// SpacesBackend reads media from a DigitalOcean Spaces (S3-compatible) bucket.
type SpacesBackend struct {
	client s3iface.S3API
	bucket string
	prefix string
}

func NewSpacesBackend(endpoint, region, bucket, prefix, accessKey, secretKey string) (*SpacesBackend, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return NewSpacesBackendWithClient(s3.New(sess), bucket, prefix), nil
}

func NewSpacesBackendWithClient(client s3iface.S3API, bucket, prefix string) *SpacesBackend {
	return &SpacesBackend{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *SpacesBackend) key(name string) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return clean, nil
	}
	return s.prefix + "/" + clean, nil
}

func (s *SpacesBackend) Stat(ctx context.Context, name string) (Info, error) {
	key, err := s.key(name)
	if err != nil {
		return Info{}, err
	}
	out, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Info{}, mapS3Error(err)
	}
	info := Info{
		Name:        name,
		Size:        aws.Int64Value(out.ContentLength),
		ModTime:     aws.TimeValue(out.LastModified),
		ContentType: ContentTypeFor(name),
	}
	return info, nil
}

func (s *SpacesBackend) Open(ctx context.Context, name string, offset, length int64) (io.ReadCloser, error) {
	key, err := s.key(name)
	if err != nil {
		return nil, err
	}
	in := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if length > 0 {
		in.Range = aws.String(fmt.Sprintf("bytes=%d-%d", offset, offset+length-1))
	}
	out, err := s.client.GetObjectWithContext(ctx, in)
	if err != nil {
		return nil, mapS3Error(err)
	}
	return out.Body, nil
}

func mapS3Error(err error) error {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return apperr.NotFound("media not found")
		}
	}
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return apperr.NotFound("media not found")
	}
	return apperr.Internal("object storage request failed", err)
}
