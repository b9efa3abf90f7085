package aws

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores exports in a bucket.
type Uploader struct {
	putter ObjectPutter
	bucket string
	prefix string
	log    *slog.Logger
}

// NewUploader returns an uploader writing under prefix in bucket.
func NewUploader(p ObjectPutter, bucket, prefix string, log *slog.Logger) (*Uploader, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, ErrNoBucket
	}
	if log == nil {
		log = slog.Default()
	}
	return &Uploader{
		putter: p,
		bucket: bucket,
		prefix: prefix,
		log:    log.With("component", "s3", "bucket", bucket),
	}, nil
}

// ObjectKey joins the prefix and the object name.
func ObjectKey(prefix, name string) string {
	return strings.TrimPrefix(path.Join(prefix, name), "/")
}

// Upload stores body under the given name and returns the object URI.
func (u *Uploader) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	key := ObjectKey(u.prefix, name)
	out, err := u.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", WrapAWSError(err, fmt.Sprintf("upload s3://%s/%s", u.bucket, key))
	}
	u.log.Info("export uploaded", "key", key, "etag", aws.ToString(out.ETag))

	return fmt.Sprintf("s3://%s/%s", u.bucket, key), nil
}
