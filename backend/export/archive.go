package export

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/google/uuid"
)

// Archiver keeps a copy of every generated export.
type Archiver interface {
	Archive(ctx context.Context, key string, body []byte) error
}

// ArchiveKey is exports/<username>/<uuid>.xlsx. The username is path-escaped so it
// always stays a single key segment.
func ArchiveKey(username string) string {
	return fmt.Sprintf("exports/%s/%s.xlsx", url.PathEscape(username), uuid.NewString())
}

type S3Archiver struct {
	Uploader s3manageriface.UploaderAPI
	Bucket   string
}

func (a *S3Archiver) Archive(ctx context.Context, key string, body []byte) error {
	out, err := a.Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(ContentTypeXLSX),
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3: %w", key, err)
	}
	log.Printf("Archived export to %s", out.Location)
	return nil
}

// NopArchiver is used when no export bucket is configured.
type NopArchiver struct{}

func (NopArchiver) Archive(context.Context, string, []byte) error { return nil }
