package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/server/config"
	"github.com/dmitrijs2005/punchkeeper/internal/validator"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// Upload kinds accepted by UploadService.
const (
	KindPunchPhoto         = "punch-photo"
	KindAdjustmentDocument = "adjustment-document"
	KindReceipt            = "receipt"
)

// Upload is a reserved object key and the presigned URL to PUT it to.
type Upload struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// UploadService hands out presigned PUT URLs for attachments.
type UploadService struct {
	config *config.Config
	now    func() time.Time
}

func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{config: cfg, now: time.Now}
}

// StorageKey builds "tenant/kind/yyyy/mm/uuid" for a new attachment.
func StorageKey(tenantID, kind string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%04d/%02d/%v", tenantID, kind, at.Year(), at.Month(), uuid.New())
}

func (s *UploadService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// CreateUpload reserves a key for an attachment of the given kind and
// content type and presigns a PUT for it.
func (s *UploadService) CreateUpload(ctx context.Context, tenantID, kind, contentType string) (*Upload, error) {
	if err := validateUpload(kind, contentType); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bucket := s.config.S3Bucket
	key := StorageKey(tenantID, kind, now)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.config.UploadURLValidity))
	if err != nil {
		return nil, err
	}

	return &Upload{Key: key, URL: req.URL, ExpiresAt: now.Add(s.config.UploadURLValidity)}, nil
}

func validateUpload(kind, contentType string) error {
	var errs validator.ValidationErrors
	switch kind {
	case KindPunchPhoto, KindAdjustmentDocument, KindReceipt:
	default:
		errs.Add("kind", "is not a known upload kind")
	}
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.TrimSpace(mediaType)
	if !strings.HasPrefix(mediaType, "image/") && mediaType != "application/pdf" {
		errs.Add("content_type", "must be an image or a PDF")
	}
	return errs.Err()
}
