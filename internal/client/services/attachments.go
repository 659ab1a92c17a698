package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/punchkeeper/internal/client/client"
	"github.com/dmitrijs2005/punchkeeper/internal/filex"
	"github.com/dmitrijs2005/punchkeeper/internal/netx"
)

const (
	KindAdjustmentDocument = "adjustment-document"
	KindReceipt            = "receipt"
	KindPunchPhoto         = "punch-photo"
)

// Uploader pushes a local file to object storage through a presigned URL
// and returns the object key to reference it by.
type Uploader struct {
	client client.Client
	http   *http.Client
}

func NewUploader(c client.Client, httpClient *http.Client) *Uploader {
	return &Uploader{client: c, http: httpClient}
}

func (u *Uploader) Upload(ctx context.Context, tenantID, kind, path string) (string, error) {
	body, contentType, err := filex.ReadAttachment(path)
	if err != nil {
		return "", err
	}

	slot, err := u.client.CreateUpload(ctx, tenantID, kind, contentType)
	if err != nil {
		return "", fmt.Errorf("reserve upload: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, u.http, slot.URL, contentType, body); err != nil {
		return "", fmt.Errorf("%w: %v", client.ErrUnavailable, err)
	}
	return slot.Key, nil
}
