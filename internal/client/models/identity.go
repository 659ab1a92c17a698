package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProvisionalPrefix tags ids minted locally before the server confirmed the
// record. Such ids are never matched against remote ids.
const ProvisionalPrefix = "temp-"

func NewProvisionalID() string {
	return ProvisionalPrefix + uuid.NewString()
}

func IsProvisional(id string) bool {
	return strings.HasPrefix(id, ProvisionalPrefix)
}

// Scope identifies whose data a call reads or writes.
type Scope struct {
	TenantID string
	UserID   string
}

// CacheKey names the cached payload of kind for this scope.
func (s Scope) CacheKey(kind string) string {
	return kind + ":" + s.TenantID + ":" + s.UserID
}

// Upload is a presigned slot for an attachment.
type Upload struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}
