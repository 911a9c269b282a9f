package store

import (
	"time"

	"github.com/google/uuid"
)

// NewOrderRef builds a unique order reference, e.g. 20250908130500-<uuid4>.
func NewOrderRef(now time.Time) string {
	return now.Format("20060102150405") + "-" + uuid.NewString()
}
