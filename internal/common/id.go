package common

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// JobID derives the deterministic job identifier for a listing.
// The hash covers source and URL so reruns of the same search dedupe;
// listings without a URL fall back to source, title and company.
func JobID(source, url, title, company string) string {
	var key string
	if url != "" {
		key = source + "|" + url
	} else {
		key = source + "|" + title + "|" + company
	}
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// NewTaskID generates a short random identifier for a search task
func NewTaskID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
