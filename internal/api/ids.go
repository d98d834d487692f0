package api

import (
	"strings"

	"github.com/google/uuid"
)

func newID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
