package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageName builds the object path for a submission attachment. The
// randomized suffix keeps concurrent uploads of the same filename from
// colliding.
func StorageName(submissionID int, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("submission_%d/%s%s", submissionID, uuid.NewString(), ext)
}
