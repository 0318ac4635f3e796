package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateID builds a local record id such as "show_1718000000000_3f2a9c1b0d".
// The millisecond prefix keeps ids roughly creation ordered.
func GenerateID(prefix string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), random)
}

func GenerateShowID() string {
	return GenerateID("show")
}

func GenerateBookingID() string {
	return GenerateID("booking")
}

func GenerateSyncID() string {
	return uuid.NewString()
}
