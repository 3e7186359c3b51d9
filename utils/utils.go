package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GeneratePaymentID builds a unique payment reference, PAY_<timestamp>_<random>.
func GeneratePaymentID() string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("PAY_%d_%s", time.Now().Unix(), random)
}
