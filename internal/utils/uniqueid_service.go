package utils

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// UniqueIDService provides ID generation functionality
type UniqueIDService struct{}

// UniqueIDSvc is the shared instance used across services.
var UniqueIDSvc = &UniqueIDService{}

// GenerateID creates an ID with the following pattern:
//   - The provided prefix (e.g. "TK" for tasks)
//   - Followed by 2 random digits [0-9]
//   - Followed by 9 random alphanumeric [0-9a-z]
//
// Example output with prefix "TK": TK12ABC345XY
func (s *UniqueIDService) GenerateID(prefix string) (string, error) {
	digits := "0123456789"
	alnum := "0123456789abcdefghijklmnopqrstuvwxyz"

	twoDigits, err := gonanoid.Generate(digits, 2)
	if err != nil {
		return "", fmt.Errorf("failed to generate two digits: %w", err)
	}

	nineAlnum, err := gonanoid.Generate(alnum, 9)
	if err != nil {
		return "", fmt.Errorf("failed to generate alphanumeric part: %w", err)
	}

	return strings.ToUpper(prefix + twoDigits + nineAlnum), nil
}

// GenerateUniqueID is a convenience wrapper over the shared instance.
func GenerateUniqueID(prefix string) (string, error) {
	return UniqueIDSvc.GenerateID(prefix)
}
