package server

import (
	"fmt"
	"regexp"
	"strings"

	"spry/internal/models"
)

var idRegex = regexp.MustCompile(`^[a-z]{2}-[0-9a-z]{4}$`)

// validateID checks the generic id shape and, when prefix is
// non-empty, the entity prefix as well.
func validateID(id, prefix string) bool {
	if !idRegex.MatchString(id) {
		return false
	}
	return prefix == "" || strings.HasPrefix(id, prefix+"-")
}

func normalizeStatus(value string) (models.TaskStatus, error) {
	status, err := models.ParseTaskStatus(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidStatus)
	}
	return status, nil
}

func normalizeType(value string) (models.TaskType, error) {
	taskType, err := models.ParseTaskType(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidType)
	}
	return taskType, nil
}

func normalizePriority(value string) (models.Priority, error) {
	priority, err := models.ParsePriority(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidPriority)
	}
	return priority, nil
}

func validatePoints(value float64) error {
	if value < 0 {
		return badRequestCode(fmt.Errorf("points must be >= 0"), ErrCodeInvalidPoints)
	}
	return nil
}

func validateHours(value float64) error {
	if value < 0 {
		return badRequestCode(fmt.Errorf("hours must be >= 0"), ErrCodeInvalidPoints)
	}
	return nil
}

func normalizePrefix(prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) != 2 {
		return "", fmt.Errorf("project prefix must be 2 letters")
	}
	for _, r := range prefix {
		if r < 'a' || r > 'z' {
			return "", fmt.Errorf("project prefix must be lowercase letters")
		}
	}
	return prefix, nil
}
