package models

import (
	"fmt"
	"strings"

	"github.com/AnshRaj112/mindjourney-backend/pkg/utils"
)

// MaxImageBytes caps journal image attachments at 5 MiB.
const MaxImageBytes = 5 << 20

// ValidateEntryText rejects text that is empty after trimming.
func ValidateEntryText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &utils.ValidationError{Field: "text", Message: "Journal text is required"}
	}
	return nil
}

// ValidateImage checks the declared content type and size of an attachment.
func ValidateImage(contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return &utils.ValidationError{Field: "image", Message: "Please select a valid image file"}
	}
	if size > MaxImageBytes {
		return &utils.ValidationError{Field: "image", Message: fmt.Sprintf("Image size should be less than %dMB", MaxImageBytes>>20)}
	}
	return nil
}

// ValidateMood rejects labels outside the enumeration.
func ValidateMood(s string) (Mood, error) {
	if strings.TrimSpace(s) == "" {
		return "", &utils.ValidationError{Field: "mood", Message: "Mood is required"}
	}
	m, ok := ParseMood(s)
	if !ok {
		return "", &utils.ValidationError{Field: "mood", Message: "Mood must be one of happy, sad, anxious, angry, tired, neutral"}
	}
	return m, nil
}
