package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Input validation utilities for uploads and account fields.

// MaxUploadBytes caps screenshot uploads at 10MB.
const MaxUploadBytes = 10 << 20

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// ValidateImageFilename checks the upload extension against the allowed
// image set. Anything else is rejected before a record is created.
func ValidateImageFilename(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedImageExts[ext] {
		return fmt.Errorf("only image files are allowed (png, jpg, jpeg, gif, webp), got %q", ext)
	}
	return nil
}

// ValidateImageMIME checks the declared Content-Type of the upload part.
// Empty is tolerated (some clients omit it); a declared non-image type is not.
func ValidateImageMIME(contentType string) error {
	if contentType == "" {
		return nil
	}
	mime := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mime {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
		return nil
	}
	return fmt.Errorf("unsupported content type %q", mime)
}

// ValidateUploadSize checks the reported part size against the 10MB cap.
func ValidateUploadSize(size int64) error {
	if size > MaxUploadBytes {
		return fmt.Errorf("file too large: %d bytes (max %d)", size, MaxUploadBytes)
	}
	return nil
}

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail does a light shape check, not RFC validation.
func ValidateEmail(email string) error {
	if !emailRx.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// SanitizeString removes null bytes and control characters from free text.
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
