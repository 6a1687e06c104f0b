package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a canonical node identifier.
// Node ids become XML attributes, diagram cell references, and cache key
// fragments, so the rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidNode, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateArtifactName validates an artifact name for the store contract.
// It ensures the name is a simple basename without path components, so a
// store backend can never be tricked into writing outside its root.
func ValidateArtifactName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidArtifact, "artifact name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidArtifact, "artifact name too long (max 256 characters)")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidArtifact, "artifact name cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidArtifact, "artifact name cannot contain path traversal sequences (..)")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidArtifact, "artifact name cannot be a hidden file")
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidArtifact, "artifact name contains invalid characters")
		}
	}

	return nil
}

// vendorTagRegex matches valid source vendor tags.
var vendorTagRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateVendorTag validates a source family tag.
// Tags appear in metadata, cache keys, and export attributes and must be
// simple lowercase identifiers.
func ValidateVendorTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidVendor, "vendor tag cannot be empty")
	}

	if len(tag) > 64 {
		return New(ErrCodeInvalidVendor, "vendor tag too long (max 64 characters)")
	}

	if !vendorTagRegex.MatchString(tag) {
		return New(ErrCodeInvalidVendor, "invalid vendor tag: %q", tag)
	}

	return nil
}
