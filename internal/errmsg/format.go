// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Timeline operations
	OpClipAppend   Op = "append clip"
	OpClipRelocate Op = "move clip"
	OpZoom         Op = "change zoom"

	// Media operations
	OpMediaScan  Op = "scan media folder"
	OpMediaLoad  Op = "load media folder"
	OpMediaProbe Op = "probe media"

	// Preview operations
	OpPreviewLoad  Op = "load preview"
	OpPreviewStill Op = "show still"

	// Catalog
	OpCatalogOpen Op = "open media catalog"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
