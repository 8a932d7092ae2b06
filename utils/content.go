package utils

import "strings"

// FormatContent sanitizes user-submitted post content and converts literal
// line breaks to <br> markup for storage.
func FormatContent(content string) string {
	return strings.ReplaceAll(Sanitize(content), "\n", "<br>")
}

// ReformatContent returns stored content to its editable form, converting
// <br> markup back to line breaks.
func ReformatContent(content string) string {
	return strings.ReplaceAll(content, "<br>", "\n")
}
