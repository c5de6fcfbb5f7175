package status

import (
	"fmt"
)

// FileFormatter defines how outcomes and progress are rendered as one-line messages
type FileFormatter interface {
	// FormatOutcome formats the result of processing one file
	FormatOutcome(o FileOutcome, dryRun bool) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatOutcome formats a file outcome with emojis
func (f *DefaultFileFormatter) FormatOutcome(o FileOutcome, dryRun bool) string {
	switch o.Status {
	case StatusModified:
		verb := "Updated"
		if dryRun {
			verb = "Would update"
		}
		return fmt.Sprintf("📝 %s %s (%d replacements)", verb, o.Path, o.Replacements)
	case StatusFailed:
		if o.Err != nil {
			return fmt.Sprintf("❌ Failed %s [%s]", o.Path, o.Err.Kind)
		}
		return fmt.Sprintf("❌ Failed %s", o.Path)
	case StatusSkipped:
		return fmt.Sprintf("⏭️  Skipped %s", o.Path)
	case StatusRemoved:
		if dryRun {
			return fmt.Sprintf("🗑️  Would remove %s", o.Path)
		}
		return fmt.Sprintf("🗑️  Removed %s", o.Path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", o.Path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
