package domain

import "fmt" // Error formatting

// CorruptRecordError reports a persisted record that cannot be loaded
type CorruptRecordError struct {
	Source string // File path or table name
	Line   int    // 1-based line number, 0 when the backend has no lines
	Text   string // Offending line, or card number for SQL rows
	Reason string // What is wrong with it
}

func (e *CorruptRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("corrupt record in %s line %d (%q): %s", e.Source, e.Line, e.Text, e.Reason)
	}
	return fmt.Sprintf("corrupt record in %s (%q): %s", e.Source, e.Text, e.Reason)
}
