package editor

import (
	"fmt"
	"strings"

	"docsync/internal/apperr"
	"docsync/internal/models"
)

// Patcher applies literal find/replace operations to a document body.
// Each change replaces the first occurrence of OldString in the text produced
// by the previous change. Changes with an empty OldString or NewString are skipped.
// With Strict unset, a change whose OldString is absent is a no-op.
type Patcher struct {
	Strict bool
}

// Apply runs changes against original and never fails.
func (p Patcher) Apply(original string, changes []models.ContentChange) string {
	out, _ := p.apply(original, changes, false)
	return out
}

// ApplyChecked behaves like Apply but, when Strict is set, reports the first
// change whose OldString is missing from the current text.
func (p Patcher) ApplyChecked(original string, changes []models.ContentChange) (string, error) {
	return p.apply(original, changes, p.Strict)
}

func (p Patcher) apply(original string, changes []models.ContentChange, strict bool) (string, error) {
	text := original
	for i, change := range changes {
		if change.OldString == "" || change.NewString == "" {
			continue
		}
		if !strings.Contains(text, change.OldString) {
			if strict {
				return original, apperr.Validation("changes", fmt.Sprintf("change %d: old_string not found in document", i+1))
			}
			continue
		}
		text = strings.Replace(text, change.OldString, change.NewString, 1)
	}
	return text, nil
}

// CheckUnique verifies that every change matches exactly once when the changes
// are applied in order to content. Changes Patcher would skip are rejected.
func CheckUnique(content string, changes []models.ContentChange) error {
	text := content
	for i, change := range changes {
		if change.OldString == "" {
			return apperr.Validation("changes", fmt.Sprintf("change %d: old_string is empty", i+1))
		}
		if change.NewString == "" {
			return apperr.Validation("changes", fmt.Sprintf("change %d: new_string is empty", i+1))
		}
		switch n := strings.Count(text, change.OldString); n {
		case 1:
			text = strings.Replace(text, change.OldString, change.NewString, 1)
		case 0:
			return apperr.Validation("changes", fmt.Sprintf("change %d: old_string not found", i+1))
		default:
			return apperr.Validation("changes", fmt.Sprintf("change %d: old_string matches %d times", i+1, n))
		}
	}
	return nil
}
