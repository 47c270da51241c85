package application

import (
	"strings"

	"github.com/felixgeelhaar/maitre/domain/task"
)

// ordinalWords maps spoken ordinals to shortlist positions.
var ordinalWords = map[string]int{
	"1": 0, "one": 0, "first": 0, "uno": 0, "primero": 0, "primer": 0,
	"2": 1, "two": 1, "second": 1, "dos": 1, "segundo": 1,
	"3": 2, "three": 2, "third": 2, "tres": 2, "tercero": 2,
}

// ParseSelection maps free-form human text to one of the shortlisted
// candidates. It accepts an ordinal ("2", "second") or a venue name
// contained in the message, case-insensitively. Returns nil when the
// message matches nothing; the caller re-asks rather than guessing.
func ParseSelection(message string, shortlist []task.Candidate) *task.Candidate {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" || len(shortlist) == 0 {
		return nil
	}

	if idx, ok := ordinalWords[normalized]; ok {
		if idx < len(shortlist) {
			c := shortlist[idx]
			return &c
		}
		return nil
	}

	for _, c := range shortlist {
		if c.Name != "" && strings.Contains(normalized, strings.ToLower(c.Name)) {
			selected := c
			return &selected
		}
	}

	return nil
}
