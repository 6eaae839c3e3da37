package source

import (
	"fmt"
	"sort"
)

// ValidationError represents a specific validation failure in a variant
// file.
type ValidationError struct {
	// Field is the path of the offending entry (e.g., "directories.cache").
	Field string

	// Message describes what's wrong with the entry.
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a decoded variant and returns every problem found (empty
// list = valid variant).
//
// Checks performed:
//   - directory names must not be empty
//   - directory paths must not be empty
func Validate(raw *rawVariant) []ValidationError {
	var errs []ValidationError

	names := make([]string, 0, len(raw.Directories))
	for name := range raw.Directories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "" {
			errs = append(errs, ValidationError{
				Field:   "directories",
				Message: "directory name must not be empty",
			})
			continue
		}
		if raw.Directories[name] == "" {
			errs = append(errs, ValidationError{
				Field:   "directories." + name,
				Message: "directory path must not be empty",
			})
		}
	}

	return errs
}

func toErrors(errs []ValidationError) []error {
	out := make([]error, 0, len(errs))
	for i := range errs {
		out = append(out, &errs[i])
	}
	return out
}
