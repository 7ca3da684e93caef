package store

import (
	"fmt"

	"github.com/worldbox/worldbox/internal/schema"
)

// ValidationError reports a rejected write: an unknown column, a value that
// does not match its column type, or an all-null row colliding with the
// headguard. Writes that fail validation leave the table untouched.
type ValidationError struct {
	Namespace schema.Namespace
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for namespace %q: %s", e.Namespace, e.Reason)
}

// NotFoundError reports a lookup or delete predicate that matched nothing.
// Callers that mean "delete if exists" check for this kind with errors.As
// and treat it as nothing-to-do; anywhere else it indicates missing data.
type NotFoundError struct {
	Namespace schema.Namespace
	Detail    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no rows found in namespace %q: %s", e.Namespace, e.Detail)
}
