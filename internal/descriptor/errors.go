package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCoordinateNotFound is returned when pom.xml lacks a groupId or
// artifactId.
var ErrCoordinateNotFound = errors.New("project coordinate not found")

// PersistenceUnitNotFoundError is returned when persistence.xml has no unit
// with the requested name.
type PersistenceUnitNotFoundError struct {
	Unit      string
	Available []string
}

func (e *PersistenceUnitNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("persistence unit %q not found (descriptor declares none)", e.Unit)
	}
	return fmt.Sprintf("persistence unit %q not found (have %s)", e.Unit, strings.Join(e.Available, ", "))
}

// ServletConfigConflictError is returned when web.xml already binds a servlet
// name or url pattern in a way that contradicts the requested entry.
type ServletConfigConflictError struct {
	Servlet string
	Pattern string
	Reason  string
}

func (e *ServletConfigConflictError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("servlet %q, pattern %q: %s", e.Servlet, e.Pattern, e.Reason)
	}
	return fmt.Sprintf("servlet %q: %s", e.Servlet, e.Reason)
}
