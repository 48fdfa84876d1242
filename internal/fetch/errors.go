package fetch

import (
	"errors"
	"fmt"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

// ErrInvalidReference indicates the post reference is neither a status URL nor
// a bare numeric ID.
var ErrInvalidReference = errors.New("fetch: cannot extract tweet ID from reference")

// PassError reports that one relation's fetch pass could not complete. Pages
// persisted before the failure remain committed; the watermark is untouched.
type PassError struct {
	Relation store.Relation
	Mode     Mode
	Err      error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("%s %s pass failed: %v", e.Relation, e.Mode, e.Err)
}

func (e *PassError) Unwrap() error {
	return e.Err
}
