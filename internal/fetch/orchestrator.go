package fetch

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	log "github.com/sirupsen/logrus"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

var (
	statusURLRe = regexp.MustCompile(`/status/(\d+)`)
	bareIDRe    = regexp.MustCompile(`^\d+$`)
)

// ResolveTweetID extracts the canonical tweet ID from a status URL or returns
// a bare numeric ID as-is. Anything else is an ErrInvalidReference.
func ResolveTweetID(ref string) (string, error) {
	if m := statusURLRe.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if bareIDRe.MatchString(ref) {
		return ref, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidReference, ref)
}

// Report aggregates the per-relation outcomes of one run. A failed relation
// does not abort the other; partial success is a valid, reported outcome.
type Report struct {
	ParentID string
	Mode     Mode
	Passes   []*PassResult
	Errors   []*PassError
}

// Fetched returns the number of tweets written for a relation this run.
func (r *Report) Fetched(relation store.Relation) int {
	for _, p := range r.Passes {
		if p != nil && p.Relation == relation {
			return p.Fetched
		}
	}
	return 0
}

// Failed reports whether any relation's pass failed.
func (r *Report) Failed() bool {
	return len(r.Errors) > 0
}

// FailedRelations lists the relations whose passes failed.
func (r *Report) FailedRelations() []store.Relation {
	var rels []store.Relation
	for _, e := range r.Errors {
		rels = append(rels, e.Relation)
	}
	return rels
}

// Orchestrator resolves a post reference and runs one pass per relation.
type Orchestrator struct {
	pager *Pager
}

// NewOrchestrator creates an Orchestrator over the given pager.
func NewOrchestrator(pager *Pager) *Orchestrator {
	return &Orchestrator{pager: pager}
}

// Run fetches replies and quotes for the referenced post in the given mode.
// The two relations use independent watermark keys, so each pass runs even if
// the other fails; only an unparseable reference aborts the whole run.
func (o *Orchestrator) Run(ctx context.Context, postRef string, mode Mode) (*Report, error) {
	parentID, err := ResolveTweetID(postRef)
	if err != nil {
		return nil, err
	}

	report := &Report{ParentID: parentID, Mode: mode}
	for _, relation := range []store.Relation{store.RelationReply, store.RelationQuote} {
		res, err := o.pager.Run(ctx, parentID, relation, mode)
		report.Passes = append(report.Passes, res)
		if err != nil {
			var passErr *PassError
			if !errors.As(err, &passErr) {
				passErr = &PassError{Relation: relation, Mode: mode, Err: err}
			}
			report.Errors = append(report.Errors, passErr)
			log.WithError(err).WithField("relation", relation).Error("pass failed")
		}
	}

	return report, nil
}
