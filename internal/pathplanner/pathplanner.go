// Package pathplanner implements capability.PathPlanner as an identity
// placement function, a deterministic stand-in for a model-hosted planner
// that would derive placement from the file's description. The interface
// stays pluggable for a real model-hosted implementation.
package pathplanner

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ingestd/ingestd/internal/capability"
)

// Planner is the identity PathPlanner: it derives a deterministic
// placement from the file's modality and collection hint rather than
// calling out to a model.
type Planner struct {
	Modality       string
	CollectionHint string
}

var _ capability.PathPlanner = (*Planner)(nil)

// New returns a Planner that places files under
// {modality}/{collection}/{original_name}.
func New(modality, collectionHint string) *Planner {
	return &Planner{Modality: modality, CollectionHint: collectionHint}
}

var sanitizePattern = regexp.MustCompile(`[\\/:*?"<>|]`)
var whitespacePattern = regexp.MustCompile(`\s+`)

// sanitizeSegment replaces path-hostile characters with "-" and collapses
// whitespace, so a planner's output is always safe to join into a relative
// path.
func sanitizeSegment(segment string) string {
	cleaned := sanitizePattern.ReplaceAllString(segment, "-")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(cleaned, " "))
}

// Plan ignores description (a real planner would derive persona/domain/
// category/topic from it) and returns the fixed modality/collection
// placement, with filename sanitized.
func (p *Planner) Plan(ctx context.Context, description, filename string) (capability.PlannedPath, error) {
	sanitizedName := sanitizeSegment(filename)
	relative := filepath.ToSlash(filepath.Join(p.Modality, p.CollectionHint, sanitizedName))
	return capability.PlannedPath{
		RelativePath:   relative,
		CollectionHint: p.CollectionHint,
	}, nil
}
