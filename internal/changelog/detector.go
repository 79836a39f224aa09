package changelog

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/rpattn/changelog/internal/auth"
	"github.com/rpattn/changelog/internal/domain"
)

// recordInternalFields are record fields whose churn is revision bookkeeping
// rather than content: version metadata, audit timestamps, ownership and the
// path alias.
var recordInternalFields = map[string]struct{}{
	"vid":                           {},
	"revision_timestamp":            {},
	"revision_uid":                  {},
	"revision_log":                  {},
	"revision_default":              {},
	"revision_translation_affected": {},
	"created":                       {},
	"changed":                       {},
	"uid":                           {},
	"path":                          {},
	"langcode":                      {},
	"default_langcode":              {},
}

// ChangeContext identifies the revision a detection pass is inspecting.
type ChangeContext struct {
	EntityKind string
	EntityID   int64
	RevisionID int64
}

// Detector compares two revisions of a record and appends one ChangeEntry per
// materially changed field to the log sink. Each DetectChanges call is a
// stateless pass over two immutable snapshots; a Detector may be shared
// across concurrent passes for unrelated records.
type Detector struct {
	paragraphs  ParagraphSource
	sink        LogSink
	stringifier *Stringifier
	now         func() time.Time
}

// DetectorOption customizes a Detector.
type DetectorOption func(*Detector)

// WithClock overrides the timestamp source, mainly for tests.
func WithClock(now func() time.Time) DetectorOption {
	return func(d *Detector) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDetector wires a detector from its collaborators.
func NewDetector(paragraphs ParagraphSource, files FileResolver, sink LogSink, opts ...DetectorOption) *Detector {
	detector := &Detector{
		paragraphs:  paragraphs,
		sink:        sink,
		stringifier: NewStringifier(files),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(detector)
	}
	return detector
}

// DetectChanges compares the updated revision against the original one and
// returns the change entries it appended to the sink. The original may be nil
// for a record's first revision, in which case every non-empty field counts
// as changed. The acting user is taken from the request context.
func (d *Detector) DetectChanges(ctx context.Context, updated, original RecordSource, ref ChangeContext) []domain.ChangeEntry {
	actorID, _ := auth.ActorIDFromContext(ctx)

	entries := []domain.ChangeEntry{}
	for _, name := range updated.FieldNames() {
		if _, excluded := recordInternalFields[name]; excluded {
			continue
		}
		def, ok := updated.FieldDefinition(name)
		if !ok {
			// Value without a definition is a contract violation upstream;
			// skip the comparison instead of failing the pass.
			log.Printf("[changelog] field %s has no definition on kind %s, skipping", name, ref.EntityKind)
			continue
		}

		var diff string
		if def.Type == domain.FieldTypeParagraphReference {
			diff = d.diffParagraphField(ctx, name, updated, original)
		} else {
			updatedValue := d.stringifier.Stringify(ctx, def, updated.FieldValue(name))
			var originalValue string
			if original != nil && original.HasField(name) {
				originalValue = d.stringifier.Stringify(ctx, def, original.FieldValue(name))
			}
			diff = Diff(originalValue, updatedValue)
		}
		if diff == "" {
			continue
		}

		entry := domain.ChangeEntry{
			EntityKind: ref.EntityKind,
			EntityID:   ref.EntityID,
			RevisionID: ref.RevisionID,
			FieldLabel: def.DisplayLabel(),
			DiffText:   diff,
			LoggedAt:   d.now(),
			ActorID:    actorID,
		}
		if err := d.sink.Append(ctx, entry); err != nil {
			log.Printf("[changelog] failed to append change entry for field %s on %s %d: %v",
				name, ref.EntityKind, ref.EntityID, err)
		}
		entries = append(entries, entry)
	}

	return entries
}

// diffParagraphField runs the nested algorithm: both sides' paragraph items
// are summarized into id-keyed maps, then classified as changed, deleted or
// added. Matching is by paragraph id only; ordering within the reference
// field carries no meaning. All blocks for the field collapse into one diff
// text so a changed field yields exactly one log row per revision.
func (d *Detector) diffParagraphField(ctx context.Context, name string, updated, original RecordSource) string {
	updatedSummaries := d.loadSummaries(ctx, updated.FieldValue(name))
	originalSummaries := map[int64]FieldSummary{}
	if original != nil && original.HasField(name) {
		originalSummaries = d.loadSummaries(ctx, original.FieldValue(name))
	}

	blocks := []string{}

	for _, id := range sortedIDs(originalSummaries) {
		updatedSummary, ok := updatedSummaries[id]
		if !ok {
			continue
		}
		blocks = append(blocks, diffSummaries(id, originalSummaries[id], updatedSummary)...)
	}

	for _, id := range sortedIDs(originalSummaries) {
		if _, ok := updatedSummaries[id]; ok {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Paragraph ID %d: Deleted", id))
	}

	for _, id := range sortedIDs(updatedSummaries) {
		if _, ok := originalSummaries[id]; ok {
			continue
		}
		blocks = append(blocks, addedBlock(id, updatedSummaries[id]))
	}

	return strings.Join(blocks, "\n\n")
}

func (d *Detector) loadSummaries(ctx context.Context, items []domain.FieldItem) map[int64]FieldSummary {
	summaries := make(map[int64]FieldSummary, len(items))
	for _, item := range items {
		id, ok := item.Int64Value("target_id")
		if !ok {
			continue
		}
		revision, err := d.loadParagraph(ctx, item, id)
		if err != nil {
			log.Printf("[changelog] skipping paragraph %d: %v", id, err)
			continue
		}
		summaries[id] = d.stringifier.BuildSummary(ctx, revision)
	}
	return summaries
}

// loadParagraph prefers the exact referenced revision and falls back to the
// paragraph's latest revision when the lookup fails.
func (d *Detector) loadParagraph(ctx context.Context, item domain.FieldItem, id int64) (domain.Revision, error) {
	if revisionID, ok := item.Int64Value("target_revision_id"); ok {
		revision, err := d.paragraphs.GetByRevision(ctx, revisionID)
		if err == nil {
			return revision, nil
		}
		log.Printf("[changelog] paragraph revision %d unavailable, falling back to latest of %d: %v",
			revisionID, id, err)
	}
	return d.paragraphs.GetLatest(ctx, id)
}

func diffSummaries(id int64, original, updated FieldSummary) []string {
	keys := map[string]struct{}{}
	for key := range original {
		keys[key] = struct{}{}
	}
	for key := range updated {
		keys[key] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for key := range keys {
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	blocks := []string{}
	for _, key := range sorted {
		diff := Diff(original[key], updated[key])
		if diff == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Paragraph ID %d, Field %s:\n%s", id, key, diff))
	}
	return blocks
}

func addedBlock(id int64, summary FieldSummary) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Paragraph ID %d: Added", id)
	for _, key := range summary.SortedKeys() {
		fmt.Fprintf(&builder, "\n%s: %s", key, summary[key])
	}
	return builder.String()
}

func sortedIDs(summaries map[int64]FieldSummary) []int64 {
	ids := make([]int64, 0, len(summaries))
	for id := range summaries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
