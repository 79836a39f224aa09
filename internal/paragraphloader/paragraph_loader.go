package paragraphloader

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rpattn/changelog/internal/changelog"
	"github.com/rpattn/changelog/internal/domain"
	"github.com/rpattn/changelog/internal/repository"

	"github.com/graph-gophers/dataloader"
)

// Loader batches paragraph revision lookups so a detection pass over a record
// with many paragraphs issues a handful of queries instead of one per item.
// It implements changelog.ParagraphSource.
type Loader struct {
	byRevision *dataloader.Loader
	latest     *dataloader.Loader
}

// New creates a paragraph loader over the given repository.
func New(repo repository.ParagraphRepository) *Loader {
	byRevisionBatch := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids, err := parseKeys(keys)
		if err != nil {
			return failAll(keys, err)
		}

		revisions, err := repo.ListByRevisionIDs(ctx, ids)
		if err != nil {
			return failAll(keys, err)
		}

		byID := make(map[int64]domain.Revision, len(revisions))
		for _, revision := range revisions {
			byID[revision.RevisionID] = revision
		}

		results := make([]*dataloader.Result, len(ids))
		for i, id := range ids {
			if revision, ok := byID[id]; ok {
				results[i] = &dataloader.Result{Data: revision}
			} else {
				results[i] = &dataloader.Result{Error: changelog.ErrParagraphNotFound}
			}
		}
		return results
	}

	latestBatch := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids, err := parseKeys(keys)
		if err != nil {
			return failAll(keys, err)
		}

		revisions, err := repo.ListLatestByIDs(ctx, ids)
		if err != nil {
			return failAll(keys, err)
		}

		byID := make(map[int64]domain.Revision, len(revisions))
		for _, revision := range revisions {
			byID[revision.RecordID] = revision
		}

		results := make([]*dataloader.Result, len(ids))
		for i, id := range ids {
			if revision, ok := byID[id]; ok {
				results[i] = &dataloader.Result{Data: revision}
			} else {
				results[i] = &dataloader.Result{Error: changelog.ErrParagraphNotFound}
			}
		}
		return results
	}

	// The loader lives as long as the server while detection passes must see
	// current storage, so results are batched but never memoized. A cached
	// latest revision would go stale as soon as the paragraph gains a new
	// one, and a cached load failure would skip the paragraph in every later
	// pass.
	return &Loader{
		byRevision: dataloader.NewBatchedLoader(byRevisionBatch,
			dataloader.WithWait(5*time.Millisecond), dataloader.WithCache(&dataloader.NoCache{})),
		latest: dataloader.NewBatchedLoader(latestBatch,
			dataloader.WithWait(5*time.Millisecond), dataloader.WithCache(&dataloader.NoCache{})),
	}
}

// GetByRevision loads one paragraph revision by revision ID.
func (l *Loader) GetByRevision(ctx context.Context, revisionID int64) (domain.Revision, error) {
	return await(l.byRevision.Load(ctx, int64Key(revisionID)))
}

// GetLatest loads the newest revision of a paragraph.
func (l *Loader) GetLatest(ctx context.Context, paragraphID int64) (domain.Revision, error) {
	return await(l.latest.Load(ctx, int64Key(paragraphID)))
}

func await(thunk dataloader.Thunk) (domain.Revision, error) {
	value, err := thunk()
	if err != nil {
		return domain.Revision{}, err
	}
	revision, ok := value.(domain.Revision)
	if !ok {
		return domain.Revision{}, fmt.Errorf("unexpected loader result type %T", value)
	}
	return revision, nil
}

func int64Key(id int64) dataloader.Key {
	return dataloader.StringKey(strconv.FormatInt(id, 10))
}

func parseKeys(keys dataloader.Keys) ([]int64, error) {
	ids := make([]int64, len(keys))
	for i, key := range keys {
		id, err := strconv.ParseInt(key.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid paragraph key %q: %w", key.String(), err)
		}
		ids[i] = id
	}
	return ids, nil
}

func failAll(keys dataloader.Keys, err error) []*dataloader.Result {
	results := make([]*dataloader.Result, len(keys))
	for i := range results {
		results[i] = &dataloader.Result{Error: err}
	}
	return results
}
