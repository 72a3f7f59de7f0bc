package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
)

// DiaryService creates entries together with their tags and serves the
// paginated listings.
type DiaryService struct {
	store       Storage
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewDiaryService(store Storage, m repomanager.RepositoryManager, log logging.Logger) *DiaryService {
	return &DiaryService{
		store:       store,
		repomanager: m,
		log:         log.With("module", "diary"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateEntryWithTags inserts an entry and links it to every non-blank tag
// name, creating missing tags, in a single transaction. On any failure
// nothing is left behind.
func (s *DiaryService) CreateEntryWithTags(ctx context.Context, content string, tagNames []string) (int64, error) {
	const op = "create entry with tags"

	names := distinctTagNames(tagNames)
	entry := &models.Entry{Content: content, Datetime: s.now()}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Entries(tx).Insert(ctx, entry); err != nil {
			return err
		}

		tags := s.repomanager.Tags(tx)
		for _, name := range names {
			tagID, _, err := tags.FindOrCreate(ctx, name)
			if err != nil {
				return fmt.Errorf("tag %q: %w", name, err)
			}
			if err := tags.Associate(ctx, entry.ID, tagID); err != nil {
				return fmt.Errorf("tag %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fail(ctx, s.log, op, err)
	}

	s.log.Info(ctx, "entry created", "entry_id", entry.ID, "tags", len(names))
	return entry.ID, nil
}

// CreateSimpleEntry inserts an entry without tags.
func (s *DiaryService) CreateSimpleEntry(ctx context.Context, content string) (int64, error) {
	const op = "create entry"

	entry := &models.Entry{Content: content, Datetime: s.now()}
	err := s.store.Run(ctx, func(ctx context.Context, db dbx.DBTX) error {
		_, err := s.repomanager.Entries(db).Insert(ctx, entry)
		return err
	})
	if err != nil {
		return 0, fail(ctx, s.log, op, err)
	}

	s.log.Info(ctx, "entry created", "entry_id", entry.ID)
	return entry.ID, nil
}

// CountEntries returns the number of stored entries.
func (s *DiaryService) CountEntries(ctx context.Context) (int64, error) {
	const op = "count entries"

	var n int64
	err := s.store.Run(ctx, func(ctx context.Context, db dbx.DBTX) (err error) {
		n, err = s.repomanager.Entries(db).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fail(ctx, s.log, op, err)
	}
	return n, nil
}

// ListEntriesWithTags returns one page of entries, newest first, each with
// its tags sorted by name. An entry whose tags cannot be read is returned
// with an empty tag list.
func (s *DiaryService) ListEntriesWithTags(ctx context.Context, page, limit int) (*models.Page[*models.EntryWithTags], error) {
	const op = "list entries"

	var rows []*models.Entry
	totalPages, err := s.paginate(ctx, page, limit,
		func(ctx context.Context, db dbx.DBTX, limit, offset int) (err error) {
			rows, err = s.repomanager.Entries(db).List(ctx, limit, offset)
			return err
		},
		func(ctx context.Context, db dbx.DBTX) (int64, error) {
			return s.repomanager.Entries(db).Count(ctx)
		})
	if err != nil {
		return nil, fail(ctx, s.log, op, err)
	}

	result := &models.Page[*models.EntryWithTags]{
		Entries:     make([]*models.EntryWithTags, 0, len(rows)),
		TotalPages:  totalPages,
		CurrentPage: page,
	}
	if len(rows) == 0 {
		return result, nil
	}

	err = s.store.Run(ctx, func(ctx context.Context, db dbx.DBTX) error {
		tags := s.repomanager.Tags(db)
		for _, e := range rows {
			entryTags, err := tags.ListForEntry(ctx, e.ID)
			if err != nil {
				s.log.Warn(ctx, "tags unavailable for entry", "entry_id", e.ID, "error", err)
				entryTags = nil
			}
			result.Entries = append(result.Entries, models.NewEntryWithTags(e, entryTags))
		}
		return nil
	})
	if err != nil {
		// No connection for the tag lookups: every entry degrades to no tags.
		s.log.Warn(ctx, "tags unavailable for page", "error", err)
		result.Entries = result.Entries[:0]
		for _, e := range rows {
			result.Entries = append(result.Entries, models.NewEntryWithTags(e, nil))
		}
	}

	return result, nil
}

// ListEntriesByTag returns one page of the entries linked to tagID, latest
// datetime first. An unknown tag yields an empty page.
func (s *DiaryService) ListEntriesByTag(ctx context.Context, tagID int64, page, limit int) (*models.Page[*models.Entry], error) {
	const op = "list entries by tag"

	var rows []*models.Entry
	totalPages, err := s.paginate(ctx, page, limit,
		func(ctx context.Context, db dbx.DBTX, limit, offset int) (err error) {
			rows, err = s.repomanager.Entries(db).ListByTag(ctx, tagID, limit, offset)
			return err
		},
		func(ctx context.Context, db dbx.DBTX) (int64, error) {
			return s.repomanager.Entries(db).CountByTag(ctx, tagID)
		})
	if err != nil {
		return nil, fail(ctx, s.log, op, err)
	}

	return &models.Page[*models.Entry]{
		Entries:     rows,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

type (
	fetchFunc func(ctx context.Context, db dbx.DBTX, limit, offset int) error
	countFunc func(ctx context.Context, db dbx.DBTX) (int64, error)
)

// paginate validates the page, then runs fetch and count inside one snapshot
// so that the rows and the page count describe the same state.
func (s *DiaryService) paginate(ctx context.Context, page, limit int, fetch fetchFunc, count countFunc) (int, error) {
	if page < 1 {
		return 0, fmt.Errorf("%w: page must be a positive integer, got %d", common.ErrValidation, page)
	}
	if limit < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer, got %d", common.ErrValidation, limit)
	}

	var total int64
	err := s.store.WithSnapshot(ctx, func(ctx context.Context, tx dbx.DBTX) (err error) {
		if err = fetch(ctx, tx, limit, models.Offset(page, limit)); err != nil {
			return err
		}
		total, err = count(ctx, tx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return models.TotalPages(total, limit), nil
}

// distinctTagNames trims names, drops blanks and keeps the first occurrence
// of each name. Comparison is case-sensitive.
func distinctTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
