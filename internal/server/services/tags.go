package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
)

type TagService struct {
	store       Storage
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewTagService(store Storage, m repomanager.RepositoryManager, log logging.Logger) *TagService {
	return &TagService{store: store, repomanager: m, log: log.With("module", "tags")}
}

// ListTags returns all tags ordered by name.
func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "list tags"

	var result []models.Tag
	err := s.store.Run(ctx, func(ctx context.Context, db dbx.DBTX) (err error) {
		result, err = s.repomanager.Tags(db).ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, fail(ctx, s.log, op, err)
	}
	return result, nil
}

// CreateTag returns the tag called name, creating it if needed. created
// reports whether it did not exist before.
func (s *TagService) CreateTag(ctx context.Context, name string) (models.Tag, bool, error) {
	const op = "create tag"

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Tag{}, false, fail(ctx, s.log, op, fmt.Errorf("%w: tag name is blank", common.ErrValidation))
	}

	tag := models.Tag{Name: name}
	var created bool
	err := s.store.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) (err error) {
		tag.ID, created, err = s.repomanager.Tags(tx).FindOrCreate(ctx, name)
		return err
	})
	if err != nil {
		return models.Tag{}, false, fail(ctx, s.log, op, err)
	}

	if created {
		s.log.Info(ctx, "tag created", "tag_id", tag.ID, "name", name)
	}
	return tag, created, nil
}
