package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"measure-filter/models"
)

// ErrSearchTooShort is returned for terms shorter than models.MinSearchSize.
var ErrSearchTooShort = errors.New("search term too short")

const defaultSearchLimit = 50

// Authorizer decides whether the components of a root project are visible.
type Authorizer interface {
	CanBrowse(rootProjectID uint) bool
}

// ProjectScope grants access to a fixed set of root projects.
type ProjectScope map[uint]struct{}

// NewProjectScope builds a scope from root project ids.
func NewProjectScope(ids ...uint) ProjectScope {
	s := make(ProjectScope, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ProjectScope) CanBrowse(rootProjectID uint) bool {
	_, ok := s[rootProjectID]
	return ok
}

// ResourceIndexSearch looks up components by the prefix of their key or name.
type ResourceIndexSearch struct {
	Logger *zap.Logger
	Limit  int

	find func(ctx context.Context, prefix string, limit int) ([]models.ResourceIndex, error)
}

// NewResourceIndexSearch returns a search over the resource_index table.
func NewResourceIndexSearch(db *gorm.DB, logger *zap.Logger) *ResourceIndexSearch {
	return &ResourceIndexSearch{
		Logger: logger,
		Limit:  defaultSearchLimit,
		find: func(ctx context.Context, prefix string, limit int) ([]models.ResourceIndex, error) {
			var entries []models.ResourceIndex
			err := db.WithContext(ctx).
				Preload("Resource").
				Preload("RootProject").
				Where("kee LIKE ?", prefix+"%").
				Order("name_size").
				Limit(limit).
				Find(&entries).Error
			return entries, err
		},
	}
}

// Search returns at most one entry per resource, dropping entries the
// authorizer refuses. A nil authorizer refuses everything.
func (s *ResourceIndexSearch) Search(ctx context.Context, term string, auth Authorizer) ([]models.ResourceIndex, error) {
	prefix := strings.ToLower(strings.TrimSpace(term))
	if len([]rune(prefix)) < models.MinSearchSize {
		return nil, ErrSearchTooShort
	}
	// Oversample: several suffixes of one resource may match.
	entries, err := s.find(ctx, escapeLike(prefix), s.Limit*3)
	if err != nil {
		s.Logger.Error("Resource index search failed", zap.String("term", prefix), zap.Error(err))
		return nil, errors.Wrap(err, "search resource index")
	}

	seen := map[uint]bool{}
	var out []models.ResourceIndex
	for _, e := range entries {
		if seen[e.ResourceID] {
			continue
		}
		if auth == nil || !auth.CanBrowse(e.ResourceIDForAuthorization()) {
			continue
		}
		seen[e.ResourceID] = true
		out = append(out, e)
		if len(out) == s.Limit {
			break
		}
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
