package services

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"measure-filter/models"
)

func newTestSearch(entries []models.ResourceIndex, gotPrefix *string) *ResourceIndexSearch {
	return &ResourceIndexSearch{
		Logger: zap.NewNop(),
		Limit:  2,
		find: func(_ context.Context, prefix string, limit int) ([]models.ResourceIndex, error) {
			if gotPrefix != nil {
				*gotPrefix = prefix
			}
			if len(entries) > limit {
				return entries[:limit], nil
			}
			return entries, nil
		},
	}
}

func TestResourceIndexForAuthorization(t *testing.T) {
	e := models.ResourceIndex{ResourceID: 42, RootProjectID: 7}
	require.Equal(t, uint(7), e.ResourceIDForAuthorization())
}

func TestResourceIndexSearchTooShort(t *testing.T) {
	s := newTestSearch(nil, nil)
	_, err := s.Search(context.Background(), " ab ", nil)
	require.True(t, errors.Is(err, ErrSearchTooShort))
}

func TestResourceIndexSearchScope(t *testing.T) {
	entries := []models.ResourceIndex{
		{Kee: "struts", ResourceID: 1, RootProjectID: 1},
		{Kee: "struts-core", ResourceID: 2, RootProjectID: 1},
		{Kee: "struts-core", ResourceID: 2, RootProjectID: 1},
		{Kee: "struts-other", ResourceID: 3, RootProjectID: 9},
	}
	var prefix string
	s := newTestSearch(entries, &prefix)
	s.Limit = 10

	got, err := s.Search(context.Background(), "Struts", NewProjectScope(1))
	require.NoError(t, err)
	require.Equal(t, "struts", prefix)
	require.Len(t, got, 2)
	require.Equal(t, uint(1), got[0].ResourceID)
	require.Equal(t, uint(2), got[1].ResourceID)

	got, err = s.Search(context.Background(), "struts", NewProjectScope(1, 9))
	require.NoError(t, err)
	require.Len(t, got, 3)

	got, err = s.Search(context.Background(), "struts", NewProjectScope())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestResourceIndexSearchNilAuthorizerRefusesAll(t *testing.T) {
	entries := []models.ResourceIndex{
		{Kee: "secret", ResourceID: 1, RootProjectID: 42},
		{Kee: "secret-core", ResourceID: 2, RootProjectID: 42},
	}
	s := newTestSearch(entries, nil)

	got, err := s.Search(context.Background(), "secret", nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestResourceIndexSearchLimitAndEscape(t *testing.T) {
	entries := []models.ResourceIndex{
		{ResourceID: 1, RootProjectID: 1},
		{ResourceID: 2, RootProjectID: 1},
		{ResourceID: 3, RootProjectID: 1},
	}
	var prefix string
	s := newTestSearch(entries, &prefix)

	got, err := s.Search(context.Background(), "a_b%", NewProjectScope(1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, `a\_b\%`, prefix)
}

func TestResourceIndexSearchError(t *testing.T) {
	s := &ResourceIndexSearch{
		Logger: zap.NewNop(),
		Limit:  5,
		find: func(context.Context, string, int) ([]models.ResourceIndex, error) {
			return nil, errors.New("boom")
		},
	}
	_, err := s.Search(context.Background(), "struts", nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrSearchTooShort))
}
