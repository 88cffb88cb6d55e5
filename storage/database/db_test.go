package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/catalog"
)

func TestOpen(t *testing.T) {
	t.Run("seeded in-memory store", func(t *testing.T) {
		repos, err := Open(&core.Config{
			Catalog:  core.CatalogConfig{Seed: true},
			Database: core.DatabaseConfig{Engine: EngineInMem},
		})
		require.NoError(t, err)
		defer repos.Close()

		courses, err := repos.Course.QueryCourses(context.Background(), catalog.QueryFilter{})
		require.NoError(t, err)
		assert.Len(t, courses, len(catalog.SeedCourses()))
	})

	t.Run("empty in-memory store", func(t *testing.T) {
		repos, err := Open(&core.Config{})
		require.NoError(t, err)
		defer repos.Close()

		courses, err := repos.Course.QueryCourses(context.Background(), catalog.QueryFilter{})
		require.NoError(t, err)
		assert.Empty(t, courses)
	})

	t.Run("unknown engine", func(t *testing.T) {
		_, err := Open(&core.Config{Database: core.DatabaseConfig{Engine: "mongo"}})
		assert.EqualError(t, err, `unknown database engine "mongo"`)
	})
}
