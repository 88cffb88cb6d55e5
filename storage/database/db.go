package database

import (
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/core/registration"
	"github.com/trezcool/courseportal/storage/database/inmem"
	"github.com/trezcool/courseportal/storage/database/sqlx"
)

// Engines
const (
	EngineInMem    = "inmem"
	EnginePostgres = "postgres"
)

// Repositories bundles the stores of the configured engine.
type Repositories struct {
	Course catalog.Repository
	Cart   registration.Repository

	closer io.Closer
}

func (r *Repositories) Close() error {
	return r.closer.Close()
}

// Open connects to the configured engine. Postgres is migrated first, in-memory stores get seeded when
// conf.Catalog.Seed is set.
func Open(conf *core.Config) (*Repositories, error) {
	switch conf.Database.Engine {
	case EnginePostgres:
		if err := migrate(conf.Database); err != nil {
			return nil, err
		}
		db, err := sqlxrepos.Open(conf.Database)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Course: sqlxrepos.NewCourseRepository(db),
			Cart:   sqlxrepos.NewCartRepository(db),
			closer: db,
		}, nil
	case EngineInMem, "":
		db, err := inmemdb.Open(conf.Catalog.Seed)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Course: inmemdb.NewCourseRepository(db),
			Cart:   inmemdb.NewCartRepository(db),
			closer: db,
		}, nil
	}
	return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
}

// migrate applies the schema over a short-lived admin connection.
func migrate(conf core.DatabaseConfig) error {
	admin, err := sqlxrepos.Open(sqlxrepos.AdminConfig(conf))
	if err != nil {
		return errors.Wrap(err, "connecting as admin")
	}
	defer admin.Close()
	return sqlxrepos.Migrate(admin)
}
