package sqlxrepos

import (
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS course (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	code        VARCHAR(16) NOT NULL,
	dept        VARCHAR(16) NOT NULL,
	day         VARCHAR(3) NOT NULL,
	day_index   SMALLINT NOT NULL,
	time        VARCHAR(11) NOT NULL,
	credits     SMALLINT NOT NULL CHECK (credits > 0),
	instructor  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL,
	UNIQUE (code, day, time)
);

ALTER TABLE course ADD COLUMN IF NOT EXISTS capacity SMALLINT NOT NULL DEFAULT 60 CHECK (capacity > 0);
ALTER TABLE course ADD COLUMN IF NOT EXISTS status VARCHAR(8) NOT NULL DEFAULT 'active';

CREATE TABLE IF NOT EXISTS cart (
	student_id    VARCHAR(64) PRIMARY KEY,
	sections      JSONB NOT NULL DEFAULT '[]',
	status        VARCHAR(16) NOT NULL,
	reference     VARCHAR(36) NOT NULL DEFAULT '',
	submitted_at  TIMESTAMPTZ,
	reviewed_at   TIMESTAMPTZ,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS cart_status_idx ON cart (status, submitted_at);`

// DSN builds the postgres connection URL for the configured database.
func DSN(conf core.DatabaseConfig) string {
	sslMode := "require"
	if conf.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.User, conf.Password),
		Host:     conf.Address(),
		Path:     conf.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// AdminConfig swaps in the admin credentials, when configured, for connections that change the schema.
func AdminConfig(conf core.DatabaseConfig) core.DatabaseConfig {
	if conf.AdminUser != "" {
		conf.User, conf.Password = conf.AdminUser, conf.AdminPassword
	}
	return conf
}

func Open(conf core.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(conf))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
