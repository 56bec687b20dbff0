package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied with IF NOT EXISTS guards so a restart against an
// existing database is a no-op.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              BIGSERIAL PRIMARY KEY,
	username        TEXT NOT NULL UNIQUE,
	email           TEXT NOT NULL UNIQUE,
	password_hashed TEXT NOT NULL,
	full_name       TEXT,
	bio             TEXT,
	profile_image   TEXT,
	follower_count  INT NOT NULL DEFAULT 0,
	following_count INT NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS follows (
	follower_id BIGINT NOT NULL REFERENCES users(id),
	followee_id BIGINT NOT NULL REFERENCES users(id),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (follower_id, followee_id),
	CHECK (follower_id <> followee_id)
);

CREATE TABLE IF NOT EXISTS posts (
	id               BIGSERIAL PRIMARY KEY,
	author_id        BIGINT NOT NULL REFERENCES users(id),
	caption          TEXT NOT NULL,
	image_url        TEXT NOT NULL,
	tags             TEXT[] NOT NULL DEFAULT '{}',
	ai_generated     BOOLEAN NOT NULL DEFAULT FALSE,
	original_caption TEXT,
	like_count       INT NOT NULL DEFAULT 0,
	comment_count    INT NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS post_likes (
	post_id    BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	user_id    BIGINT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (post_id, user_id)
);

CREATE TABLE IF NOT EXISTS post_comments (
	id         BIGSERIAL PRIMARY KEY,
	post_id    BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	author_id  BIGINT NOT NULL REFERENCES users(id),
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_posts_author_created ON posts (author_id, created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_posts_tags ON posts USING GIN (tags);
CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows (followee_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_comments_post ON post_comments (post_id, created_at, id);
`

// Migrate creates the tables and indexes the application needs.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
