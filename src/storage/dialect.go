package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// dialect holds the SQL that differs between the supported drivers
type dialect struct {
	driver     string
	schema     []string
	lookupSQL  string // already in the driver's placeholder style, args: user_id, question
	positional bool // $1, $2 ... instead of ?
}

var postgresDialect = dialect{
	driver:     "postgres",
	positional: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS chat_users (
			user_id    TEXT PRIMARY KEY,
			name       TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chat_memos (
			id       BIGSERIAL PRIMARY KEY,
			user_id  TEXT NOT NULL REFERENCES chat_users (user_id),
			question TEXT NOT NULL,
			answer   TEXT NOT NULL,
			asked_at TIMESTAMPTZ NOT NULL
		)`,
		// md5 keeps long questions under the btree row size limit
		`CREATE INDEX IF NOT EXISTS chat_memos_user_question ON chat_memos (user_id, md5(question))`,
	},
	lookupSQL: `SELECT answer FROM chat_memos
		WHERE user_id = $1 AND md5(question) = md5($2) AND question = $2
		ORDER BY id LIMIT 1`,
}

var sqliteDialect = dialect{
	driver: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS chat_users (
			user_id    TEXT PRIMARY KEY,
			name       TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chat_memos (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id  TEXT NOT NULL REFERENCES chat_users (user_id),
			question TEXT NOT NULL,
			answer   TEXT NOT NULL,
			asked_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS chat_memos_user_question ON chat_memos (user_id, question)`,
	},
	lookupSQL: `SELECT answer FROM chat_memos
		WHERE user_id = ? AND question = ?
		ORDER BY id LIMIT 1`,
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "postgres":
		return postgresDialect, nil
	case "sqlite":
		return sqliteDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// rebind rewrites ? placeholders for drivers that use numbered parameters
func (d dialect) rebind(query string) string {
	if !d.positional {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
