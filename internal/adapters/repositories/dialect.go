package repositories

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder syntax for the two supported databases.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "pgx"
)

func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(driver))) {
	case SQLite, "":
		return SQLite, nil
	case Postgres, "postgres":
		return Postgres, nil
	}
	return "", fmt.Errorf("parse dialect: unsupported driver %q", driver)
}

// rebind rewrites ? placeholders to $1..$n for Postgres.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
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
