package translate

import (
	"strings"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
)

type Dialect string

const (
	Relational Dialect = "relational"
	Document   Dialect = "document"
	KeyValue   Dialect = "keyvalue"
)

// Engine names accepted in place of the dialect itself.
var dialectAliases = map[string]Dialect{
	"relational": Relational,
	"postgresql": Relational,
	"postgres":   Relational,
	"mysql":      Relational,
	"document":   Document,
	"mongodb":    Document,
	"mongo":      Document,
	"keyvalue":   KeyValue,
	"redis":      KeyValue,
}

func ParseDialect(name string) (Dialect, error) {
	d, ok := dialectAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", &apperr.UnsupportedDialectError{Dialect: name}
	}
	return d, nil
}

// Backend identifies one of the fixed execution targets.
type Backend string

const (
	MySQL    Backend = "mysql"
	Postgres Backend = "postgresql"
	Mongo    Backend = "mongodb"
	Redis    Backend = "redis"
)

// Backends lists every target in reporting order.
var Backends = []Backend{MySQL, Postgres, Mongo, Redis}

func (b Backend) String() string { return string(b) }

func (b Backend) Dialect() Dialect {
	switch b {
	case MySQL, Postgres:
		return Relational
	case Mongo:
		return Document
	case Redis:
		return KeyValue
	}
	return ""
}
