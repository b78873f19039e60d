package translate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
)

const (
	SampleTable = "sample"
	// KeyColumn is the relational/document field a key-value lookup is
	// matched against. It only holds for datasets whose distinguishing
	// attribute is literally named "name".
	KeyColumn = "name"
)

// The column group accepts Unicode letters and digits, not just ASCII.
var equalityPattern = regexp.MustCompile(`(?i)WHERE\s+([\p{L}\p{N}_]+)\s*=\s*'([^']+)'`)

// Translate converts raw, written in the given dialect, into a query for
// every backend.
func Translate(dialect Dialect, raw string) (QuerySet, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperr.NewTranslation(string(dialect), fmt.Sprintf("raw query for %s is empty", dialect))
	}

	switch dialect {
	case Document:
		return fromDocument(raw)
	case Relational:
		return fromRelational(raw), nil
	case KeyValue:
		return fromKeyValue(raw), nil
	default:
		return nil, &apperr.UnsupportedDialectError{Dialect: string(dialect)}
	}
}

// TranslateSource resolves the dialect by name before translating.
func TranslateSource(database, raw string) (QuerySet, error) {
	d, err := ParseDialect(database)
	if err != nil {
		return nil, err
	}
	return Translate(d, raw)
}

// fromDocument keeps only the first key (in source order) for the
// relational and key-value targets; the document target gets every key.
func fromDocument(raw string) (QuerySet, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, err
	}

	first := doc.Fields[0]
	value := literal(first.Value)
	sql := equalitySQL(first.Key, value)

	return QuerySet{
		MySQL:    sql,
		Postgres: sql,
		Mongo:    doc,
		Redis:    KeyValueQuery{Key: value},
	}, nil
}

func fromRelational(raw string) QuerySet {
	passthrough := RelationalQuery{Text: raw, Passthrough: true}

	doc := DocumentQuery{}
	kv := KeyValueQuery{}
	if m := equalityPattern.FindStringSubmatch(raw); m != nil {
		key, value := m[1], m[2]
		doc.Fields = []Field{{Key: key, Value: value}}
		kv.Key = value
	}

	return QuerySet{
		MySQL:    passthrough,
		Postgres: passthrough,
		Mongo:    doc,
		Redis:    kv,
	}
}

func fromKeyValue(raw string) QuerySet {
	key := strings.TrimSpace(raw)
	sql := equalitySQL(KeyColumn, key)

	return QuerySet{
		MySQL:    sql,
		Postgres: sql,
		Mongo:    DocumentQuery{Fields: []Field{{Key: KeyColumn, Value: key}}},
		Redis:    KeyValueQuery{Key: key},
	}
}

func equalitySQL(column, value string) RelationalQuery {
	return RelationalQuery{
		Text:   fmt.Sprintf("SELECT * FROM %s WHERE %s = '%s';", SampleTable, column, value),
		Table:  SampleTable,
		Column: column,
		Value:  value,
	}
}

var errNotObject = errors.New("document query must be a non-empty JSON object")

func parseDocument(raw string) (DocumentQuery, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return DocumentQuery{}, invalidDocument(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return DocumentQuery{}, apperr.NewTranslation(string(Document), errNotObject.Error())
	}

	var doc DocumentQuery
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return DocumentQuery{}, invalidDocument(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return DocumentQuery{}, invalidDocument(fmt.Errorf("unexpected token %v", keyTok))
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return DocumentQuery{}, invalidDocument(err)
		}
		doc.Fields = append(doc.Fields, Field{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return DocumentQuery{}, invalidDocument(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return DocumentQuery{}, invalidDocument(errors.New("trailing data after object"))
	}

	if len(doc.Fields) == 0 {
		return DocumentQuery{}, apperr.NewTranslation(string(Document), errNotObject.Error())
	}
	return doc, nil
}

func invalidDocument(err error) error {
	return apperr.NewTranslationWrap(string(Document), "invalid document query format, must be valid JSON", err)
}

// NormalizeRaw turns a request's query field, which may be a JSON string or
// a JSON object, into raw query text.
func NormalizeRaw(field json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(field)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, s != ""
	}
	return string(trimmed), true
}
