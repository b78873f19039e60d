package translate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NativeQuery is a query in the representation one backend executes.
// Implementations are RelationalQuery, DocumentQuery and KeyValueQuery.
type NativeQuery interface {
	fmt.Stringer
	native()
}

// RelationalQuery is either caller-authored SQL executed verbatim, or a
// single equality predicate that connectors bind as a statement parameter.
// Text is the literal form used for display only.
type RelationalQuery struct {
	Text        string
	Passthrough bool
	Table       string
	Column      string
	Value       string
}

func (q RelationalQuery) String() string { return q.Text }
func (RelationalQuery) native()          {}

type Field struct {
	Key   string
	Value any
}

// DocumentQuery is an equality filter whose fields keep source order.
// Numeric values are held as json.Number so no precision is lost.
type DocumentQuery struct {
	Fields []Field
}

func (DocumentQuery) native() {}

func (q DocumentQuery) Len() int { return len(q.Fields) }

func (q DocumentQuery) Get(key string) (any, bool) {
	for _, f := range q.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (q DocumentQuery) Map() map[string]any {
	m := make(map[string]any, len(q.Fields))
	for _, f := range q.Fields {
		m[f.Key] = f.Value
	}
	return m
}

func (q DocumentQuery) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range q.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (q DocumentQuery) String() string {
	b, err := q.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%v", q.Map())
	}
	return string(b)
}

type KeyValueQuery struct {
	Key string
}

func (q KeyValueQuery) String() string { return q.Key }
func (KeyValueQuery) native()          {}

// QuerySet maps every backend to its translated query.
type QuerySet map[Backend]NativeQuery

func (s QuerySet) String() string {
	parts := make([]string, 0, len(Backends))
	for _, b := range Backends {
		if q, ok := s[b]; ok {
			parts = append(parts, fmt.Sprintf("%s=%q", b, q.String()))
		}
	}
	return strings.Join(parts, " ")
}

// literal renders a decoded JSON value the way it appears inside a generated
// SQL literal or a key-value key.
func literal(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
