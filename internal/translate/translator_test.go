package translate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_Document(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantSQL string
		wantKey string
	}{
		{"string value", `{"id": "42"}`, "SELECT * FROM sample WHERE id = '42';", "42"},
		{"name lookup", `{"name":"alice"}`, "SELECT * FROM sample WHERE name = 'alice';", "alice"},
		{"number keeps literal", `{"price": 10.50}`, "SELECT * FROM sample WHERE price = '10.50';", "10.50"},
		{"bool", `{"active": true}`, "SELECT * FROM sample WHERE active = 'true';", "true"},
		{"null", `{"deleted_at": null}`, "SELECT * FROM sample WHERE deleted_at = '';", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			qs, err := Translate(Document, tc.raw)
			require.NoError(t, err)
			require.Len(t, qs, len(Backends))

			for _, b := range []Backend{MySQL, Postgres} {
				rq, ok := qs[b].(RelationalQuery)
				require.True(t, ok, "backend %s", b)
				assert.Equal(t, tc.wantSQL, rq.Text)
				assert.False(t, rq.Passthrough)
				assert.Equal(t, SampleTable, rq.Table)
				assert.Equal(t, tc.wantKey, rq.Value)
			}

			kv, ok := qs[Redis].(KeyValueQuery)
			require.True(t, ok)
			assert.Equal(t, tc.wantKey, kv.Key)
		})
	}
}

func TestTranslate_DocumentKeepsOriginalObject(t *testing.T) {
	qs, err := Translate(Document, `{"city": "Novi Sad", "zip": 21000, "id": "7"}`)
	require.NoError(t, err)

	doc, ok := qs[Mongo].(DocumentQuery)
	require.True(t, ok)
	require.Equal(t, 3, doc.Len())
	assert.Equal(t, "city", doc.Fields[0].Key)
	assert.Equal(t, json.Number("21000"), doc.Fields[1].Value)
	assert.Equal(t, `{"city":"Novi Sad","zip":21000,"id":"7"}`, doc.String())

	// only the first key survives for the other targets
	rq := qs[Postgres].(RelationalQuery)
	assert.Equal(t, "city", rq.Column)
	assert.Equal(t, "Novi Sad", qs[Redis].(KeyValueQuery).Key)
}

func TestTranslate_DocumentNestedValueRenderedAsJSON(t *testing.T) {
	qs, err := Translate(Document, `{"tags": ["a", "b"]}`)
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, qs[Redis].(KeyValueQuery).Key)
}

func TestTranslate_DocumentErrors(t *testing.T) {
	cases := map[string]string{
		"invalid json":  `{"id": `,
		"not an object": `["id", "42"]`,
		"scalar":        `"42"`,
		"empty object":  `{}`,
		"trailing data": `{"id": "1"} {"id": "2"}`,
		"plain text":    `id = 42`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Translate(Document, raw)
			require.Error(t, err)

			var te *apperr.TranslationError
			assert.True(t, errors.As(err, &te), "expected TranslationError, got %T", err)
		})
	}
}

func TestTranslate_Relational(t *testing.T) {
	t.Run("equality predicate", func(t *testing.T) {
		raw := "select id, name from sample where code = 'X-1'"
		qs, err := Translate(Relational, raw)
		require.NoError(t, err)

		for _, b := range []Backend{MySQL, Postgres} {
			rq := qs[b].(RelationalQuery)
			assert.True(t, rq.Passthrough)
			assert.Equal(t, raw, rq.Text)
		}

		doc := qs[Mongo].(DocumentQuery)
		assert.Equal(t, []Field{{Key: "code", Value: "X-1"}}, doc.Fields)
		assert.Equal(t, "X-1", qs[Redis].(KeyValueQuery).Key)
	})

	t.Run("whitespace around operator", func(t *testing.T) {
		qs, err := Translate(Relational, "SELECT * FROM sample WHERE   id='42';")
		require.NoError(t, err)
		assert.Equal(t, "42", qs[Redis].(KeyValueQuery).Key)
	})

	t.Run("unicode column name", func(t *testing.T) {
		qs, err := Translate(Relational, "SELECT * FROM sample WHERE naïve = 'x'")
		require.NoError(t, err)
		assert.Equal(t, []Field{{Key: "naïve", Value: "x"}}, qs[Mongo].(DocumentQuery).Fields)
		assert.Equal(t, "x", qs[Redis].(KeyValueQuery).Key)
	})

	t.Run("no predicate degrades to empty", func(t *testing.T) {
		raw := "SELECT COUNT(*) FROM sample"
		qs, err := Translate(Relational, raw)
		require.NoError(t, err)
		require.Len(t, qs, len(Backends))

		assert.Zero(t, qs[Mongo].(DocumentQuery).Len())
		assert.Equal(t, "{}", qs[Mongo].String())
		assert.Equal(t, "", qs[Redis].(KeyValueQuery).Key)
		assert.Equal(t, raw, qs[MySQL].String())
	})

	t.Run("numeric literal is not matched", func(t *testing.T) {
		qs, err := Translate(Relational, "SELECT * FROM sample WHERE id = 42")
		require.NoError(t, err)
		assert.Zero(t, qs[Mongo].(DocumentQuery).Len())
	})
}

func TestTranslate_KeyValue(t *testing.T) {
	qs, err := Translate(KeyValue, "  user:1001 \n")
	require.NoError(t, err)

	rq := qs[MySQL].(RelationalQuery)
	assert.Equal(t, "SELECT * FROM sample WHERE name = 'user:1001';", rq.Text)
	assert.Contains(t, rq.Text, "WHERE name = 'user:1001'")
	assert.Equal(t, KeyColumn, rq.Column)
	assert.Equal(t, "user:1001", rq.Value)

	doc := qs[Mongo].(DocumentQuery)
	v, ok := doc.Get("name")
	require.True(t, ok)
	assert.Equal(t, "user:1001", v)
	assert.Equal(t, "user:1001", qs[Redis].(KeyValueQuery).Key)
}

func TestTranslate_EmptyInput(t *testing.T) {
	for _, d := range []Dialect{Relational, Document, KeyValue} {
		for _, raw := range []string{"", "   "} {
			t.Run(string(d), func(t *testing.T) {
				_, err := Translate(d, raw)
				var te *apperr.TranslationError
				require.True(t, errors.As(err, &te), "expected TranslationError, got %v", err)
			})
		}
	}
}

func TestTranslate_UnsupportedDialect(t *testing.T) {
	_, err := Translate(Dialect("graph"), "MATCH (n) RETURN n")
	var de *apperr.UnsupportedDialectError
	require.True(t, errors.As(err, &de))

	_, err = TranslateSource("oracle", "SELECT 1 FROM dual")
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "oracle", de.Dialect)
}

func TestParseDialect(t *testing.T) {
	cases := map[string]Dialect{
		"mongodb":    Document,
		"MySQL":      Relational,
		"postgresql": Relational,
		" redis ":    KeyValue,
		"keyvalue":   KeyValue,
		"document":   Document,
	}
	for in, want := range cases {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNormalizeRaw(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`"{\"id\": \"42\"}"`, `{"id": "42"}`, true},
		{`{"id": "42"}`, `{"id": "42"}`, true},
		{`"user:1"`, "user:1", true},
		{`""`, "", false},
		{`null`, "", false},
		{``, "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeRaw(json.RawMessage(tc.in))
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestBackendDialect(t *testing.T) {
	assert.Equal(t, Relational, MySQL.Dialect())
	assert.Equal(t, Relational, Postgres.Dialect())
	assert.Equal(t, Document, Mongo.Dialect())
	assert.Equal(t, KeyValue, Redis.Dialect())
}
