package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestInsertDocument(t *testing.T) {
	it(func() {
		mock.ExpectExec("INSERT INTO documents \\(collection, id, doc\\) VALUES \\(\\?, \\?, \\?\\)").
			WithArgs("reports", sqlmock.AnyArg(), []byte(`{"description":"overflowing bin"}`)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		// Client-supplied id and timestamps must not survive into storage.
		id, err := svc.InsertDocument(context.Background(), "reports", map[string]any{
			"id":          "client-id",
			"createdAt":   float64(123),
			"updatedAt":   float64(456),
			"description": "overflowing bin",
		})
		if err != nil {
			t.Fatalf("InsertDocument failed: %v", err)
		}
		if id == "" || id == "client-id" {
			t.Errorf("assigned id = %q", id)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestQueryDocuments(t *testing.T) {
	it(func() {
		created := time.Unix(1700000000, 0)
		updated := time.Unix(1700000100, 0)
		rows := sqlmock.NewRows([]string{"id", "doc", "created_at", "updated_at"}).
			AddRow("r2", []byte(`{"description":"newer"}`), created.Add(time.Hour), updated).
			AddRow("r1", []byte(`{"description":"older"}`), created, updated)

		mock.ExpectQuery(
			"SELECT id, doc, created_at, updated_at FROM documents WHERE collection = \\? ORDER BY created_at DESC").
			WithArgs("reports").
			WillReturnRows(rows)

		docs, err := svc.QueryDocuments(context.Background(), "reports", "createdAt", true)
		if err != nil {
			t.Fatalf("QueryDocuments failed: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("got %d docs", len(docs))
		}
		if docs[0]["id"] != "r2" || docs[0]["description"] != "newer" {
			t.Errorf("first doc = %v", docs[0])
		}
		if docs[0]["createdAt"] != created.Add(time.Hour).Unix() {
			t.Errorf("createdAt = %v", docs[0]["createdAt"])
		}
		if docs[1]["updatedAt"] != updated.Unix() {
			t.Errorf("updatedAt = %v", docs[1]["updatedAt"])
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestQueryDocumentsBadOrderKeyFallsBack(t *testing.T) {
	it(func() {
		mock.ExpectQuery(
			"SELECT id, doc, created_at, updated_at FROM documents WHERE collection = \\? ORDER BY created_at ASC").
			WithArgs("reports").
			WillReturnRows(sqlmock.NewRows([]string{"id", "doc", "created_at", "updated_at"}))

		if _, err := svc.QueryDocuments(context.Background(), "reports", "nonsense", false); err != nil {
			t.Fatalf("QueryDocuments failed: %v", err)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestQueryDocumentsCorruptRow(t *testing.T) {
	it(func() {
		now := time.Unix(1700000000, 0)
		rows := sqlmock.NewRows([]string{"id", "doc", "created_at", "updated_at"}).
			AddRow("r1", []byte(`{broken json`), now, now)

		mock.ExpectQuery(
			"SELECT id, doc, created_at, updated_at FROM documents WHERE collection = \\? ORDER BY created_at DESC").
			WithArgs("reports").
			WillReturnRows(rows)

		docs, err := svc.QueryDocuments(context.Background(), "reports", "createdAt", true)
		if err != nil {
			t.Fatalf("corrupt row sank the query: %v", err)
		}
		if len(docs) != 1 || docs[0]["id"] != "r1" {
			t.Errorf("docs = %v", docs)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestMergeDocumentIncrement(t *testing.T) {
	it(func() {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT doc FROM documents WHERE collection = \\? AND id = \\? FOR UPDATE").
			WithArgs("users", "u1").
			WillReturnRows(sqlmock.NewRows([]string{"doc"}).
				AddRow([]byte(`{"reportsSubmitted":2}`)))
		mock.ExpectExec("INSERT INTO documents \\(collection, id, doc\\) VALUES \\(\\?, \\?, \\?\\)").
			WithArgs("users", "u1", []byte(`{"reportsSubmitted":3}`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := svc.MergeDocument(context.Background(), "users", "u1", map[string]any{
			"reportsSubmitted": map[string]any{"$increment": int64(1)},
		})
		if err != nil {
			t.Fatalf("MergeDocument failed: %v", err)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestMergeDocumentCreatesMissing(t *testing.T) {
	it(func() {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT doc FROM documents WHERE collection = \\? AND id = \\? FOR UPDATE").
			WithArgs("users", "u1").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO documents \\(collection, id, doc\\) VALUES \\(\\?, \\?, \\?\\)").
			WithArgs("users", "u1", []byte(`{"reportsSubmitted":1}`)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := svc.MergeDocument(context.Background(), "users", "u1", map[string]any{
			"reportsSubmitted": map[string]any{"$increment": int64(1)},
		})
		if err != nil {
			t.Fatalf("MergeDocument failed: %v", err)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestApplyMerge(t *testing.T) {
	testCases := []struct {
		name    string
		current map[string]any
		patch   map[string]any
		check   func(map[string]any) bool
	}{
		{
			name:    "Plain overwrite",
			current: map[string]any{"name": "Old"},
			patch:   map[string]any{"name": "New"},
			check:   func(m map[string]any) bool { return m["name"] == "New" },
		},
		{
			name:    "Increment absent field starts at zero",
			current: map[string]any{},
			patch:   map[string]any{"count": map[string]any{"$increment": int64(2)}},
			check:   func(m map[string]any) bool { return m["count"] == int64(2) },
		},
		{
			name:    "Increment over float value",
			current: map[string]any{"count": float64(7)},
			patch:   map[string]any{"count": map[string]any{"$increment": int64(1)}},
			check:   func(m map[string]any) bool { return m["count"] == int64(8) },
		},
		{
			name:    "Nested merge keeps siblings",
			current: map[string]any{"location": map[string]any{"city": "Leeds", "geohash": "abc"}},
			patch:   map[string]any{"location": map[string]any{"city": "York"}},
			check: func(m map[string]any) bool {
				loc := m["location"].(map[string]any)
				return loc["city"] == "York" && loc["geohash"] == "abc"
			},
		},
		{
			name:    "Multi-key map is not an increment",
			current: map[string]any{},
			patch:   map[string]any{"x": map[string]any{"$increment": int64(1), "other": 2}},
			check: func(m map[string]any) bool {
				sub, ok := m["x"].(map[string]any)
				return ok && sub["other"] == 2
			},
		},
	}

	for _, testCase := range testCases {
		applyMerge(testCase.current, testCase.patch)
		if !testCase.check(testCase.current) {
			t.Errorf("%s: merged = %v", testCase.name, testCase.current)
		}
	}
}
