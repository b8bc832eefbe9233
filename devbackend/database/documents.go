package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cleancity/api"
)

// Column mapping for the orderable timestamp fields. Anything else falls
// back to creation time so a query never fails on a bad sort key.
var orderColumns = map[string]string{
	api.FieldCreatedAt: "created_at",
	api.FieldUpdatedAt: "updated_at",
}

// InsertDocument stores a new record and returns the assigned id. Creation
// and update times are set server-side, never taken from the client.
func (s *Service) InsertDocument(ctx context.Context, collection string, doc map[string]any) (string, error) {
	delete(doc, "id")
	delete(doc, api.FieldCreatedAt)
	delete(doc, api.FieldUpdatedAt)

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, doc) VALUES (?, ?, ?)",
		collection, id, raw)
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return id, nil
}

// QueryDocuments returns all records of a collection ordered by one
// timestamp field. Each record carries its id and unix-second timestamps.
func (s *Service) QueryDocuments(ctx context.Context, collection, orderBy string, descending bool) ([]map[string]any, error) {
	column, ok := orderColumns[orderBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if descending {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		"SELECT id, doc, created_at, updated_at FROM documents WHERE collection = ? ORDER BY %s %s",
		column, direction)

	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var (
			id        string
			raw       []byte
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&id, &raw, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}

		doc := map[string]any{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			// A corrupt row must not sink the whole collection; hand it
			// back bare so the client's defensive parse decides.
			doc = map[string]any{}
		}
		doc["id"] = id
		doc[api.FieldCreatedAt] = createdAt.Unix()
		doc[api.FieldUpdatedAt] = updatedAt.Unix()
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read document rows: %w", err)
	}
	return out, nil
}

// MergeDocument merges a partial record into a document, creating the
// document when absent. Values of the form {"$increment": n} add n to the
// current numeric value of the field.
func (s *Service) MergeDocument(ctx context.Context, collection, id string, patch map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw []byte
	current := map[string]any{}
	err = tx.QueryRowContext(ctx,
		"SELECT doc FROM documents WHERE collection = ? AND id = ? FOR UPDATE",
		collection, id).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		// Merge into a missing document creates it.
	case err != nil:
		return fmt.Errorf("failed to read document: %w", err)
	default:
		if err := json.Unmarshal(raw, &current); err != nil {
			current = map[string]any{}
		}
	}

	applyMerge(current, patch)

	merged, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("failed to marshal merged document: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE doc = VALUES(doc), updated_at = CURRENT_TIMESTAMP`,
		collection, id, merged)
	if err != nil {
		return fmt.Errorf("failed to write merged document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit merge: %w", err)
	}
	return nil
}

func applyMerge(current, patch map[string]any) {
	for key, value := range patch {
		if inc, ok := incrementValue(value); ok {
			current[key] = numericValue(current[key]) + inc
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			sub, ok := current[key].(map[string]any)
			if !ok {
				sub = map[string]any{}
			}
			applyMerge(sub, nested)
			current[key] = sub
			continue
		}
		current[key] = value
	}
}

func incrementValue(v any) (int64, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return 0, false
	}
	raw, ok := m[api.IncrementKey]
	if !ok {
		return 0, false
	}
	return numericValue(raw), true
}

func numericValue(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}
