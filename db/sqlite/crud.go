package db

import (
	"database/sql"
	"fmt"
	"strings"

	"PaperArchiver/internal/models"
)

const upsertQuery = `
	INSERT INTO entries (
		venue, year, filename, title, authors, category, pdf_url, indexed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(venue, year, filename) DO UPDATE SET
		title = excluded.title,
		authors = excluded.authors,
		category = excluded.category,
		pdf_url = excluded.pdf_url,
		indexed_at = CURRENT_TIMESTAMP
	RETURNING id
	`

const selectColumns = `SELECT id, venue, year, filename, title, authors, category, pdf_url FROM entries`

type queryRower interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func upsert(q queryRower, e *models.LedgerEntry) (int64, error) {
	var id int64
	err := q.QueryRow(upsertQuery,
		e.Venue, e.Year, e.Filename, e.Title, e.Authors, e.Category, e.PDFURL,
	).Scan(&id)
	return id, err
}

func (s *SQLiteDB) Upsert(e *models.LedgerEntry) (int64, error) {
	id, err := upsert(s.db, e)
	if err == nil {
		e.ID = id
	}
	return id, err
}

func (s *SQLiteDB) UpsertBatch(entries []*models.LedgerEntry) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, e := range entries {
		if e == nil {
			continue
		}
		id, err := upsert(tx, e)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("upsert %s: %w", e.Filename, err)
		}
		e.ID = id
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// where 把检索条件翻译成 WHERE 子句和参数
func where(cond models.SearchCondition) ([]string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)

	if len(cond.Venues) > 0 {
		placeholders := strings.Repeat("?,", len(cond.Venues))
		placeholders = placeholders[:len(placeholders)-1]
		clauses = append(clauses, "venue IN ("+placeholders+")")
		for _, v := range cond.Venues {
			args = append(args, v)
		}
	}

	if cond.YearFrom > 0 {
		clauses = append(clauses, "year >= ?")
		args = append(args, cond.YearFrom)
	}

	if cond.YearTo > 0 {
		clauses = append(clauses, "year <= ?")
		args = append(args, cond.YearTo)
	}

	if cond.Category != "" {
		clauses = append(clauses, "category LIKE ?")
		args = append(args, "%"+cond.Category+"%")
	}

	return clauses, args
}

func (s *SQLiteDB) query(base string, clauses []string, args []interface{}, limit int) ([]*models.LedgerEntry, error) {
	if len(clauses) > 0 {
		base += " WHERE " + strings.Join(clauses, " AND ")
	}
	base += " ORDER BY venue, year, title"

	if limit > 0 {
		base += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(base, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *SQLiteDB) SearchByKeywords(query string, cond models.SearchCondition) ([]*models.LedgerEntry, error) {
	clauses, args := where(cond)

	pattern := "%" + query + "%"
	clauses = append([]string{"(title LIKE ? OR authors LIKE ?)"}, clauses...)
	args = append([]interface{}{pattern, pattern}, args...)

	return s.query(selectColumns, clauses, args, cond.Limit)
}

func (s *SQLiteDB) GetEntries(cond models.SearchCondition) ([]*models.LedgerEntry, error) {
	clauses, args := where(cond)
	return s.query(selectColumns, clauses, args, cond.Limit)
}

func (s *SQLiteDB) CountEntries(cond models.SearchCondition) (int, error) {
	clauses, args := where(cond)

	query := "SELECT COUNT(*) FROM entries"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	var count int
	err := s.db.QueryRow(query, args...).Scan(&count)
	return count, err
}

func (s *SQLiteDB) DeleteEntries(cond models.SearchCondition) (int, error) {
	clauses, args := where(cond)

	query := "DELETE FROM entries"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}

	count, err := result.RowsAffected()
	return int(count), err
}

func scanEntries(rows *sql.Rows) ([]*models.LedgerEntry, error) {
	var entries []*models.LedgerEntry

	for rows.Next() {
		var e models.LedgerEntry
		var authors, category sql.NullString

		err := rows.Scan(&e.ID, &e.Venue, &e.Year, &e.Filename, &e.Title, &authors, &category, &e.PDFURL)
		if err != nil {
			return nil, err
		}
		e.Authors = authors.String
		e.Category = category.String

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
