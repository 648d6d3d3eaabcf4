package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("无法创建目录，请检查权限问题: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("无法打开数据库，请检查权限问题: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("无法连接到数据库: %w", err)
	}

	sqlDB := &SQLiteDB{db: db}

	if err := sqlDB.initTable(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库创建失败: %w", err)
	}

	return sqlDB, nil
}

func (d *SQLiteDB) Close() error { return d.db.Close() }

func (d *SQLiteDB) initTable() error {
	schema := `
CREATE TABLE IF NOT EXISTS entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  venue TEXT NOT NULL,
  year INTEGER NOT NULL,
  filename TEXT NOT NULL,
  title TEXT NOT NULL,
  authors TEXT,
  category TEXT,
  pdf_url TEXT NOT NULL,
  indexed_at DATETIME DEFAULT CURRENT_TIMESTAMP,

  UNIQUE(venue, year, filename)
);

CREATE INDEX IF NOT EXISTS idx_entries_venue_year ON entries(venue, year);
CREATE INDEX IF NOT EXISTS idx_entries_category ON entries(category);
	`

	_, err := d.db.Exec(schema)

	return err
}
