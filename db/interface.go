package db

import (
	"PaperArchiver/internal/models"
)

// CatalogStorage 台账行的可检索索引；台账 CSV 才是事实来源，索引随时可以重建
type CatalogStorage interface {
	Upsert(e *models.LedgerEntry) (int64, error)

	// UpsertBatch 在一个事务里写入多行
	UpsertBatch(entries []*models.LedgerEntry) (int, error)

	SearchByKeywords(query string, cond models.SearchCondition) ([]*models.LedgerEntry, error)

	GetEntries(cond models.SearchCondition) ([]*models.LedgerEntry, error)

	CountEntries(cond models.SearchCondition) (int, error)

	DeleteEntries(cond models.SearchCondition) (int, error)

	Close() error
}
