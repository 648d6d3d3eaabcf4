package export

import (
	"PaperArchiver/internal/models"
)

// Exporter 导出器接口
type Exporter interface {
	// Export 导出台账记录到指定文件
	Export(entries []*models.LedgerEntry, outputPath string) error
}
