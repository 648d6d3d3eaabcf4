package csv

import (
	"encoding/csv"
	"fmt"
	"os"

	"PaperArchiver/internal/models"
)

type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export 列与台账一致，带 BOM 方便 Excel 直接打开
func (e *CSVExporter) Export(entries []*models.LedgerEntry, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("写入 BOM 失败: %w", err)
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(models.LedgerHeader); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	for _, entry := range entries {
		if entry == nil {
			continue
		}
		if err := writer.Write(entry.Row()); err != nil {
			return fmt.Errorf("写入数据失败: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
