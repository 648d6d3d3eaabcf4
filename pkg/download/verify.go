package download

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// VerifyPDF 检查归档产物能否作为 PDF 打开，返回页数
func VerifyPDF(path string) (pages int, err error) {
	defer func() {
		// ledongthuc/pdf 遇到损坏文件会 panic
		if r := recover(); r != nil {
			err = fmt.Errorf("corrupt pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	pages = r.NumPage()
	if pages < 1 {
		return 0, fmt.Errorf("pdf %s has no pages", path)
	}
	return pages, nil
}
