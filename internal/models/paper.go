package models

import "strconv"

// CategoryUnknown 无法确定分类/作者时使用的占位值
const CategoryUnknown = "Unknown"

// Record 统一的论文记录，所有会议解析器都产出这个形状
// Title 和 PDFURL 必须非空，否则解析器直接丢弃该条目
type Record struct {
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Category string `json:"category"`
	PDFURL   string `json:"pdf_url"`
}

// Valid 检查记录是否可以被发出
func (r *Record) Valid() bool {
	return r != nil && r.Title != "" && r.PDFURL != ""
}

// LedgerHeader 台账 CSV 的表头，顺序即列顺序
var LedgerHeader = []string{"Conference", "Year", "Filename", "Title", "Authors", "Category", "PDF_URL"}

// LedgerEntry 台账中的一行，一次成功归档对应一行
type LedgerEntry struct {
	ID       int64  `db:"id" json:"-"`
	Venue    string `db:"venue" json:"conference"`
	Year     int    `db:"year" json:"year"`
	Filename string `db:"filename" json:"filename"`
	Title    string `db:"title" json:"title"`
	Authors  string `db:"authors" json:"authors"`
	Category string `db:"category" json:"category"`
	PDFURL   string `db:"pdf_url" json:"pdf_url"`
}

// NewLedgerEntry 由记录和身份生成台账行
func NewLedgerEntry(venue string, year int, filename string, r *Record) LedgerEntry {
	return LedgerEntry{
		Venue:    venue,
		Year:     year,
		Filename: filename,
		Title:    r.Title,
		Authors:  r.Authors,
		Category: r.Category,
		PDFURL:   r.PDFURL,
	}
}

// Row 按 LedgerHeader 的顺序返回 CSV 行
func (e LedgerEntry) Row() []string {
	return []string{e.Venue, strconv.Itoa(e.Year), e.Filename, e.Title, e.Authors, e.Category, e.PDFURL}
}
