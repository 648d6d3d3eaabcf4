package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"PaperArchiver/internal/ledger"
	"PaperArchiver/pkg/download"
)

// Issue 审计发现的一个问题
type Issue struct {
	Filename string
	Problem  string
}

// AuditReport 比对台账和产物目录的结果
type AuditReport struct {
	Venue    string
	Year     int
	Rows     int
	Files    int
	Verified int
	// Missing 台账有记录但文件不存在
	Missing []string
	// Untracked 目录中有文件但台账没有记录
	Untracked []string
	// Partial 崩溃遗留的临时文件
	Partial []string
	// Corrupt 无法作为 PDF 打开的产物
	Corrupt []Issue
}

func (r *AuditReport) OK() bool {
	return len(r.Missing) == 0 && len(r.Untracked) == 0 && len(r.Partial) == 0 && len(r.Corrupt) == 0
}

// Audit 只读检查一个 (会议, 年份)：台账行与文件是否一一对应，checkPDF 时逐个打开 PDF
func Audit(saveDir, venue string, year int, checkPDF bool) (*AuditReport, error) {
	opts := Options{SaveDir: saveDir, Venue: venue, Year: year}
	report := &AuditReport{Venue: venue, Year: year}

	entries, err := ledger.ReadAll(opts.LedgerPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	report.Rows = len(entries)

	files := make(map[string]bool)
	dirEntries, err := os.ReadDir(opts.Dir())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read archive dir: %w", err)
	}
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		name := de.Name()
		if strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".part") {
			report.Partial = append(report.Partial, name)
			continue
		}
		files[name] = true
	}
	report.Files = len(files)

	tracked := make(map[string]bool, len(entries))
	for _, e := range entries {
		tracked[e.Filename] = true
		if !files[e.Filename] {
			report.Missing = append(report.Missing, e.Filename)
		}
	}

	for name := range files {
		if !tracked[name] {
			report.Untracked = append(report.Untracked, name)
			continue
		}
		if !checkPDF {
			continue
		}
		if _, err := download.VerifyPDF(filepath.Join(opts.Dir(), name)); err != nil {
			report.Corrupt = append(report.Corrupt, Issue{Filename: name, Problem: err.Error()})
			continue
		}
		report.Verified++
	}

	sort.Strings(report.Untracked)
	sort.Strings(report.Partial)
	sort.Slice(report.Corrupt, func(i, j int) bool { return report.Corrupt[i].Filename < report.Corrupt[j].Filename })
	return report, nil
}
