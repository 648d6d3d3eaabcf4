package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"PaperArchiver/internal/models"
	"PaperArchiver/pkg/logger"
)

var (
	ErrLocked    = errors.New("ledger is locked by another run")
	ErrDuplicate = errors.New("filename already recorded in ledger")
)

// Path 每个 (会议, 年份) 一份台账：<saveDir>/<Venue>_<Year>.csv
func Path(saveDir, venue string, year int) string {
	return filepath.Join(saveDir, fmt.Sprintf("%s_%d.csv", venue, year))
}

// Ref 保存目录下找到的一份台账
type Ref struct {
	Venue string
	Year  int
	Path  string
}

// Discover 列出 saveDir 下所有 <Venue>_<Year>.csv，按会议、年份排序
func Discover(saveDir string) ([]Ref, error) {
	matches, err := filepath.Glob(filepath.Join(saveDir, "*_*.csv"))
	if err != nil {
		return nil, err
	}
	var refs []Ref
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.Base(m), ".csv")
		i := strings.LastIndex(name, "_")
		if i <= 0 {
			continue
		}
		year, err := strconv.Atoi(name[i+1:])
		if err != nil {
			continue
		}
		refs = append(refs, Ref{Venue: name[:i], Year: year, Path: m})
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Venue != refs[j].Venue {
			return refs[i].Venue < refs[j].Venue
		}
		return refs[i].Year < refs[j].Year
	})
	return refs, nil
}

// Ledger 只追加的 CSV 台账
// 同一时刻只允许一个进程持有（<path>.lock），进程内 Append 串行
type Ledger struct {
	path string
	lock *flock.Flock

	mu    sync.Mutex
	file  *os.File
	w     *csv.Writer
	known map[string]bool
	log   *logger.Logger
}

// Open 加锁并打开台账，文件不存在时创建并写入表头；已有的行只读不改
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock ledger: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}

	l := &Ledger{
		path:  path,
		lock:  lock,
		known: make(map[string]bool),
		log:   logger.WithPrefix("Ledger"),
	}
	if err := l.open(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) open() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	l.file = f
	l.w = csv.NewWriter(f)

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat ledger: %w", err)
	}
	size, err := l.trimTail(info.Size())
	if err != nil {
		f.Close()
		return fmt.Errorf("repair ledger tail: %w", err)
	}

	if size == 0 {
		if err := l.write(models.LedgerHeader); err != nil {
			f.Close()
			return fmt.Errorf("write ledger header: %w", err)
		}
		l.log.Debug("新建台账 %s", l.path)
		return nil
	}

	entries, err := ReadAll(l.path)
	if err != nil {
		f.Close()
		return err
	}
	for _, e := range entries {
		l.known[e.Filename] = true
	}
	l.log.Debug("打开台账 %s，已有 %d 条记录", l.path, len(l.known))
	return nil
}

// trimTail 截掉最后一个换行之后的残行，返回截断后的大小
// Append 在 fsync 之后才返回，没有换行结尾的行从未提交过
func (l *Ledger) trimTail(size int64) (int64, error) {
	const chunk = 4096
	keep := int64(0)
	buf := make([]byte, chunk)
	for end := size; end > 0; {
		start := end - chunk
		if start < 0 {
			start = 0
		}
		n, err := l.file.ReadAt(buf[:end-start], start)
		if err != nil && err != io.EOF {
			return 0, err
		}
		if i := bytes.LastIndexByte(buf[:n], '\n'); i >= 0 {
			keep = start + int64(i) + 1
			break
		}
		end = start
	}
	if keep == size {
		return size, nil
	}
	if err := l.file.Truncate(keep); err != nil {
		return 0, err
	}
	l.log.Warn("台账末尾有不完整的行（%d bytes），已截掉: %s", size-keep, l.path)
	return keep, nil
}

// write 写一行并落盘
func (l *Ledger) write(row []string) error {
	if err := l.w.Write(row); err != nil {
		return err
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return err
	}
	return l.file.Sync()
}

func (l *Ledger) Path() string { return l.path }

// Has 文件名是否已经记录过
func (l *Ledger) Has(filename string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.known[filename]
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.known)
}

// Append 追加一行；返回时该行已经 fsync。同一文件名最多记录一次
func (l *Ledger) Append(e models.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fmt.Errorf("ledger %s is closed", l.path)
	}
	if l.known[e.Filename] {
		return fmt.Errorf("%s: %w", e.Filename, ErrDuplicate)
	}
	if err := l.write(e.Row()); err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}
	l.known[e.Filename] = true
	return nil
}

func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	if l.file != nil {
		errs = append(errs, l.file.Close())
		l.file = nil
	}
	errs = append(errs, l.lock.Unlock())
	return errors.Join(errs...)
}

// ReadAll 读取台账中的全部记录（跳过表头）
// 列数不足的残行被忽略
func ReadAll(path string) ([]*models.LedgerEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) ([]*models.LedgerEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	log := logger.WithPrefix("Ledger")

	var entries []*models.LedgerEntry
	for line := 0; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				log.Warn("第 %d 行无法解析，跳过: %v", pe.StartLine, err)
				continue
			}
			return nil, fmt.Errorf("read ledger: %w", err)
		}
		if line == 0 && len(row) > 0 && row[0] == models.LedgerHeader[0] {
			continue
		}
		if len(row) < len(models.LedgerHeader) {
			continue
		}

		year, err := strconv.Atoi(row[1])
		if err != nil {
			continue
		}
		entries = append(entries, &models.LedgerEntry{
			Venue:    row[0],
			Year:     year,
			Filename: row[2],
			Title:    row[3],
			Authors:  row[4],
			Category: row[5],
			PDFURL:   row[6],
		})
	}
}
