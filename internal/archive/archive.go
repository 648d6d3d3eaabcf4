// Package archive 把解析出的记录归档为本地文件，并在台账中记录每一次成功
package archive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"PaperArchiver/internal/ledger"
	"PaperArchiver/internal/models"
	"PaperArchiver/internal/naming"
	"PaperArchiver/pkg/download"
	"PaperArchiver/pkg/logger"
)

// Unlimited MaxDownloads 的不限量取值
const Unlimited = -1

type Options struct {
	SaveDir string
	Venue   string
	Year    int

	// MaxDownloads 本次运行最多尝试下载的记录数（成功或失败都算），Unlimited 表示不限
	MaxDownloads int
	// SkipDownload 只写台账不下载
	SkipDownload bool
	// Delay 相邻两次下载请求的最小间隔
	Delay   time.Duration
	Workers int
}

func (o *Options) Validate() error {
	if o.SaveDir == "" {
		return errors.New("save dir is required")
	}
	if o.Venue == "" {
		return errors.New("venue is required")
	}
	if o.Year <= 0 {
		return fmt.Errorf("invalid year: %d", o.Year)
	}
	if o.MaxDownloads < Unlimited {
		return fmt.Errorf("invalid max downloads: %d", o.MaxDownloads)
	}
	if o.Delay < 0 {
		return fmt.Errorf("invalid delay: %v", o.Delay)
	}
	return nil
}

// Dir 产物目录 <save>/<Venue>/<Year>
func (o *Options) Dir() string {
	return filepath.Join(o.SaveDir, o.Venue, strconv.Itoa(o.Year))
}

func (o *Options) LedgerPath() string {
	return ledger.Path(o.SaveDir, o.Venue, o.Year)
}

// Stats 一次运行的计数
type Stats struct {
	RunID            string
	Venue            string
	Year             int
	Found            int
	SkippedExisting  int
	SkippedDuplicate int
	Attempted        int
	Downloaded       int
	Recorded         int
	Failed           int
	// Interrupted 运行因上下文取消提前结束
	Interrupted bool
	Elapsed     time.Duration
}

// Archiver 归档编排器
type Archiver struct {
	opts       Options
	downloader *download.Downloader
	gate       *Gate
	log        *logger.Logger
}

func New(fetcher download.Fetcher, opts Options) (*Archiver, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid archive options: %w", err)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if fetcher == nil && !opts.SkipDownload {
		return nil, errors.New("fetcher is required unless downloads are skipped")
	}

	header := http.Header{}
	header.Set("Accept", "application/pdf,*/*")

	return &Archiver{
		opts:       opts,
		downloader: download.NewDownloader(fetcher, header),
		gate:       NewGate(opts.Delay),
		log:        logger.WithPrefix("Archive"),
	}, nil
}

// job 一条需要下载的记录
type job struct {
	record   *models.Record
	filename string
	target   string
	// recorded 台账里已经有这一行（产物丢失后重新下载），成功后不再追加
	recorded bool
}

type outcome struct {
	job
	bytes     int64
	err       error
	cancelled bool
	ack       chan struct{}
}

// Run 依次处理记录：已存在的跳过，缺失的下载，成功的写入台账
// 单条记录失败不会中断运行；只有台账不可用才返回错误
func (a *Archiver) Run(ctx context.Context, records []*models.Record) (*Stats, error) {
	start := time.Now()
	stats := &Stats{
		RunID: uuid.NewString(),
		Venue: a.opts.Venue,
		Year:  a.opts.Year,
		Found: len(records),
	}
	log := a.log.WithPrefix(stats.RunID[:8])

	if err := os.MkdirAll(a.opts.Dir(), 0755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	led, err := ledger.Open(a.opts.LedgerPath())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := led.Close(); err != nil {
			log.Warn("关闭台账失败: %v", err)
		}
	}()

	log.Info("开始归档 %s %d：%d 篇论文，台账已有 %d 条", a.opts.Venue, a.opts.Year, len(records), led.Len())

	if a.opts.SkipDownload {
		err = a.recordOnly(ctx, log, led, records, stats)
	} else {
		err = a.download(ctx, log, led, records, stats)
	}
	stats.Elapsed = time.Since(start)
	if err != nil {
		return stats, err
	}

	log.Info("归档完成：下载 %d，记录 %d，已存在 %d，重复 %d，失败 %d，用时 %v",
		stats.Downloaded, stats.Recorded, stats.SkippedExisting, stats.SkippedDuplicate, stats.Failed, stats.Elapsed.Round(time.Millisecond))
	return stats, nil
}

// recordOnly 元数据模式：不下载也不限速，台账中没有的记录直接追加
func (a *Archiver) recordOnly(ctx context.Context, log *logger.Logger, led *ledger.Ledger, records []*models.Record, stats *Stats) error {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if ctx.Err() != nil {
			stats.Interrupted = true
			log.Warn("运行被中断")
			return nil
		}

		id := naming.New(a.opts.Venue, a.opts.Year, r.Title)
		if seen[id.Filename] {
			stats.SkippedDuplicate++
			continue
		}
		seen[id.Filename] = true

		if led.Has(id.Filename) {
			stats.SkippedExisting++
			continue
		}
		if a.capReached(stats.Recorded) {
			log.Info("已达到上限 %d，停止", a.opts.MaxDownloads)
			return nil
		}

		if err := led.Append(models.NewLedgerEntry(a.opts.Venue, a.opts.Year, id.Filename, r)); err != nil {
			return err
		}
		stats.Recorded++
	}
	return nil
}

func (a *Archiver) capReached(n int) bool {
	return a.opts.MaxDownloads != Unlimited && n >= a.opts.MaxDownloads
}

// download 派发按记录顺序进行，下载交给 worker，台账只由一个 writer 追加
func (a *Archiver) download(ctx context.Context, log *logger.Logger, led *ledger.Ledger, records []*models.Record, stats *Stats) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan outcome)
	writerDone := make(chan struct{})
	var (
		writerErr               error
		downloaded, failed, cut int
	)
	commit := func(o outcome) {
		switch {
		case o.cancelled:
			cut++
		case o.err != nil:
			failed++
			log.Warn("下载失败 %q: %v", o.record.Title, o.err)
		default:
			downloaded++
			log.Info("已下载 %s (%d bytes)", o.filename, o.bytes)
			if o.recorded || writerErr != nil {
				return
			}
			entry := models.NewLedgerEntry(a.opts.Venue, a.opts.Year, o.filename, o.record)
			if err := led.Append(entry); err != nil {
				writerErr = err
				log.Error("写入台账失败，停止派发: %v", err)
				cancel()
			}
		}
	}
	go func() {
		defer close(writerDone)
		for o := range results {
			commit(o)
			close(o.ack)
		}
	}()

	g := &errgroup.Group{}
	g.SetLimit(a.opts.Workers)

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if runCtx.Err() != nil {
			break
		}

		id := naming.New(a.opts.Venue, a.opts.Year, r.Title)
		if seen[id.Filename] {
			stats.SkippedDuplicate++
			log.Debug("同一批次中重复的记录: %s", id.Filename)
			continue
		}
		seen[id.Filename] = true

		target := filepath.Join(a.opts.Dir(), id.Filename)
		if download.Exists(target) {
			stats.SkippedExisting++
			log.Debug("已存在，跳过: %s", id.Filename)
			continue
		}
		if a.capReached(stats.Attempted) {
			log.Info("已达到下载上限 %d，停止", a.opts.MaxDownloads)
			break
		}

		j := job{record: r, filename: id.Filename, target: target, recorded: led.Has(id.Filename)}
		if j.recorded {
			log.Warn("台账中有记录但文件缺失，重新下载: %s", id.Filename)
		}
		stats.Attempted++

		// worker 等到台账写完才释放名额，单 worker 时下一条记录在上一行落盘后才开始
		g.Go(func() error {
			o := a.fetch(runCtx, j)
			o.ack = make(chan struct{})
			results <- o
			<-o.ack
			return nil
		})
	}

	_ = g.Wait()
	close(results)
	<-writerDone

	stats.Downloaded = downloaded
	stats.Failed = failed
	stats.Attempted -= cut
	if ctx.Err() != nil {
		stats.Interrupted = true
		log.Warn("运行被中断，已派发的下载已完成")
	}
	return writerErr
}

// fetch 等待限速后下载一条记录
// 已经开始的下载不受取消影响，取消只在记录之间生效
func (a *Archiver) fetch(ctx context.Context, j job) outcome {
	if err := a.gate.Wait(ctx); err != nil {
		return outcome{job: j, cancelled: true}
	}
	n, err := a.downloader.Save(context.WithoutCancel(ctx), j.record.PDFURL, j.target)
	return outcome{job: j, bytes: n, err: err}
}
