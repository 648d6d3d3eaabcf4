package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	storage "PaperArchiver/db"
	dbsqlite "PaperArchiver/db/sqlite"

	"PaperArchiver/internal/archive"
	exporter "PaperArchiver/internal/core/export"
	csv "PaperArchiver/internal/core/export/csv"
	json "PaperArchiver/internal/core/export/json"
	"PaperArchiver/internal/ir"
	"PaperArchiver/internal/ledger"
	"PaperArchiver/internal/models"
	"PaperArchiver/internal/venue"
	"PaperArchiver/pkg/download"
	"PaperArchiver/pkg/logger"
	feishu "PaperArchiver/pkg/upload/feishu"
	zotero "PaperArchiver/pkg/upload/zotero"
)

type FeiShuConfig struct {
	AppID     string
	AppSecret string
	BaseURL   string
}

type ZoteroConfig struct {
	UserID  string
	APIKey  string
	BaseURL string
}

// Options 组装 App 需要的全部外部能力
type Options struct {
	SaveDir  string
	HTMLRoot string
	// DatabasePath 检索索引，用到时才打开
	DatabasePath string

	Fetcher     download.Fetcher
	HTTPClient  *http.Client
	Credentials venue.Credentials

	// Venues 按规范名称覆盖会议配置，缺省使用 DefaultConfig
	Venues map[string]venue.Config
	FeiShu FeiShuConfig
	Zotero ZoteroConfig
}

type App struct {
	opts Options

	mu sync.Mutex
	db storage.CatalogStorage
}

func NewApp(opts Options) (*App, error) {
	if opts.SaveDir == "" {
		return nil, errors.New("save dir is required")
	}
	if opts.DatabasePath == "" {
		homeDir, _ := os.UserHomeDir()
		opts.DatabasePath = filepath.Join(homeDir, ".paperarchiver", "data", "catalog.db")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = NewHTTPClient(0, "")
	}
	if opts.Fetcher == nil {
		opts.Fetcher = NewFetcher(opts.HTTPClient, "")
	}
	if opts.Venues == nil {
		opts.Venues = map[string]venue.Config{}
	}
	return &App{opts: opts}, nil
}

func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *App) catalog() (storage.CatalogStorage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db != nil {
		return a.db, nil
	}
	db, err := dbsqlite.NewSQLiteDB(a.opts.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("打开检索索引失败: %w", err)
	}
	a.db = db
	return db, nil
}

// Parser 按名称创建会议解析器，名称大小写不敏感
func (a *App) Parser(name string) (venue.Parser, error) {
	prov, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVenue, name)
	}

	cfg, ok := a.opts.Venues[prov.Name]
	if !ok || cfg == nil {
		logger.Debug("使用会议默认配置: %s", prov.Name)
		cfg = prov.DefaultConfig()
	}

	p, err := prov.New(cfg, venue.Deps{
		Fetcher:     a.opts.Fetcher,
		HTTPClient:  a.opts.HTTPClient,
		Credentials: a.opts.Credentials,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 %s 解析器失败: %w", prov.Name, err)
	}
	return p, nil
}

// Collect 解析某个会议某一年的论文列表；documents 为空时使用默认的页面布局
func (a *App) Collect(ctx context.Context, venueName string, year int, documents []string) (venue.Parser, venue.Result, error) {
	p, err := a.Parser(venueName)
	if err != nil {
		return nil, venue.Result{}, err
	}

	if len(documents) == 0 {
		documents, err = p.Layout(a.opts.HTMLRoot, year)
		if err != nil {
			return nil, venue.Result{}, err
		}
	}
	logger.Debug("[%s] %d 年使用文档: %v", p.Name(), year, documents)

	res, err := p.Parse(ctx, venue.Query{Year: year, Documents: documents})
	if err != nil {
		return nil, venue.Result{}, fmt.Errorf("解析 %s %d 失败: %w", p.Name(), year, err)
	}
	return p, res, nil
}

type ArchiveRequest struct {
	Venue     string
	Year      int
	Documents []string

	MaxDownloads int
	SkipDownload bool
	Delay        time.Duration
	Workers      int
}

// Archive 解析后归档：下载缺失的论文并写入台账
func (a *App) Archive(ctx context.Context, req ArchiveRequest) (*archive.Stats, error) {
	p, res, err := a.Collect(ctx, req.Venue, req.Year, req.Documents)
	if err != nil {
		return nil, err
	}
	if res.Total == 0 {
		logger.Warn("[%s] %d 年没有解析出任何论文", p.Name(), req.Year)
	}

	arc, err := archive.New(a.opts.Fetcher, archive.Options{
		SaveDir:      a.opts.SaveDir,
		Venue:        p.Name(),
		Year:         req.Year,
		MaxDownloads: req.MaxDownloads,
		SkipDownload: req.SkipDownload,
		Delay:        req.Delay,
		Workers:      req.Workers,
	})
	if err != nil {
		return nil, err
	}
	return arc.Run(ctx, res.Records)
}

// refs 台账范围：venueName 为空时是保存目录下的全部台账，year 为 0 时是该会议的全部年份
func (a *App) refs(venueName string, year int) ([]ledger.Ref, error) {
	all, err := ledger.Discover(a.opts.SaveDir)
	if err != nil {
		return nil, err
	}
	if venueName == "" {
		return all, nil
	}
	canonical := a.canonical(venueName)

	var out []ledger.Ref
	for _, r := range all {
		if r.Venue == canonical && (year == 0 || r.Year == year) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (a *App) canonical(name string) string {
	if prov, ok := Get(name); ok {
		return prov.Name
	}
	return name
}

// Ledgers 保存目录下已有的台账
func (a *App) Ledgers() ([]ledger.Ref, error) {
	return a.refs("", 0)
}

// Index 把台账载入检索索引，台账不变时重复执行结果相同
func (a *App) Index(ctx context.Context, venueName string, year int) (int, error) {
	refs, err := a.refs(venueName, year)
	if err != nil {
		return 0, err
	}
	if len(refs) == 0 {
		return 0, fmt.Errorf("%s 下没有找到台账", a.opts.SaveDir)
	}

	db, err := a.catalog()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, r := range refs {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		entries, err := ledger.ReadAll(r.Path)
		if err != nil {
			return total, fmt.Errorf("读取台账 %s 失败: %w", r.Path, err)
		}
		n, err := db.UpsertBatch(entries)
		if err != nil {
			return total, fmt.Errorf("写入索引失败(%s %d): %w", r.Venue, r.Year, err)
		}
		logger.Info("已索引 %s %d: %d 条", r.Venue, r.Year, n)
		total += n
	}
	return total, nil
}

// Search 关键词检索，query 为空时按条件列出
func (a *App) Search(query string, cond models.SearchCondition) ([]*models.LedgerEntry, error) {
	db, err := a.catalog()
	if err != nil {
		return nil, err
	}
	cond = a.normalize(cond)
	if query == "" {
		return db.GetEntries(cond)
	}
	return db.SearchByKeywords(query, cond)
}

// Rank 在满足条件的行里按相关性排序，条件中的 Limit 作用于排序之后
func (a *App) Rank(query, algorithm string, cond models.SearchCondition) ([]*ir.SearchResult, error) {
	db, err := a.catalog()
	if err != nil {
		return nil, err
	}
	topK := cond.Limit
	cond = a.normalize(cond)
	cond.Limit = 0

	entries, err := db.GetEntries(cond)
	if err != nil {
		return nil, err
	}
	return ir.NewSearcher(entries).Search(ir.SearchOptions{Query: query, TopK: topK, Algorithm: algorithm})
}

func (a *App) Count(cond models.SearchCondition) (int, error) {
	db, err := a.catalog()
	if err != nil {
		return 0, err
	}
	return db.CountEntries(a.normalize(cond))
}

// Delete 只删除索引中的行，台账不受影响
func (a *App) Delete(cond models.SearchCondition) (int, error) {
	db, err := a.catalog()
	if err != nil {
		return 0, err
	}
	return db.DeleteEntries(a.normalize(cond))
}

func (a *App) normalize(cond models.SearchCondition) models.SearchCondition {
	if len(cond.Venues) == 0 {
		return cond
	}
	venues := make([]string, 0, len(cond.Venues))
	for _, v := range cond.Venues {
		venues = append(venues, a.canonical(v))
	}
	cond.Venues = venues
	return cond
}

// Export 把检索结果导出为 csv 或 json
func (a *App) Export(format, outputPath, query string, cond models.SearchCondition) (int, error) {
	logger.Info("开始导出: 格式=%s, 输出=%s", format, outputPath)

	var exp exporter.Exporter
	switch format {
	case "csv":
		exp = csv.NewCSVExporter()
	case "json":
		exp = json.NewJSONExporter()
	default:
		return 0, fmt.Errorf("不支持的导出格式: %s", format)
	}

	entries, err := a.Search(query, cond)
	if err != nil {
		return 0, fmt.Errorf("查询索引失败: %w", err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("没有找到符合条件的论文")
	}

	if err := exp.Export(entries, outputPath); err != nil {
		return 0, fmt.Errorf("导出失败: %w", err)
	}
	logger.Info("导出成功: %d 篇论文 -> %s", len(entries), outputPath)
	return len(entries), nil
}

func (a *App) ledgerEntries(venueName string, year int) (string, []*models.LedgerEntry, error) {
	name := a.canonical(venueName)
	entries, err := ledger.ReadAll(ledger.Path(a.opts.SaveDir, name, year))
	if err != nil {
		return name, nil, fmt.Errorf("读取台账失败: %w", err)
	}
	if len(entries) == 0 {
		return name, nil, fmt.Errorf("%s %d 的台账为空", name, year)
	}
	return name, entries, nil
}

// Publish 把一份台账发布为飞书多维表格，返回表格地址
func (a *App) Publish(ctx context.Context, venueName string, year int) (string, error) {
	cfg := a.opts.FeiShu
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return "", fmt.Errorf("feishu 配置不完整，请在配置文件中设置 feishu.app_id 和 feishu.app_secret")
	}

	name, entries, err := a.ledgerEntries(venueName, year)
	if err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e.Row())
	}

	var opts []feishu.Option
	if cfg.BaseURL != "" {
		opts = append(opts, feishu.WithBaseURL(cfg.BaseURL))
	}
	client := feishu.NewClient(cfg.AppID, cfg.AppSecret, opts...)

	url, err := client.UploadTable(ctx, name+" "+strconv.Itoa(year), "papers", models.LedgerHeader, rows)
	if err != nil {
		return "", fmt.Errorf("上传到飞书失败: %w", err)
	}
	logger.Info("发布到飞书成功: %d 篇论文, url=%s", len(entries), url)
	return url, nil
}

// PublishZotero 把一份台账写入 Zotero，collectionKey 为空时写入库根目录
func (a *App) PublishZotero(ctx context.Context, venueName string, year int, collectionKey string) (int, error) {
	cfg := a.opts.Zotero
	if cfg.UserID == "" || cfg.APIKey == "" {
		return 0, fmt.Errorf("zotero 配置不完整，请在配置文件中设置 zotero.user_id 和 zotero.api_key")
	}

	_, entries, err := a.ledgerEntries(venueName, year)
	if err != nil {
		return 0, err
	}

	var opts []zotero.Option
	if cfg.BaseURL != "" {
		opts = append(opts, zotero.WithBaseURL(cfg.BaseURL))
	}
	n, err := zotero.NewClient(cfg.UserID, cfg.APIKey, opts...).AddEntries(ctx, entries, collectionKey)
	if err != nil {
		return n, fmt.Errorf("添加到 Zotero 失败: %w", err)
	}
	logger.Info("导出到 Zotero 成功: %d 篇论文", n)
	return n, nil
}

// Verify 审计台账与产物目录
func (a *App) Verify(venueName string, year int, checkPDF bool) (*archive.AuditReport, error) {
	return archive.Audit(a.opts.SaveDir, a.canonical(venueName), year, checkPDF)
}
