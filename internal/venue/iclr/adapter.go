package iclr

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"PaperArchiver/internal/models"
	"PaperArchiver/internal/venue"
	"PaperArchiver/pkg/download"
	"PaperArchiver/pkg/logger"
)

const Name = "ICLR"

type Adapter struct {
	config     *Config
	fetcher    download.Fetcher
	httpClient *http.Client
	creds      venue.Credentials
	log        *logger.Logger
}

func NewAdapter(config *Config, deps venue.Deps) (*Adapter, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := deps.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = download.NewHTTPFetcher(client, "")
	}

	return &Adapter{
		config:     config,
		fetcher:    fetcher,
		httpClient: client,
		creds:      deps.Credentials,
		log:        logger.WithPrefix(Name),
	}, nil
}

func (a *Adapter) Name() string { return Name }

func (a *Adapter) GetConfig() venue.Config { return a.config }

// Layout OpenReview 年份不需要本地文档
func (a *Adapter) Layout(root string, year int) ([]string, error) {
	if year < a.config.MinYear {
		return nil, fmt.Errorf("%s %d: %w", Name, year, venue.ErrUnsupportedYear)
	}
	if year >= a.config.OpenReviewFrom {
		return nil, nil
	}
	return []string{filepath.Join(root, a.config.Dir, strconv.Itoa(year)+".html")}, nil
}

func (a *Adapter) Parse(ctx context.Context, q venue.Query) (venue.Result, error) {
	if q.Year < a.config.MinYear {
		return venue.Result{}, fmt.Errorf("%s %d: %w", Name, q.Year, venue.ErrUnsupportedYear)
	}

	var (
		records []*models.Record
		err     error
	)
	switch {
	case q.Year >= a.config.OpenReviewFrom:
		records, err = a.queryOpenReview(ctx, q.Year)
	case q.Year == 2014:
		records, err = a.parseStatic(ctx, q, a.parse2014)
	default:
		records, err = a.parseStatic(ctx, q, a.parseSections)
	}
	if err != nil {
		return venue.Result{}, err
	}

	a.log.Info("%d 年解析完成，共 %d 篇论文", q.Year, len(records))
	return venue.NewResult(records), nil
}
