package aaai

import (
	"context"
	"fmt"
	"path/filepath"

	"PaperArchiver/internal/models"
	"PaperArchiver/internal/venue"
	"PaperArchiver/pkg/logger"
)

const Name = "AAAI"

type Adapter struct {
	config *Config
	log    *logger.Logger
}

func NewAdapter(config *Config) (*Adapter, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Adapter{config: config, log: logger.WithPrefix(Name)}, nil
}

func (a *Adapter) Name() string { return Name }

func (a *Adapter) GetConfig() venue.Config { return a.config }

// Layout 2020 年起页面按 track 拆成多个文件：<year>-track1.html ... <year>-trackN.html
func (a *Adapter) Layout(root string, year int) ([]string, error) {
	if year < a.config.MinYear {
		return nil, fmt.Errorf("%s %d: %w", Name, year, venue.ErrUnsupportedYear)
	}
	dir := filepath.Join(root, a.config.Dir)
	n := a.config.Tracks[year]
	if n == 0 {
		return []string{filepath.Join(dir, fmt.Sprintf("%d.html", year))}, nil
	}
	paths := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		paths = append(paths, filepath.Join(dir, fmt.Sprintf("%d-track%d.html", year, i)))
	}
	return paths, nil
}

func (a *Adapter) Parse(ctx context.Context, q venue.Query) (venue.Result, error) {
	if q.Year < a.config.MinYear {
		return venue.Result{}, fmt.Errorf("%s %d: %w", Name, q.Year, venue.ErrUnsupportedYear)
	}
	docs, err := venue.LoadDocuments(q.Documents)
	if err != nil {
		return venue.Result{}, err
	}

	parse := a.parseLegacy
	if q.Year >= a.config.SectionedFrom {
		parse = a.parseSectioned
	}

	var records []*models.Record
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return venue.Result{}, err
		}
		recs := parse(doc)
		a.log.Debug("文档 %s: %d 篇论文", q.Documents[i], len(recs))
		records = append(records, recs...)
	}

	a.log.Info("%d 年解析完成，共 %d 篇论文", q.Year, len(records))
	return venue.NewResult(records), nil
}
