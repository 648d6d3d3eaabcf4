package ijcai

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"PaperArchiver/internal/models"
	"PaperArchiver/internal/venue"
	"PaperArchiver/pkg/logger"
)

const Name = "IJCAI"

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

func (a *Adapter) Layout(root string, year int) ([]string, error) {
	if year < a.config.MinYear {
		return nil, fmt.Errorf("%s %d: %w", Name, year, venue.ErrUnsupportedYear)
	}
	return []string{filepath.Join(root, a.config.Dir, strconv.Itoa(year)+".html")}, nil
}

func (a *Adapter) Parse(ctx context.Context, q venue.Query) (venue.Result, error) {
	if q.Year < a.config.MinYear {
		return venue.Result{}, fmt.Errorf("%s %d: %w", Name, q.Year, venue.ErrUnsupportedYear)
	}
	docs, err := venue.LoadDocuments(q.Documents)
	if err != nil {
		return venue.Result{}, err
	}

	var records []*models.Record
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return venue.Result{}, err
		}
		records = append(records, a.parseDocument(doc, q.Year)...)
	}

	a.log.Info("%d 年解析完成，共 %d 篇论文", q.Year, len(records))
	return venue.NewResult(records), nil
}
