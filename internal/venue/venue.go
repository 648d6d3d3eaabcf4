package venue

import (
	"context"
	"errors"
	"net/http"

	"PaperArchiver/internal/models"
	"PaperArchiver/pkg/download"
)

var (
	ErrUnsupportedYear = errors.New("unsupported year")
	ErrNoDocuments     = errors.New("no source documents")
)

// Query 一次解析的输入：年份 + 已经获取好的文档路径（远程目录类不需要文档）
type Query struct {
	Year      int
	Documents []string
}

// Result 解析结果
type Result struct {
	Total   int
	Records []*models.Record
}

// Credentials 远程目录（OpenReview）的登录凭据，由调用方显式传入
type Credentials struct {
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

func (c Credentials) Empty() bool { return c.Username == "" || c.Password == "" }

// Deps 构造解析器时注入的外部能力
type Deps struct {
	Fetcher     download.Fetcher
	HTTPClient  *http.Client
	Credentials Credentials
}

// Parser 会议解析器接口，每个会议一个实现，内部按年份选择页面布局
type Parser interface {
	Name() string

	// Layout 返回某年份默认的文档路径（相对 root）；远程目录年份返回空
	Layout(root string, year int) ([]string, error)

	// Parse 把文档或远程查询转换为统一记录
	Parse(ctx context.Context, q Query) (Result, error)

	GetConfig() Config
}

type Config interface {
	Validate() error
}

// NewResult 过滤掉不合法的记录
func NewResult(records []*models.Record) Result {
	out := make([]*models.Record, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return Result{Total: len(out), Records: out}
}
