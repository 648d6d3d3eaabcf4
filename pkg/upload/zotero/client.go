package zotero

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"PaperArchiver/internal/models"
	"PaperArchiver/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.zotero.org"
	// 单次写入的条目上限
	batchSize = 50
)

type Client struct {
	userID     string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	// 批次之间至少间隔一秒，避免 429
	limiter *rate.Limiter
	log     *logger.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
		} else {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

func NewClient(userID, apiKey string, opts ...Option) *Client {
	c := &Client{
		userID:     userID,
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		log:        logger.WithPrefix("Zotero"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AddEntries 把台账行作为会议论文写入 Zotero，返回成功条数
// 某一批中个别条目失败只记日志；请求本身失败则中止
func (c *Client) AddEntries(ctx context.Context, entries []*models.LedgerEntry, collectionKey string) (int, error) {
	if c.userID == "" || c.apiKey == "" {
		return 0, fmt.Errorf("zotero user id and api key are required")
	}
	if collectionKey != "" && !isValidCollectionKey(collectionKey) {
		return 0, fmt.Errorf("invalid collection key: %q", collectionKey)
	}

	added := 0
	for start := 0; start < len(entries); start += batchSize {
		end := min(start+batchSize, len(entries))
		if err := c.limiter.Wait(ctx); err != nil {
			return added, err
		}

		items := make([]ItemData, 0, end-start)
		for _, e := range entries[start:end] {
			items = append(items, toItem(e, collectionKey))
		}
		n, err := c.createItems(ctx, items)
		added += n
		if err != nil {
			return added, fmt.Errorf("failed to add batch %d-%d: %w", start+1, end, err)
		}
		c.log.Info("已写入 %d-%d", start+1, end)
	}
	return added, nil
}

func (c *Client) createItems(ctx context.Context, items []ItemData) (int, error) {
	body, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal items: %w", err)
	}

	url := fmt.Sprintf("%s/users/%s/items", c.baseURL, c.userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Zotero-API-Version", "3")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("API returned error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result CreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	for key, failed := range result.Failed {
		c.log.Warn("条目 %s 写入失败: %s", key, failed.Message)
	}
	return len(result.Successful) + len(result.Unchanged), nil
}

func toItem(e *models.LedgerEntry, collectionKey string) ItemData {
	item := ItemData{
		ItemType:       "conferencePaper",
		Title:          e.Title,
		Creators:       authorsToCreators(e.Authors),
		Date:           strconv.Itoa(e.Year),
		URL:            e.PDFURL,
		ConferenceName: e.Venue,
		Extra:          "filename: " + e.Filename,
		Tags:           []Tag{{Tag: strings.ToLower(e.Venue), Type: 1}},
	}
	if e.Category != "" && e.Category != models.CategoryUnknown {
		item.Tags = append(item.Tags, Tag{Tag: e.Category, Type: 1})
	}
	if collectionKey != "" {
		item.Collections = []string{collectionKey}
	}
	return item
}

// authorsToCreators 逗号分隔的作者串拆为 Creator，最后一个词作为姓
func authorsToCreators(authors string) []Creator {
	if authors == "" || authors == models.CategoryUnknown {
		return nil
	}
	var creators []Creator
	for _, name := range strings.Split(authors, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		parts := strings.Fields(name)
		if len(parts) >= 2 {
			creators = append(creators, Creator{
				CreatorType: "author",
				FirstName:   strings.Join(parts[:len(parts)-1], " "),
				LastName:    parts[len(parts)-1],
			})
		} else {
			creators = append(creators, Creator{CreatorType: "author", Name: name})
		}
	}
	return creators
}

func isValidCollectionKey(key string) bool {
	if len(key) < 6 || len(key) > 10 {
		return false
	}
	for _, r := range key {
		if !((r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			return false
		}
	}
	return true
}
