package iclr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"PaperArchiver/internal/models"
	"PaperArchiver/pkg/download"
)

// v1 API 的笔记：content 字段是裸值
type noteV1 struct {
	ID      string `json:"id"`
	Content struct {
		Title   string   `json:"title"`
		Authors []string `json:"authors"`
		Venue   string   `json:"venue"`
	} `json:"content"`
	Details struct {
		DirectReplies []replyV1 `json:"directReplies"`
	} `json:"details"`
}

type replyV1 struct {
	Invitation string `json:"invitation"`
	Content    struct {
		Decision       string `json:"decision"`
		Recommendation string `json:"recommendation"`
	} `json:"content"`
}

// v2 API 的笔记：每个 content 字段都包在 {value: ...} 里
type noteV2 struct {
	ID      string `json:"id"`
	Content struct {
		Title struct {
			Value string `json:"value"`
		} `json:"title"`
		Authors struct {
			Value []string `json:"value"`
		} `json:"authors"`
		Venue struct {
			Value string `json:"value"`
		} `json:"venue"`
	} `json:"content"`
}

type notesPage[T any] struct {
	Notes []T `json:"notes"`
}

// session 一次查询的连接状态，token 为空时以访客身份访问
type session struct {
	base  string
	token string
}

func (a *Adapter) queryOpenReview(ctx context.Context, year int) ([]*models.Record, error) {
	if year >= a.config.V2From {
		s, err := a.connect(ctx, a.config.APIV2)
		if err != nil {
			return nil, err
		}
		params := url.Values{}
		params.Set("content.venueid", fmt.Sprintf("ICLR.cc/%d/Conference", year))
		notes, err := fetchAll[noteV2](ctx, a, s, params)
		if err != nil {
			return nil, err
		}
		return a.recordsV2(notes), nil
	}

	s, err := a.connect(ctx, a.config.APIV1)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	if year >= 2018 {
		params.Set("invitation", fmt.Sprintf("ICLR.cc/%d/Conference/-/Blind_Submission", year))
		params.Set("details", "directReplies")
	} else {
		params.Set("invitation", fmt.Sprintf("ICLR.cc/%d/conference/-/submission", year))
	}
	notes, err := fetchAll[noteV1](ctx, a, s, params)
	if err != nil {
		return nil, err
	}
	return a.recordsV1(year, notes), nil
}

// connect 有凭据时登录换取 token
func (a *Adapter) connect(ctx context.Context, base string) (*session, error) {
	s := &session{base: strings.TrimRight(base, "/")}
	if a.creds.Empty() {
		a.log.Warn("未配置 OpenReview 凭据，使用访客身份访问")
		return s, nil
	}

	body, err := json.Marshal(map[string]string{
		"id":       a.creds.Username,
		"password": a.creds.Password,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", download.DefaultUserAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openreview login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openreview login: %w", &download.StatusError{URL: s.base + "/login", StatusCode: resp.StatusCode})
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("openreview login: decode: %w", err)
	}
	if out.Token == "" {
		return nil, fmt.Errorf("openreview login: empty token")
	}
	a.log.Debug("OpenReview 登录成功: %s", a.creds.Username)
	s.token = out.Token
	return s, nil
}

// fetchAll 按 limit/offset 翻页直到返回不足一页
func fetchAll[T any](ctx context.Context, a *Adapter, s *session, params url.Values) ([]T, error) {
	var all []T
	offset := 0
	for {
		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("limit", strconv.Itoa(a.config.PageSize))
		q.Set("offset", strconv.Itoa(offset))

		apiURL := s.base + "/notes?" + q.Encode()
		a.log.Debug("请求 API: offset=%d, limit=%d", offset, a.config.PageSize)

		var page notesPage[T]
		if err := a.request(ctx, s, apiURL, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Notes...)
		offset += len(page.Notes)

		if len(page.Notes) < a.config.PageSize {
			a.log.Debug("已到最后一页，共 %d 条", len(all))
			return all, nil
		}

		if err := wait(ctx, a.config.PageDelay); err != nil {
			return nil, err
		}
	}
}

// request GET 并解码 JSON，429 和传输错误按指数退避重试
func (a *Adapter) request(ctx context.Context, s *session, apiURL string, v any) error {
	header := http.Header{}
	header.Set("Accept", "application/json")
	if s.token != "" {
		header.Set("Authorization", "Bearer "+s.token)
	}

	var lastErr error
	for attempt := 0; attempt < a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := a.config.RetryBackoff << uint(attempt-1)
			a.log.Warn("重试第 %d 次，等待 %v...", attempt, backoff)
			if err := wait(ctx, backoff); err != nil {
				return err
			}
		}

		body, err := a.fetcher.Fetch(ctx, apiURL, header)
		if err != nil {
			var se *download.StatusError
			if errors.As(err, &se) && se.StatusCode != http.StatusTooManyRequests {
				return fmt.Errorf("openreview query: %w", err)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.log.Debug("请求失败，尝试=%d: %v", attempt+1, err)
			lastErr = err
			continue
		}

		err = decode(body, v)
		if err != nil {
			return fmt.Errorf("openreview query: %w", err)
		}
		return nil
	}

	a.log.Error("超出重试次数，请稍后再试或配置代理")
	return fmt.Errorf("openreview query failed after %d attempts: %w", a.config.MaxRetries, lastErr)
}

func decode(body io.ReadCloser, v any) error {
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Adapter) pdfURL(id string) string { return a.config.PDFBase + id }

func joinAuthors(authors []string) string {
	if s := strings.Join(authors, ", "); strings.TrimSpace(s) != "" {
		return s
	}
	return models.CategoryUnknown
}

func (a *Adapter) recordsV1(year int, notes []noteV1) []*models.Record {
	records := make([]*models.Record, 0, len(notes))
	for _, n := range notes {
		var (
			category string
			ok       bool
		)
		if year >= 2018 {
			category, ok = decisionFromReplies(n.Details.DirectReplies)
		} else {
			category, ok = categoryFromVenue(n.Content.Venue)
		}
		if !ok {
			continue
		}

		switch {
		case category == "":
			a.log.Warn("无法确定录用结果，跳过: %s (%s)", n.Content.Title, n.ID)
			continue
		case strings.Contains(strings.ToLower(category), "reject"):
			a.log.Debug("拒稿，跳过: %s", n.Content.Title)
			continue
		}

		records = append(records, &models.Record{
			Title:    strings.TrimSpace(n.Content.Title),
			Authors:  joinAuthors(n.Content.Authors),
			Category: category,
			PDFURL:   a.pdfURL(n.ID),
		})
	}
	return records
}

func (a *Adapter) recordsV2(notes []noteV2) []*models.Record {
	records := make([]*models.Record, 0, len(notes))
	for _, n := range notes {
		category := strings.TrimSpace(n.Content.Venue.Value)
		switch {
		case category == "":
			a.log.Warn("无法确定录用结果，跳过: %s (%s)", n.Content.Title.Value, n.ID)
			continue
		case strings.Contains(strings.ToLower(category), "reject"):
			a.log.Debug("拒稿，跳过: %s", n.Content.Title.Value)
			continue
		}

		records = append(records, &models.Record{
			Title:    strings.TrimSpace(n.Content.Title.Value),
			Authors:  joinAuthors(n.Content.Authors.Value),
			Category: category,
			PDFURL:   a.pdfURL(n.ID),
		})
	}
	return records
}

// decisionFromReplies 在直接回复里找决定，后出现的覆盖先出现的；
// 返回空字符串表示无法确定
func decisionFromReplies(replies []replyV1) (string, bool) {
	category := ""
	for _, r := range replies {
		switch {
		case strings.Contains(r.Invitation, "/Acceptance_Decision"),
			strings.Contains(r.Invitation, "/Decision"):
			if r.Content.Decision != "" {
				category = r.Content.Decision
			}
		case strings.Contains(r.Invitation, "/Meta_Review"):
			if r.Content.Recommendation != "" {
				category = r.Content.Recommendation
			}
		}
	}
	return category, true
}

// categoryFromVenue 2017 年只有 venue 字符串；仍处于 submitted 状态的直接跳过（ok=false）
func categoryFromVenue(v string) (string, bool) {
	lower := strings.ToLower(v)
	for _, c := range []string{"poster", "oral", "spotlight", "notable"} {
		if strings.Contains(lower, c) {
			return c, true
		}
	}
	if strings.Contains(lower, "submitted") {
		return "", false
	}
	return "", true
}
