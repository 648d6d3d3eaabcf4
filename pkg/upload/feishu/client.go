package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkbitable "github.com/larksuite/oapi-sdk-go/v3/service/bitable/v1"

	"PaperArchiver/pkg/logger"
)

const (
	DefaultBaseURL = "https://open.feishu.cn"
	// 单次 batch_create 的记录上限
	maxBatch = 500
	// 文本字段
	fieldTypeText = 1
)

// Client 把表格数据发布为飞书多维表格
type Client struct {
	appID      string
	appSecret  string
	baseURL    string
	httpClient *http.Client
	lark       *lark.Client
	log        *logger.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func NewClient(appID, appSecret string, opts ...Option) *Client {
	c := &Client{
		appID:      appID,
		appSecret:  appSecret,
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		log:        logger.WithPrefix("FeiShu"),
	}
	for _, o := range opts {
		o(c)
	}
	c.lark = lark.NewClient(appID, appSecret,
		lark.WithOpenBaseUrl(c.baseURL),
		lark.WithHttpClient(c.httpClient),
	)
	return c
}

// tenantAccessToken 获取 Tenant Access Token
func (c *Client) tenantAccessToken(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"app_id":     c.appID,
		"app_secret": c.appSecret,
	})
	if err != nil {
		return "", fmt.Errorf("marshal data error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/open-apis/auth/v3/tenant_access_token/internal", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request error: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Code              int    `json:"code"`
		Msg               string `json:"msg"`
		TenantAccessToken string `json:"tenant_access_token"`
		Expire            int    `json:"expire"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response error: %w", err)
	}
	if result.Code != 0 {
		return "", fmt.Errorf("API error: code=%d, msg=%s", result.Code, result.Msg)
	}
	if result.TenantAccessToken == "" {
		return "", errors.New("empty tenant access token")
	}
	return result.TenantAccessToken, nil
}

// createBitable 创建多维表格，返回 app token 和访问链接
func (c *Client) createBitable(ctx context.Context, name, token string) (string, string, error) {
	req := larkbitable.NewCreateAppReqBuilder().
		ReqApp(larkbitable.NewReqAppBuilder().
			Name(name).
			Build()).
		Build()

	resp, err := c.lark.Bitable.V1.App.Create(ctx, req, larkcore.WithTenantAccessToken(token))
	if err != nil {
		return "", "", fmt.Errorf("create bitable error: %w", err)
	}
	if !resp.Success() {
		return "", "", fmt.Errorf("create bitable failed: logId=%s, error=%s",
			resp.RequestId(), larkcore.Prettify(resp.CodeError))
	}
	if resp.Data == nil || resp.Data.App == nil || resp.Data.App.AppToken == nil {
		return "", "", errors.New("create bitable: empty app token")
	}

	url := ""
	if resp.Data.App.Url != nil {
		url = *resp.Data.App.Url
	}
	return *resp.Data.App.AppToken, url, nil
}

func (c *Client) createTable(ctx context.Context, appToken, tableName string, headers []string, token string) (string, error) {
	req := larkbitable.NewCreateAppTableReqBuilder().
		AppToken(appToken).
		Body(larkbitable.NewCreateAppTableReqBodyBuilder().
			Table(larkbitable.NewReqTableBuilder().
				Name(tableName).
				DefaultViewName("默认视图").
				Fields(tableFields(headers)).
				Build()).
			Build()).
		Build()

	resp, err := c.lark.Bitable.V1.AppTable.Create(ctx, req, larkcore.WithTenantAccessToken(token))
	if err != nil {
		return "", fmt.Errorf("create table error: %w", err)
	}
	if !resp.Success() {
		return "", fmt.Errorf("create table failed: logId=%s, error=%s",
			resp.RequestId(), larkcore.Prettify(resp.CodeError))
	}
	if resp.Data == nil || resp.Data.TableId == nil {
		return "", errors.New("tableId is nil")
	}
	return *resp.Data.TableId, nil
}

func (c *Client) addRecords(ctx context.Context, appToken, tableID string, records []*larkbitable.AppTableRecord, token string) error {
	for _, batch := range batches(records, maxBatch) {
		req := larkbitable.NewBatchCreateAppTableRecordReqBuilder().
			AppToken(appToken).
			TableId(tableID).
			Body(larkbitable.NewBatchCreateAppTableRecordReqBodyBuilder().
				Records(batch).
				Build()).
			Build()

		resp, err := c.lark.Bitable.V1.AppTableRecord.BatchCreate(ctx, req, larkcore.WithTenantAccessToken(token))
		if err != nil {
			return fmt.Errorf("add records error: %w", err)
		}
		if !resp.Success() {
			return fmt.Errorf("add records failed: logId=%s, error=%s",
				resp.RequestId(), larkcore.Prettify(resp.CodeError))
		}
		c.log.Debug("已写入 %d 条记录", len(batch))
	}
	return nil
}

// UploadTable 新建一个多维表格，把 headers/rows 写进名为 tableName 的数据表，返回访问链接
func (c *Client) UploadTable(ctx context.Context, name, tableName string, headers []string, rows [][]string) (string, error) {
	if c.appID == "" || c.appSecret == "" {
		return "", errors.New("feishu app_id and app_secret are required")
	}
	if len(headers) == 0 {
		return "", errors.New("no columns to upload")
	}

	c.log.Info("上传 %d 列，%d 行数据到多维表格 %q", len(headers), len(rows), name)

	token, err := c.tenantAccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("获取 tenant access token 失败: %w", err)
	}

	appToken, url, err := c.createBitable(ctx, name, token)
	if err != nil {
		return "", fmt.Errorf("创建多维表格失败: %w", err)
	}

	tableID, err := c.createTable(ctx, appToken, tableName, headers, token)
	if err != nil {
		return "", fmt.Errorf("创建数据表失败: %w", err)
	}

	if err := c.addRecords(ctx, appToken, tableID, toRecords(headers, rows), token); err != nil {
		return "", fmt.Errorf("添加记录失败: %w", err)
	}

	return url, nil
}

func tableFields(headers []string) []*larkbitable.AppTableCreateHeader {
	fields := make([]*larkbitable.AppTableCreateHeader, len(headers))
	for i, h := range headers {
		fields[i] = larkbitable.NewAppTableCreateHeaderBuilder().
			FieldName(h).
			Type(fieldTypeText).
			Build()
	}
	return fields
}

// toRecords 每行按列名映射成一条记录，缺失的列留空
func toRecords(headers []string, rows [][]string) []*larkbitable.AppTableRecord {
	records := make([]*larkbitable.AppTableRecord, len(rows))
	for i, row := range rows {
		fields := make(map[string]interface{}, len(headers))
		for j, h := range headers {
			if j < len(row) {
				fields[h] = row[j]
			}
		}
		records[i] = larkbitable.NewAppTableRecordBuilder().
			Fields(fields).
			Build()
	}
	return records
}

func batches[T any](items []T, size int) [][]T {
	var out [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}
