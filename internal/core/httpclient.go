package core

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"PaperArchiver/pkg/download"
)

// NewHTTPClient 创建一个通用的 HTTP 客户端
// - timeout: 整个请求的超时，下载大 PDF 时要留足
// - proxy: 代理地址，例如 "http://127.0.0.1:7890"，留空则不设置代理
func NewHTTPClient(timeout time.Duration, proxy string) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		TLSHandshakeTimeout:   30 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   4,
	}

	if proxy != "" {
		if proxyURL, err := url.Parse(proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// NewFetcher 元数据查询和产物下载共用的获取能力
func NewFetcher(client *http.Client, userAgent string) download.Fetcher {
	return download.NewHTTPFetcher(client, userAgent)
}
