package venue

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespace = regexp.MustCompile(`\s+`)

// LoadDocument 读取并解析一份本地 HTML 文档，文件缺失或不可读时返回错误
func LoadDocument(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}
	return doc, nil
}

// LoadDocuments 按顺序加载多份文档，任何一份失败则整体失败
func LoadDocuments(paths []string) ([]*goquery.Document, error) {
	if len(paths) == 0 {
		return nil, ErrNoDocuments
	}
	docs := make([]*goquery.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := LoadDocument(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// CleanText 折叠空白并去掉首尾空白，&nbsp; 视为空格
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// TextOr 返回选择集的清洗后文本，为空时返回 fallback
func TextOr(s *goquery.Selection, fallback string) string {
	if s == nil || s.Length() == 0 {
		return fallback
	}
	if t := CleanText(s.Text()); t != "" {
		return t
	}
	return fallback
}

// ResolveURL 把相对链接解析为绝对地址，已经是 http(s) 的原样返回
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

// LastPathSegment 取 URL 最后一段，如 arXiv 链接中的编号
func LastPathSegment(href string) string {
	href = strings.TrimSpace(href)
	if i := strings.LastIndex(href, "/"); i >= 0 {
		return href[i+1:]
	}
	return href
}
