package neurips

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"PaperArchiver/internal/models"
	"PaperArchiver/internal/venue"
)

// 摘要页地址到 PDF 地址的后缀替换，长的后缀必须排在前面
var suffixRewrites = []struct{ from, to string }{
	{"-Abstract-Conference.html", "-Paper-Conference.pdf"},
	{"-Abstract-Datasets_and_Benchmarks_Track.html", "-Paper-Datasets_and_Benchmarks_Track.pdf"},
	{"-Abstract.html", "-Paper.pdf"},
}

// li 上的 class 决定分类
var trackClasses = []string{"conference", "datasets_and_benchmarks_track"}

func (a *Adapter) parseDocument(doc *goquery.Document) []*models.Record {
	var records []*models.Record

	doc.Find(`a[title="paper title"]`).Each(func(i int, link *goquery.Selection) {
		item := link.Closest("li")
		if item.Length() == 0 {
			a.log.Debug("第 %d 个论文链接没有 li 容器，跳过", i)
			return
		}

		title := venue.CleanText(link.Text())
		href, _ := link.Attr("href")
		pdf := a.PDFURL(href)
		if title == "" || pdf == "" {
			a.log.Warn("论文条目缺少标题或链接，跳过: %q", title)
			return
		}

		records = append(records, &models.Record{
			Title:    title,
			Authors:  venue.TextOr(item.Find("i").First(), models.CategoryUnknown),
			Category: category(item),
			PDFURL:   pdf,
		})
	})

	return records
}

func category(item *goquery.Selection) string {
	for _, c := range trackClasses {
		if item.HasClass(c) {
			return c
		}
	}
	return models.CategoryUnknown
}

// PDFURL 把摘要页相对地址改写为 PDF 地址
func (a *Adapter) PDFURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	href = strings.Replace(href, "/hash/", "/file/", 1)
	for _, r := range suffixRewrites {
		if strings.HasSuffix(href, r.from) {
			href = strings.TrimSuffix(href, r.from) + r.to
			break
		}
	}
	return venue.ResolveURL(a.config.BaseURL, href)
}
