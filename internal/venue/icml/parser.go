package icml

import (
	"github.com/PuerkitoBio/goquery"

	"PaperArchiver/internal/models"
	"PaperArchiver/internal/venue"
)

// parseDocument PMLR 的论文列表：每篇论文一个 div.paper
func (a *Adapter) parseDocument(doc *goquery.Document) []*models.Record {
	var records []*models.Record

	doc.Find("div.paper").Each(func(i int, paper *goquery.Selection) {
		title := venue.TextOr(paper.Find("p.title").First(), "")
		if title == "" {
			a.log.Warn("第 %d 篇论文没有标题，跳过", i+1)
			return
		}

		pdf := ""
		paper.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			if venue.CleanText(link.Text()) != a.config.PDFLinkText {
				return true
			}
			pdf, _ = link.Attr("href")
			return false
		})
		if pdf == "" {
			a.log.Warn("没有找到 PDF，跳过: %s", title)
			return
		}

		records = append(records, &models.Record{
			Title:    title,
			Authors:  venue.TextOr(paper.Find("span.authors").First(), models.CategoryUnknown),
			Category: models.CategoryUnknown,
			PDFURL:   pdf,
		})
	})

	return records
}
