package aaai

import (
	"github.com/PuerkitoBio/goquery"

	"PaperArchiver/internal/models"
	"PaperArchiver/internal/venue"
)

// legacyScan 旧版页面按文档顺序遍历时的折叠状态
// category 随 track 标题更新，pending 是正在收集字段的论文
type legacyScan struct {
	category string
	pending  *models.Record
	records  []*models.Record
}

func (s *legacyScan) flush() {
	if s.pending != nil {
		s.records = append(s.records, s.pending)
		s.pending = nil
	}
}

// parseLegacy 2014-2022 的页面：div.track-wrap 里的 h2 是分类，
// 每篇论文是 h5 标题 + span.papers-author-page 作者 + 文字为 PDF 的链接。
// 分类完全由文档顺序决定，论文继承它之前最近的一个 track 标题。
func (a *Adapter) parseLegacy(doc *goquery.Document) []*models.Record {
	s := &legacyScan{category: models.CategoryUnknown}

	doc.Find("*").Each(func(_ int, el *goquery.Selection) {
		switch {
		case el.Is("h2") && el.Closest("div.track-wrap").Length() > 0:
			s.flush()
			s.category = venue.TextOr(el, models.CategoryUnknown)

		case el.Is("h5"):
			s.flush()
			title := venue.TextOr(el.Find("a").First(), "")
			if title == "" {
				title = venue.CleanText(el.Text())
			}
			s.pending = &models.Record{
				Title:    title,
				Authors:  models.CategoryUnknown,
				Category: s.category,
			}

		case s.pending == nil:

		case el.Is("span.papers-author-page"):
			if authors := venue.CleanText(el.Text()); authors != "" {
				s.pending.Authors = authors
			}

		case el.Is("a") && s.pending.PDFURL == "" && venue.CleanText(el.Text()) == "PDF":
			s.pending.PDFURL, _ = el.Attr("href")
		}
	})
	s.flush()

	out := s.records[:0]
	for _, r := range s.records {
		if !r.Valid() {
			a.log.Warn("论文缺少标题或 PDF 链接，跳过: %q", r.Title)
			continue
		}
		out = append(out, r)
	}
	return out
}

// parseSectioned 2023 起的 OJS 页面：div.section > h2 分类 + div.obj_article_summary 论文
func (a *Adapter) parseSectioned(doc *goquery.Document) []*models.Record {
	var records []*models.Record

	doc.Find("div.section").Each(func(_ int, section *goquery.Selection) {
		category := venue.TextOr(section.Find("h2").First(), models.CategoryUnknown)

		section.Find("div.obj_article_summary").Each(func(_ int, article *goquery.Selection) {
			heading := article.Find("h3.title").First()
			title := venue.TextOr(heading.Find("a").First(), "")
			if title == "" {
				title = venue.TextOr(heading, "")
			}

			pdf, _ := article.Find("a.obj_galley_link.pdf").First().Attr("href")
			if title == "" || pdf == "" {
				a.log.Warn("[%s] 论文缺少标题或 PDF 链接，跳过: %q", category, title)
				return
			}

			records = append(records, &models.Record{
				Title:    title,
				Authors:  venue.TextOr(article.Find("div.authors").First(), models.CategoryUnknown),
				Category: category,
				PDFURL:   pdf,
			})
		})
	})

	return records
}
