package iclr

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"PaperArchiver/internal/models"
	"PaperArchiver/internal/venue"
)

var (
	oralDays = map[string]bool{
		"Monday April 14:":    true,
		"Tuesday April 15:":   true,
		"Wednesday April 16:": true,
	}
	posterHeaders = map[string]string{
		"Conference Posters:": "poster",
		"Workshop Posters:":   "workshop",
	}
	// 2015/2016 的分节标题
	sectionHeaders = map[string]string{
		"Oral Presentations":                     "oral",
		"Poster Presentations":                   "poster",
		"Main Conference - Oral Presentations":   "oral",
		"Main Conference - Poster Presentations": "poster",
	}
)

func (a *Adapter) parseStatic(ctx context.Context, q venue.Query, parse func(*goquery.Document) []*models.Record) ([]*models.Record, error) {
	docs, err := venue.LoadDocuments(q.Documents)
	if err != nil {
		return nil, err
	}
	var records []*models.Record
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records = append(records, parse(doc)...)
	}
	return records, nil
}

func (a *Adapter) arxivPDF(href string) string {
	id := venue.LastPathSegment(href)
	if id == "" {
		return ""
	}
	return a.config.ArxivBase + id + ".pdf"
}

// parse2014 按文档顺序遍历 font 和 p：大号字体是会话标题，带链接的元素是论文，
// 作者在其后的第一个兄弟 p 里
func (a *Adapter) parse2014(doc *goquery.Document) []*models.Record {
	type key struct{ title, authors, id string }

	session := models.CategoryUnknown
	seen := make(map[key]bool)
	var records []*models.Record

	doc.Find("font, p").Each(func(_ int, el *goquery.Selection) {
		text := venue.CleanText(el.Text())

		if el.Is("font") {
			switch size, _ := el.Attr("size"); {
			case size == "5" && oralDays[text]:
				session = "oral"
				return
			case size == "4" && posterHeaders[text] != "":
				session = posterHeaders[text]
				return
			}
		}

		link := el.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		title := venue.CleanText(link.Text())
		authors := venue.TextOr(el.NextAllFiltered("p").First(), models.CategoryUnknown)
		id := venue.LastPathSegment(href)

		k := key{title, authors, id}
		if seen[k] {
			return
		}
		seen[k] = true

		if title == "" {
			a.log.Debug("链接没有标题文本，跳过: %s", href)
			return
		}
		records = append(records, &models.Record{
			Title:    title,
			Authors:  authors,
			Category: session,
			PDFURL:   a.arxivPDF(href),
		})
	})

	return records
}

// parseSections 2015/2016：已知的 h3 分节标题之后的第一个 ol 是该分节的论文列表，
// 只收 arXiv 链接
func (a *Adapter) parseSections(doc *goquery.Document) []*models.Record {
	var (
		records []*models.Record
		pending string
		used    = make(map[string]bool)
	)

	doc.Find("h3, ol").Each(func(_ int, el *goquery.Selection) {
		if el.Is("h3") {
			title := strings.TrimSpace(el.Text())
			if category, ok := sectionHeaders[title]; ok && !used[title] {
				used[title] = true
				pending = category
			}
			return
		}
		if pending == "" {
			return
		}
		category := pending
		pending = ""

		el.Find("li").Each(func(_ int, li *goquery.Selection) {
			link := li.Find("a").First()
			href, _ := link.Attr("href")
			if !strings.Contains(href, "arxiv.org") {
				return
			}
			raw := strings.TrimSpace(link.Text())
			if raw == "" {
				return
			}

			authors := strings.TrimSpace(strings.ReplaceAll(li.Text(), raw, ""))
			authors = strings.ReplaceAll(authors, "  ", " ")
			authors = strings.ReplaceAll(authors, "[code]\n", "")
			authors = strings.TrimPrefix(authors, ", ")
			authors = venue.CleanText(authors)
			if authors == "" {
				authors = models.CategoryUnknown
			}

			records = append(records, &models.Record{
				Title:    venue.CleanText(raw),
				Authors:  authors,
				Category: category,
				PDFURL:   a.arxivPDF(href),
			})
		})
	})

	return records
}
