package ijcai

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"PaperArchiver/internal/models"
	"PaperArchiver/internal/venue"
)

// parseDocument 有 div.section 的是 2017 起的新版页面，否则按 2015/2016 的旧版处理
func (a *Adapter) parseDocument(doc *goquery.Document, year int) []*models.Record {
	if sections := doc.Find("div.section"); sections.Length() > 0 {
		return a.parseSections(sections, year)
	}
	return a.parseBlocks(doc)
}

func (a *Adapter) parseSections(sections *goquery.Selection, year int) []*models.Record {
	base := a.config.proceedingsURL(year)
	var records []*models.Record

	sections.Each(func(_ int, section *goquery.Selection) {
		track := venue.TextOr(section.Find("div.section_title h3").First(), models.CategoryUnknown)

		section.Find("div.subsection").Each(func(_ int, sub *goquery.Selection) {
			category := venue.TextOr(sub.Find("div.subsection_title").First(), track)

			sub.Find("div.paper_wrapper").Each(func(_ int, paper *goquery.Selection) {
				title := venue.TextOr(paper.Find("div.title").First(), "")

				var pdf string
				paper.Find("div.details a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
					if venue.CleanText(link.Text()) != "PDF" {
						return true
					}
					href, _ := link.Attr("href")
					pdf = venue.ResolveURL(base, href)
					return false
				})
				if title == "" || pdf == "" {
					a.log.Debug("[%s] 论文缺少标题或 PDF 链接，跳过: %q", category, title)
					return
				}

				records = append(records, &models.Record{
					Title:    title,
					Authors:  venue.TextOr(paper.Find("div.authors").First(), models.CategoryUnknown),
					Category: category,
					PDFURL:   pdf,
				})
			})
		})
	})

	return records
}

// parseBlocks 旧版页面：h3 是分类，每个 p 是一篇论文，
// p 的第一个文本节点形如 "标题 / 页码"，作者在 em（2015）或 i（2016）里
func (a *Adapter) parseBlocks(doc *goquery.Document) []*models.Record {
	category := a.config.MainTrack
	var records []*models.Record

	doc.Find("h3, p").Each(func(_ int, el *goquery.Selection) {
		if el.Is("h3") {
			text := venue.CleanText(el.Text())
			lower := strings.ToLower(text)
			if text == "" || strings.HasPrefix(lower, "edited by") ||
				strings.Contains(lower, "sponsor") || strings.Contains(lower, "published by") {
				return
			}
			category = text
			return
		}

		if r := a.parseBlock(el); r != nil {
			r.Category = category
			records = append(records, r)
		}
	})

	return records
}

func (a *Adapter) parseBlock(p *goquery.Selection) *models.Record {
	contents := p.Contents()
	if contents.Length() < 5 {
		return nil
	}
	lead := contents.First()
	if goquery.NodeName(lead) != "#text" {
		return nil
	}
	title, _, _ := strings.Cut(lead.Text(), "/")
	title = venue.CleanText(title)
	if title == "" {
		return nil
	}

	authors := models.CategoryUnknown
	for _, tag := range []string{"em", "i"} {
		if em := p.ChildrenFiltered(tag).First(); em.Length() > 0 {
			authors = venue.TextOr(em, models.CategoryUnknown)
			break
		}
	}

	var pdf string
	p.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, ok := link.Attr("href")
		if !ok || href == "" || strings.ToUpper(venue.CleanText(link.Text())) != "PDF" {
			return true
		}
		pdf = venue.ResolveURL(a.config.BaseURL+"/", href)
		return false
	})
	if pdf == "" {
		return nil
	}

	return &models.Record{Title: title, Authors: authors, PDFURL: pdf}
}
