// Package naming 根据 (会议, 年份, 标题) 生成稳定、可读且长度受限的归档文件名
package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MaxFilenameLength = 255
	Extension         = ".pdf"
	HashLength        = 8
	Separator         = "__"

	slugSeparator = '_'
)

// Identity 一篇论文的归档身份
type Identity struct {
	Slug        string
	Fingerprint string
	Filename    string
}

// Name 返回归档文件名，纯函数，对任意标题（包括空标题）都有定义
func Name(venue string, year int, title string) string {
	return New(venue, year, title).Filename
}

// New 计算完整的归档身份
func New(venue string, year int, title string) Identity {
	fp := Fingerprint(venue, year, title)
	slug := Slugify(title)

	// 文件名长度按字节计算，保证不超过文件系统的上限
	maxSlug := MaxFilenameLength - len(Separator) - len(fp) - len(Extension)
	slug = truncateBytes(slug, maxSlug)

	return Identity{
		Slug:        slug,
		Fingerprint: fp,
		Filename:    slug + Separator + fp + Extension,
	}
}

// Slugify 小写化，空白折叠为下划线，去掉除字母数字和下划线外的所有字符
func Slugify(title string) string {
	title = lower(title)

	var b strings.Builder
	b.Grow(len(title))
	inSpace := false
	for _, r := range title {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteRune(slugSeparator)
			}
			inSpace = true
			continue
		}
		inSpace = false
		if r == slugSeparator || unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fingerprint sha256(venue_lower + "_" + year + "_" + title_trimmed_lower) 的前 HashLength 个十六进制字符
func Fingerprint(venue string, year int, title string) string {
	key := lower(venue) + "_" + strconv.Itoa(year) + "_" + lower(strings.TrimSpace(title))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:HashLength]
}

func lower(s string) string {
	// cases.Caser 不是并发安全的，每次新建
	return cases.Lower(language.Und).String(s)
}

// truncateBytes 截断到不超过 n 字节，且不切断多字节字符
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
