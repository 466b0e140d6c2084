package patterns

import "regexp"

// RefNumbering is one supported reference numbering scheme, anchored to a
// line start. Group 1 is the entry number, group 2 the entry body.
type RefNumbering struct {
	Name string
	Expr *regexp.Regexp
}

var refNumberings = []RefNumbering{
	{Name: "fullwidth_bracket", Expr: regexp.MustCompile(`^［(\d+)］\s*(.+)$`)},
	{Name: "halfwidth_bracket", Expr: regexp.MustCompile(`^\[(\d+)\]\s*(.+)$`)},
	{Name: "dotted", Expr: regexp.MustCompile(`^(\d+)\.\s*([^\d\s].*)$`)},
	{Name: "parenthesized", Expr: regexp.MustCompile(`^[（(](\d+)[）)]\s*(.+)$`)},
}

// RefNumberings returns the numbering-scheme table in priority order.
func (l *Library) RefNumberings() []RefNumbering { return refNumberings }

var refTitleExprs = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#+\s*参考文献\s*$`),
	regexp.MustCompile(`(?m)^参考文献\s*$`),
	regexp.MustCompile(`(?mi)^References\s*$`),
	regexp.MustCompile(`参\s*考\s*文\s*献`),
}

// RefTitleExprs returns the reference-list title patterns in priority order.
func (l *Library) RefTitleExprs() []*regexp.Regexp { return refTitleExprs }

// RefTerminators are the trailing-section keywords that bound the reference
// list. "致谢与声明" must precede "致谢" so the longer marker wins.
var refTerminators = []string{
	"致谢与声明",
	"致谢",
	"ACKNOWLEDGMENT",
	"ACKNOWLEDGEMENT",
	"附录",
	"APPENDIX",
	"个人简历",
	"作者简介",
	"攻读学位期间发表",
}

// RefTerminators returns the reference-list terminator keywords in order.
func (l *Library) RefTerminators() []string { return refTerminators }

// yearExpr matches a plausible publication year.
var yearExpr = regexp.MustCompile(`19\d{2}|20\d{2}`)

// YearExpr returns the publication-year pattern.
func (l *Library) YearExpr() *regexp.Regexp { return yearExpr }

// publicationKeywords signal a journal, conference, or publisher name.
var publicationKeywords = []string{
	"Journal", "Proceedings", "Conference", "IEEE", "ACM",
	"Nature", "Science", "Physical Review", "Applied Physics", "et al",
	"期刊", "会议", "学报", "论文集", "出版社", "学院学报",
	"大学学报", "师范大学", "大学出版社", "人民出版社",
	"硕士", "博士", "学位论文", "毕业论文", "年第", "期", "页",
	"编", "著", "主编", "卷", "册", "版",
}

// PublicationKeywords returns the publisher/journal keyword list.
func (l *Library) PublicationKeywords() []string { return publicationKeywords }

// authorExprs match author-name shapes in either language.
var authorExprs = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z]\.\s*[A-Z]`),          // initials: "J. K."
	regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z]\b`),    // surname + initial: "Smith J"
	regexp.MustCompile(`et al`),
	regexp.MustCompile(`等`),
	regexp.MustCompile(`[\p{Han}]{2,4}[：:]`),
	regexp.MustCompile(`[\p{Han}]{2,4}(?:主编|编|著)`),
}

// AuthorExprs returns the author-name pattern list.
func (l *Library) AuthorExprs() []*regexp.Regexp { return authorExprs }
