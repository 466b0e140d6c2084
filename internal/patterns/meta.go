package patterns

import "regexp"

// fieldPattern is one prioritized extractor for a front-matter field.
// Group 1 of the expression captures the field value.
type fieldPattern struct {
	expr *regexp.Regexp
}

func compileMetaPatterns() map[string][]*fieldPattern {
	raw := map[string][]string{
		"thesis_number": {
			`论文编号[：:]\s*([A-Z0-9\-\.]+)`,
			`编号[：:]\s*([A-Z0-9\-\.]+)`,
			`分类号[：:]\s*([A-Z0-9\-\.]+)`,
			`UDC[：:]\s*([A-Z0-9\-\.]+)`,
		},
		"title_cn": {
			`(?:中文)?(?:论文)?题目[：:\s]*([^\n\r]{10,200})`,
			`(?:论文)?标题[：:\s]*([^\n\r]{10,200})`,
		},
		"author_cn": {
			`(?:作者姓名|作者|姓名)[：:\s]*([^\d\n\r]{2,10})`,
			`研究生[：:\s]*([^\d\n\r]{2,10})`,
		},
		"title_en": {
			`(?:English\s+)?(?:Title|TITLE)[：:\s]*([A-Za-z\s\-:]{10,200})`,
		},
		"author_en": {
			`(?:Author|Name)[：:\s]*([A-Za-z\s]{2,30})`,
			`(?:By|by)[：:\s]*([A-Za-z\s]{2,30})`,
		},
		"university_cn": {
			`([^A-Za-z\n\r]{2,20}大学)`,
			`([^A-Za-z\n\r]{2,20}学院)`,
		},
		"degree_level": {
			`(博士|硕士|学士)(?:学位|研究生)?`,
			`(PhD|Master|Bachelor)`,
		},
		"major_cn": {
			`(?:专业|学科)[：:\s]*([^\n\r]{2,50})`,
			`(?:Major|MAJOR)[：:\s]*([^\n\r]{2,50})`,
		},
		"college": {
			`(?:学院|系)[：:\s]*([^\n\r]{2,50})`,
			`(?:College|School)[：:\s]*([^\n\r]{2,50})`,
		},
		"supervisor_cn": {
			`(?:导师|指导教师)[：:\s]*([^\d\n\r]{2,10})`,
		},
		"supervisor_en": {
			`(?:Supervisor|SUPERVISOR)[：:\s]*([A-Za-z\s\.]+?)(?:\n|[，,]|$)`,
			`(?:Advisor|ADVISOR)[：:\s]*([A-Za-z\s\.]+?)(?:\n|[，,]|$)`,
			`((?:Prof\.|Professor|Dr\.)\s+[A-Za-z\s]+?)(?:\n|[，,]|$)`,
		},
		"defense_date": {
			`(?:答辩|Defense)(?:日期|Date)[：:\s]*(\d{4}[-/年]\d{1,2}[-/月]\d{1,2})`,
			`(\d{4}[-/]\d{1,2}[-/]\d{1,2})`,
		},
		"keywords_cn": {
			`关键词[：:\s]*([^\n\r]{5,200})`,
		},
		"keywords_en": {
			`(?:Keywords?|KEY\s+WORDS?)[：:\s]*([A-Za-z\s,;]{5,200})`,
		},
	}

	out := make(map[string][]*fieldPattern, len(raw))
	for field, exprs := range raw {
		for _, e := range exprs {
			out[field] = append(out[field], &fieldPattern{expr: regexp.MustCompile(e)})
		}
	}
	return out
}

// MetaField runs the prioritized pattern list for one front-matter field
// over the text and returns the first capture. The boolean reports whether
// any pattern matched; a miss is a normal outcome, not an error.
func (l *Library) MetaField(field, text string) (string, bool) {
	for _, fp := range l.meta[field] {
		if m := fp.expr.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// MetaFields lists the fields the library has front-matter patterns for.
func (l *Library) MetaFields() []string {
	fields := make([]string, 0, len(l.meta))
	for f := range l.meta {
		fields = append(fields, f)
	}
	return fields
}
