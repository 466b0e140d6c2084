// Package patterns holds the static pattern tables the extraction pipeline
// matches against: section boundary patterns, TOC classification layers,
// front-matter field patterns, and the boundary scoring rules.
//
// The tables are data, not behavior. Each pipeline stage receives a *Library
// and iterates the relevant table generically; nothing in this package keeps
// mutable state after construction.
package patterns

// SectionType identifies a recognized thesis section. The set is closed:
// every detected span and every TOC entry is tagged with one of these.
type SectionType string

const (
	SectionCover          SectionType = "cover"
	SectionAbstractCN     SectionType = "abstract_cn"
	SectionAbstractEN     SectionType = "abstract_en"
	SectionKeywordsCN     SectionType = "keywords_cn"
	SectionKeywordsEN     SectionType = "keywords_en"
	SectionTOC            SectionType = "toc"
	SectionIntroduction   SectionType = "introduction"
	SectionLiterature     SectionType = "literature"
	SectionMethodology    SectionType = "methodology"
	SectionResults        SectionType = "results"
	SectionConclusion     SectionType = "conclusion"
	SectionReferences     SectionType = "references"
	SectionAcknowledgement SectionType = "acknowledgement"
	SectionAchievements   SectionType = "achievements"
	SectionAuthorProfile  SectionType = "author_profile"
	SectionAppendix       SectionType = "appendix"
	SectionDeclaration    SectionType = "declaration"
	SectionCopyright      SectionType = "copyright"

	// Types produced only by TOC classification.
	SectionChapter    SectionType = "chapter"
	SectionSubsection SectionType = "section"
	SectionUnknown    SectionType = "unknown"
)

// Thresholds carries the empirically tuned constants the pattern tables
// depend on. They vary across document corpora, so callers construct them
// from configuration rather than relying on the defaults.
type Thresholds struct {
	AbstractMinLen   int // minimum rune count for an abstract span
	AbstractMaxLen   int // abstracts longer than this score lower
	ConclusionMinLen int // minimum rune count for a conclusion span
	SectionMinLen    int // minimum rune count for any other section span
	TitleMaxLen      int // first-line title fallback cap, in runes

	RefMinEntryLen   int // minimum rune count for a reference entry body
	RefNumberCeiling int // entry numbers above this are misrecognized volume/issue digits
	RefJumpTolerance int // max allowed gap past the next expected entry number (last+1)
	RefMinYield      int // below this count the extractor defers to the model backend

	AnchorWindow      int // XML window for the last navigation anchor
	AnchorTextBudget  int // stop collecting anchor text runs past this length
	AnchorTruncateCN  int // anchor title truncation for Chinese text, runes
	AnchorTruncateEN  int // anchor title truncation for non-Chinese text, words
}

// DefaultThresholds returns the tuned values from the reference corpus.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AbstractMinLen:   100,
		AbstractMaxLen:   2000,
		ConclusionMinLen: 200,
		SectionMinLen:    50,
		TitleMaxLen:      60,

		RefMinEntryLen:   20,
		RefNumberCeiling: 1000,
		RefJumpTolerance: 5,
		RefMinYield:      3,

		AnchorWindow:     2000,
		AnchorTextBudget: 100,
		AnchorTruncateCN: 30,
		AnchorTruncateEN: 20,
	}
}

// Library bundles every pattern table behind one immutable handle.
type Library struct {
	thresholds Thresholds

	boundaries []*BoundaryPattern
	scoreRules []ScoreRule

	tocChapter []*TocPattern
	tocNumbered []*TocPattern
	tocSpecial []*TocPattern

	meta map[string][]*fieldPattern
}

// NewLibrary compiles the full pattern library with the given thresholds.
func NewLibrary(t Thresholds) *Library {
	lib := &Library{thresholds: t}
	lib.boundaries = compileBoundaryPatterns(t)
	lib.scoreRules = defaultScoreRules(t)
	lib.tocChapter, lib.tocNumbered, lib.tocSpecial = compileTocPatterns()
	lib.meta = compileMetaPatterns()
	return lib
}

// Thresholds returns the threshold set the library was built with.
func (l *Library) Thresholds() Thresholds { return l.thresholds }

// Boundaries returns the ordered boundary pattern table.
func (l *Library) Boundaries() []*BoundaryPattern { return l.boundaries }

// ScoreRules returns the boundary confidence scoring rules.
func (l *Library) ScoreRules() []ScoreRule { return l.scoreRules }
