package extract

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/papyrus-labs/quire/internal/analysis"
	"github.com/papyrus-labs/quire/internal/boundary"
	"github.com/papyrus-labs/quire/internal/config"
	"github.com/papyrus-labs/quire/internal/document"
	"github.com/papyrus-labs/quire/internal/patterns"
	"github.com/papyrus-labs/quire/internal/providers"
	"github.com/papyrus-labs/quire/internal/quality"
	"github.com/papyrus-labs/quire/internal/references"
	"github.com/papyrus-labs/quire/internal/toc"
)

// Pipeline wires the extraction stages together. It is safe for
// concurrent use; every stage reads the immutable source text only.
type Pipeline struct {
	lib       *patterns.Library
	client    providers.LLMClient
	detector  *boundary.Detector
	outline   *toc.Reconstructor
	refs      *references.Extractor
	scheduler *analysis.Scheduler
	gate      *quality.Gate
	logger    *slog.Logger
}

// New builds a pipeline from configuration. client may be nil, which
// disables every model-assisted path: the pipeline still produces a
// fully-keyed record from patterns alone.
func New(cfg *config.Config, client providers.LLMClient, logger *slog.Logger) *Pipeline {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	lib := patterns.NewLibrary(cfg.PatternThresholds())
	acfg := analysis.Config{
		MaxSectionWorkers: cfg.Defaults.MaxSectionWorkers,
		MaxEvalWorkers:    cfg.Defaults.MaxEvalWorkers,
		SectionTimeout:    time.Duration(cfg.Defaults.SectionTimeoutSeconds) * time.Second,
		EvalTimeout:       time.Duration(cfg.Defaults.EvalTimeoutSeconds) * time.Second,
	}

	var scheduler *analysis.Scheduler
	if client != nil {
		scheduler = analysis.NewScheduler(client, acfg, logger)
	}

	return &Pipeline{
		lib:       lib,
		client:    client,
		detector:  boundary.NewDetector(lib, logger),
		outline:   toc.NewReconstructor(lib, client, logger),
		refs:      references.NewExtractor(lib, client, logger),
		scheduler: scheduler,
		gate:      quality.NewGate(cfg.Quality.DegradeBelow, logger),
		logger:    logger,
	}
}

// Run extracts a record from one document. Input-quality problems never
// fail the run; only an empty document or a canceled context does. The
// record comes back fully keyed, with Quality reporting how much of it
// was actually extracted.
func (p *Pipeline) Run(ctx context.Context, doc *document.Document) (*Record, error) {
	if doc == nil || strings.TrimSpace(doc.Text) == "" {
		return nil, errors.New("document has no text")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	text := doc.Text
	sections := p.detector.Detect(text)

	// The remaining stages only read text / sections / doc, so they
	// overlap freely. Each goroutine writes its own slot and nothing
	// else; assembly happens after the barrier.
	var (
		wg         sync.WaitGroup
		outline    []toc.Entry
		refEntries []string
		refStats   references.Stats
		meta       map[string]string
		analyses   map[patterns.SectionType]*analysis.SectionAnalysis
		evaluation analysis.Evaluation
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		outline = p.reconstructOutline(ctx, doc, sections)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		entries, stats, err := p.refs.Extract(ctx, text)
		if err != nil {
			p.logger.Warn("reference extraction yielded nothing", "error", err)
		}
		refEntries, refStats = entries, stats
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		meta = p.extractMetadata(ctx, text)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if p.scheduler == nil {
			return
		}
		analyses = p.scheduler.AnalyzeSections(ctx, sections)
		evaluation = p.scheduler.Evaluate(ctx, sections)
	}()

	wg.Wait()

	rec := p.assemble(text, sections, outline, refEntries, refStats, meta, analyses, evaluation)
	rec.Quality.ProcessingTimeMS = time.Since(start).Milliseconds()

	p.logger.Info("extraction complete",
		"sections", len(sections),
		"toc_entries", len(rec.TableOfContents),
		"references", len(rec.References),
		"confidence", rec.Quality.Confidence,
		"degraded", rec.Quality.Degraded,
		"elapsed", time.Since(start))
	return rec, nil
}

// reconstructOutline prefers the anchor walk and falls back to the
// detected section map.
func (p *Pipeline) reconstructOutline(ctx context.Context, doc *document.Document, sections map[patterns.SectionType]boundary.Section) []toc.Entry {
	if doc.HasAnchors() {
		entries, err := p.outline.Reconstruct(ctx, doc)
		if err == nil && len(entries) > 0 {
			return entries
		}
		if err != nil {
			p.logger.Warn("anchor outline failed, deriving from sections", "error", err)
		}
	}
	return toc.FromSections(sections)
}

// assemble merges every stage's output into the final record. Only this
// step touches the record; it runs after all stage goroutines are done.
func (p *Pipeline) assemble(
	text string,
	sections map[patterns.SectionType]boundary.Section,
	outline []toc.Entry,
	refEntries []string,
	refStats references.Stats,
	meta map[string]string,
	analyses map[patterns.SectionType]*analysis.SectionAnalysis,
	evaluation analysis.Evaluation,
) *Record {
	rec := NewRecord()

	gated, gres := p.gate.Apply(meta)
	for field, slot := range rec.scalarSlots() {
		*slot = gated[field]
	}
	rec.Quality.Degraded = gres.Degraded
	if len(gres.Warnings) > 0 {
		rec.Quality.Warnings = gres.Warnings
	}

	if sec, ok := sections[patterns.SectionAbstractCN]; ok {
		rec.AbstractCN = cleanAbstract(sec.Content)
	}
	if sec, ok := sections[patterns.SectionAbstractEN]; ok {
		rec.AbstractEN = cleanAbstract(sec.Content)
	}
	rec.KeywordsCN = p.keywords(text, sections, patterns.SectionKeywordsCN, "keywords_cn")
	rec.KeywordsEN = p.keywords(text, sections, patterns.SectionKeywordsEN, "keywords_en")

	if sec, ok := sections[patterns.SectionLiterature]; ok {
		rec.TheoreticalFramework = quality.Clean(capSpan(sec.Content, frameworkBudget))
	}
	if sec, ok := sections[patterns.SectionAcknowledgement]; ok {
		rec.Acknowledgement = quality.Clean(sec.Content)
	}
	if sec, ok := sections[patterns.SectionAchievements]; ok {
		rec.AuthorContributions = quality.Clean(sec.Content)
	}

	if len(outline) > 0 {
		rec.TableOfContents = outline
	}
	if len(refEntries) > 0 {
		rec.References = refEntries
	}
	rec.ReferenceStats = refStats
	if len(analyses) > 0 {
		rec.Sections = analyses
	}
	rec.Evaluation = evaluation

	filled, total := rec.countFilled()
	rec.Quality.ExtractedFieldCount = filled
	rec.Quality.TotalFieldCount = total
	rec.Quality.Confidence = float64(filled) / float64(total)
	return rec
}

// keywords reads the detected keyword line, falling back to the
// front-matter pattern when boundary detection missed it.
func (p *Pipeline) keywords(text string, sections map[patterns.SectionType]boundary.Section, st patterns.SectionType, field string) []string {
	if sec, ok := sections[st]; ok {
		return splitKeywords(sec.Content)
	}
	if v, ok := p.lib.MetaField(field, text); ok && v != "" {
		return splitKeywords(v)
	}
	return []string{}
}
