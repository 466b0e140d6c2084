package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/papyrus-labs/quire/internal/boundary"
	"github.com/papyrus-labs/quire/internal/patterns"
	"github.com/papyrus-labs/quire/internal/providers"
)

// AnalyzeSections runs the per-section analysis under a bounded worker
// pool. Failed or timed-out sections are logged and omitted; the result
// map only holds successes. The sections map is read-only here and safe to
// share with concurrent stages.
func (s *Scheduler) AnalyzeSections(ctx context.Context, sections map[patterns.SectionType]boundary.Section) map[patterns.SectionType]*SectionAnalysis {
	type task struct {
		typ patterns.SectionType
		sec boundary.Section
	}
	type outcome struct {
		typ      patterns.SectionType
		analysis *SectionAnalysis
		err      error
	}

	tasks := make([]task, 0, len(sections))
	for typ, sec := range sections {
		tasks = append(tasks, task{typ: typ, sec: sec})
	}
	if len(tasks) == 0 || s.client == nil {
		return nil
	}

	workers := s.cfg.MaxSectionWorkers
	if len(tasks) < workers {
		workers = len(tasks)
	}

	taskCh := make(chan task)
	results := make(chan outcome, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskCh {
				analysis, err := s.analyzeOne(ctx, t.sec)
				results <- outcome{typ: t.typ, analysis: analysis, err: err}
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for _, t := range tasks {
			select {
			case taskCh <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Only this goroutine touches the map.
	start := time.Now()
	out := make(map[patterns.SectionType]*SectionAnalysis)
	for r := range results {
		if r.err != nil {
			s.logger.Warn("section analysis failed",
				"section", r.typ, "error", r.err)
			continue
		}
		out[r.typ] = r.analysis
	}
	s.logger.Info("section analysis finished",
		"succeeded", len(out), "total", len(tasks), "elapsed", time.Since(start))
	return out
}

// analyzeOne submits one section under the per-task timeout.
func (s *Scheduler) analyzeOne(ctx context.Context, sec boundary.Section) (*SectionAnalysis, error) {
	taskCtx, cancel := context.WithTimeout(ctx, s.cfg.SectionTimeout)
	defer cancel()

	result, err := s.client.Chat(taskCtx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "user", Content: buildSectionPrompt(sec)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}

	analysis, ok := parseSectionAnalysis(result.Content, result.ParsedJSON)
	if !ok {
		return nil, fmt.Errorf("unparseable analysis reply for %s", sec.Type)
	}
	return analysis, nil
}

// Evaluation is the document-level judgment pair.
type Evaluation struct {
	Structure *StructureEvaluation `json:"structure,omitempty" yaml:"structure,omitempty"`
	Quality   *QualityAssessment   `json:"quality,omitempty" yaml:"quality,omitempty"`
}

// Evaluate runs the structure and academic-quality evaluations
// concurrently. Either task failing leaves its half nil.
func (s *Scheduler) Evaluate(ctx context.Context, sections map[patterns.SectionType]boundary.Section) Evaluation {
	if s.client == nil || len(sections) == 0 {
		return Evaluation{}
	}

	var eval Evaluation
	var wg sync.WaitGroup

	// Two fixed tasks; the eval worker bound only matters if it is 1.
	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	sequential := s.cfg.MaxEvalWorkers < 2

	structureTask := func() {
		st, err := s.evaluateStructure(ctx, sections)
		if err != nil {
			s.logger.Warn("structure evaluation failed", "error", err)
			return
		}
		eval.Structure = st
	}
	qualityTask := func() {
		q, err := s.assessQuality(ctx, sections)
		if err != nil {
			s.logger.Warn("quality assessment failed", "error", err)
			return
		}
		eval.Quality = q
	}

	if sequential {
		structureTask()
		qualityTask()
		return eval
	}

	run(structureTask)
	run(qualityTask)
	wg.Wait()
	return eval
}

func (s *Scheduler) evaluateStructure(ctx context.Context, sections map[patterns.SectionType]boundary.Section) (*StructureEvaluation, error) {
	taskCtx, cancel := context.WithTimeout(ctx, s.cfg.EvalTimeout)
	defer cancel()

	result, err := s.client.Chat(taskCtx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "user", Content: buildStructurePrompt(sections)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}
	if e, ok := parseStructureEvaluation(result.ParsedJSON); ok {
		return e, nil
	}
	return nil, fmt.Errorf("unparseable structure evaluation reply")
}

func (s *Scheduler) assessQuality(ctx context.Context, sections map[patterns.SectionType]boundary.Section) (*QualityAssessment, error) {
	taskCtx, cancel := context.WithTimeout(ctx, s.cfg.EvalTimeout)
	defer cancel()

	result, err := s.client.Chat(taskCtx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "user", Content: buildQualityPrompt(sections)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}
	if q, ok := parseQualityAssessment(result.ParsedJSON); ok {
		return q, nil
	}
	return nil, fmt.Errorf("unparseable quality assessment reply")
}
