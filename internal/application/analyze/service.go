// Package analyze orchestrates the multi-layer CLI introspection engine.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"cliscope/internal/domain"
	"cliscope/internal/ports"
)

// Request names the tool to analyze. Refresh bypasses the cache read but
// still writes the fresh record through.
type Request struct {
	Tool    string
	Refresh bool
}

// Result wraps the record with run metadata for rendering and history.
type Result struct {
	Record   domain.AnalysisRecord
	CacheHit bool
	TraceID  string
}

// Service runs the analysis layers in priority order and owns the cache
// write-through. It degrades to a minimal record for unanalyzable tools and
// fails only when the input cannot be resolved to an executable at all.
type Service struct {
	Version    ports.VersionDetector
	Completion ports.CompletionExtractor
	Framework  ports.FrameworkDetector
	Help       ports.HelpParser
	Cache      ports.CacheStore
	History    ports.HistoryRepository
	Logger     ports.Logger

	// SubcommandProbes bounds the recursive per-subcommand help pass.
	SubcommandProbes int

	// LookPath is swappable for tests; defaults to exec.LookPath.
	LookPath func(string) (string, error)
	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time

	group singleflight.Group
}

var toolNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+/-]*$`)

// Analyze implements the engine's primary operation.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	if s.Version == nil || s.Completion == nil || s.Framework == nil ||
		s.Help == nil || s.Cache == nil || s.Logger == nil {
		return Result{}, errors.New("analyze.Service dependencies not satisfied")
	}

	tool := strings.TrimSpace(req.Tool)
	if tool == "" || !toolNameRe.MatchString(tool) {
		return Result{}, fmt.Errorf("%w: %q", domain.ErrInvalidToolName, req.Tool)
	}
	if _, err := s.lookPath(tool); err != nil {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrToolNotFound, tool)
	}

	start := s.now()
	traceID := uuid.NewString()
	version := s.Version.Detect(ctx, tool)

	if !req.Refresh {
		if record, ok := s.Cache.Get(tool, version); ok {
			s.logEvent(tool, version, record, true, traceID, start)
			return Result{Record: record, CacheHit: true, TraceID: traceID}, nil
		}
	}

	// At most one in-flight analysis per (tool, version); concurrent callers
	// for the same key wait for its result.
	key := tool + "@" + version
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		record := s.runLayers(ctx, tool)
		if ctx.Err() != nil {
			// An abandoned analysis writes no partial record.
			return domain.AnalysisRecord{}, ctx.Err()
		}
		record.Tool = tool
		record.Version = version
		record.CachedAt = s.now().UTC().Format(time.RFC3339)
		record.Risks = domain.InferRiskTags(record.Subcommands)
		if err := s.Cache.Put(record); err != nil {
			s.Logger.Warn("cache write failed", map[string]interface{}{
				"tool": tool, "error": err.Error(),
			})
		}
		return record, nil
	})
	if err != nil {
		return Result{}, err
	}

	record := value.(domain.AnalysisRecord)
	s.logEvent(tool, version, record, false, traceID, start)
	return Result{Record: record, TraceID: traceID}, nil
}

// runLayers executes the fixed priority order: completion data wins
// outright; otherwise the framework fingerprint informs the help parser.
// Exactly one layer's output becomes the record.
func (s *Service) runLayers(ctx context.Context, tool string) domain.AnalysisRecord {
	if record, ok := s.Completion.Extract(ctx, tool); ok {
		s.Logger.Debug("completion layer produced record", map[string]interface{}{
			"tool": tool, "subcommands": len(record.Subcommands),
		})
		return record
	}

	helpText := s.Help.HelpText(ctx, tool)
	hint, confidence := s.Framework.Detect(helpText)
	s.Logger.Debug("framework fingerprint", map[string]interface{}{
		"tool": tool, "framework": string(hint), "confidence": confidence,
	})

	record := s.Help.Parse(tool, helpText, hint)
	s.expandSubcommands(ctx, tool, &record)
	return record
}

// expandSubcommands probes each discovered subcommand's own help to fill in
// per-subcommand syntax, flags and examples. Bounded to the first few
// subcommands, with a matching concurrency limit.
func (s *Service) expandSubcommands(ctx context.Context, tool string, record *domain.AnalysisRecord) {
	probes := s.SubcommandProbes
	if probes <= 0 {
		probes = 8
	}
	limit := min(len(record.Subcommands), probes)
	if limit == 0 {
		return
	}

	capabilities := make([]domain.Capability, limit)
	found := make([]bool, limit)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(probes)
	for i := 0; i < limit; i++ {
		i := i
		group.Go(func() error {
			sub := record.Subcommands[i]
			helpText := s.Help.HelpText(groupCtx, tool, sub)
			if helpText == "" {
				return nil
			}
			capabilities[i] = s.Help.ParseCapability(helpText, tool+" "+sub)
			found[i] = true
			return nil
		})
	}
	_ = group.Wait()

	for i := 0; i < limit; i++ {
		if !found[i] {
			continue
		}
		sub := record.Subcommands[i]
		key := domain.CapabilityKey(sub)
		capability := capabilities[i]
		if capability.Description == "" {
			capability.Description = record.Capabilities[key].Description
		}
		record.Capabilities[key] = capability
		if capability.Syntax != "" {
			record.Examples = append(record.Examples, capability.Syntax)
		} else {
			record.Examples = append(record.Examples, tool+" "+sub)
		}
	}
}

func (s *Service) logEvent(tool, version string, record domain.AnalysisRecord, hit bool, traceID string, start time.Time) {
	if s.History == nil {
		return
	}
	event := domain.AnalysisEvent{
		Timestamp:       s.now(),
		TraceID:         traceID,
		Tool:            tool,
		Version:         version,
		Framework:       record.Framework,
		SourceMethod:    record.SourceMethod,
		SubcommandCount: len(record.Subcommands),
		CacheHit:        hit,
		DurationMS:      s.now().Sub(start).Milliseconds(),
	}
	if err := s.History.Save(event); err != nil {
		s.Logger.Warn("history write failed", map[string]interface{}{
			"tool": tool, "error": err.Error(),
		})
	}
}

func (s *Service) lookPath(tool string) (string, error) {
	if s.LookPath != nil {
		return s.LookPath(tool)
	}
	return exec.LookPath(tool)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
