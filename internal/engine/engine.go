// Package engine implements spec.md §4.6's resolution engine: composing a
// parser, matcher, resolver, and cache into a domain.Verdict for one
// domain.PackageRecord.
package engine

import (
	"github.com/version-lsp/version-lsp/internal/cache"
	"github.com/version-lsp/version-lsp/internal/domain"
	"github.com/version-lsp/version-lsp/internal/matcher"
	"github.com/version-lsp/version-lsp/internal/parser"
	"github.com/version-lsp/version-lsp/internal/resolver"
)

// Binding bundles one registry's Parser, Matcher, and Resolver with the
// shared Cache, per spec.md §9's "Cross-component polymorphism" note: a
// RegistryBinding is a value bundle keyed by domain.RegistryKind, not a
// type hierarchy.
type Binding struct {
	Kind     domain.RegistryKind
	Parser   parser.Parser
	Matcher  matcher.Matcher
	Resolver resolver.Resolver
	Cache    *cache.Cache
}

// NewBinding wires the matcher and resolver for kind against cache,
// pairing them with the parser given by the caller (the orchestrator
// picks the parser by URI pattern, per spec.md §4.1).
func NewBinding(kind domain.RegistryKind, p parser.Parser, c *cache.Cache) Binding {
	return Binding{
		Kind:     kind,
		Parser:   p,
		Matcher:  matcher.ForRegistry(kind),
		Resolver: resolver.ForRegistry(kind),
		Cache:    c,
	}
}

// Evaluate computes a Verdict for one record, per spec.md §4.6's
// four-step algorithm.
func (b Binding) Evaluate(rec domain.PackageRecord) (domain.Verdict, error) {
	latest, ok, err := b.Cache.GetLatestVersion(rec.RegistryKind, rec.Name)
	if err != nil {
		return domain.Verdict{}, err
	}
	if !ok {
		return domain.Verdict{CurrentVersion: rec.VersionText, Status: domain.NotInCache}, nil
	}

	versions, err := b.Cache.GetVersions(rec.RegistryKind, rec.Name)
	if err != nil {
		return domain.Verdict{}, err
	}
	exists := b.Matcher.Exists(rec.VersionText, versions)

	status := b.Matcher.Compare(rec.VersionText, latest)
	if status != domain.Invalid && !exists {
		status = domain.NotFound
	}

	return domain.Verdict{
		CurrentVersion: rec.VersionText,
		LatestVersion:  latest,
		Status:         status,
	}, nil
}

// EvaluateAll evaluates every record against the one Binding b (a
// single-kind Binding per call site — the orchestrator never mixes
// registries within one document).
func EvaluateAll(records []domain.PackageRecord, b Binding) ([]domain.Verdict, error) {
	verdicts := make([]domain.Verdict, 0, len(records))
	for _, rec := range records {
		v, err := b.Evaluate(rec)
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}
