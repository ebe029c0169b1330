package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"musclemap/fitness-api/internal/domain"
	"musclemap/fitness-api/internal/repository"
)

const (
	// maxCandidates caps the prefix-search fallback.
	maxCandidates = 10
	// minTokenLetters guards against false-positive floods from very short
	// search tokens.
	minTokenLetters = 3
)

// Candidate is a catalog entry reduced to what a disambiguation list needs.
type Candidate struct {
	ID          string
	Name        string
	MuscleGroup string
	ThumbKey    string // Object storage key of the thumbnail, "" if none
}

// Resolution is the outcome of resolving a free-text exercise name.
// Exactly one of Match and Candidates is set.
type Resolution struct {
	Match      *domain.Exercise
	Candidates []Candidate
}

// ResolverService maps free-text exercise names (typically emitted by the AI
// assistant) onto catalog entries.
type ResolverService interface {
	// Resolve returns a single exact match, a candidate list from the
	// prefix-search fallback, or nil when nothing was found. Store failures
	// degrade to nil as well: a missed lookup only costs the user a
	// "not found" message, while a wrong match would silently corrupt their
	// plan, so absence is always the safe answer here.
	Resolve(ctx context.Context, name string) *Resolution
}

type resolverService struct {
	catalogRepo repository.CatalogRepository
}

// NewResolverService creates a new instance of resolverService.
func NewResolverService(catalogRepo repository.CatalogRepository) ResolverService {
	return &resolverService{catalogRepo: catalogRepo}
}

// Resolve implements the lookup precedence:
//  1. exact slug match on the normalized input
//  2. exact English name match
//  3. exact display name match
//  4. prefix search on the first word of the input (letters only, at least
//     3 of them), against slug only, capped at maxCandidates
//
// The fallback deliberately inspects only the first word and only the slug
// field; widening it changes which entries "Overhead Press"-style inputs
// find, so the observed behavior is kept as is.
func (s *resolverService) Resolve(ctx context.Context, name string) *Resolution {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}

	slug := domain.Slugify(name)

	exactLookups := []func() (*domain.Exercise, error){
		func() (*domain.Exercise, error) { return s.catalogRepo.FindBySlug(ctx, slug) },
		func() (*domain.Exercise, error) { return s.catalogRepo.FindByEnglishName(ctx, trimmed) },
		func() (*domain.Exercise, error) { return s.catalogRepo.FindByName(ctx, trimmed) },
	}
	for _, lookup := range exactLookups {
		entry, err := lookup()
		if err == nil {
			return &Resolution{Match: entry}
		}
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("WARN: exercise lookup failed for %q: %v", trimmed, err)
			return nil
		}
	}

	// No exact hit: fall back to a prefix search on the first word.
	token := domain.SearchToken(trimmed)
	if utf8.RuneCountInString(token) < minTokenLetters {
		return nil // Too short to search safely
	}

	entries, err := s.catalogRepo.FindBySlugPrefix(ctx, token, maxCandidates)
	if err != nil {
		log.Printf("WARN: candidate search failed for %q: %v", token, err)
		return nil
	}
	if len(entries) == 0 {
		return nil
	}

	candidates := make([]Candidate, len(entries))
	for i := range entries {
		candidates[i] = toCandidate(&entries[i])
	}
	return &Resolution{Candidates: candidates}
}

func toCandidate(e *domain.Exercise) Candidate {
	group := e.MuscleGroup
	if group == "" {
		group = "other"
	}
	return Candidate{
		ID:          e.ID.Hex(),
		Name:        e.DisplayName(),
		MuscleGroup: group,
		ThumbKey:    e.ThumbnailKey(),
	}
}
