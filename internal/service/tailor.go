package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"applytrack/internal/repository"
)

// maxTailorKeywords caps how many keywords the heuristic returns.
const maxTailorKeywords = 8

// tailorStopwords are common words excluded from keyword extraction.
var tailorStopwords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "you": {}, "are": {},
	"our": {}, "will": {}, "your": {}, "have": {}, "this": {}, "that": {},
	"from": {}, "all": {}, "job": {}, "work": {}, "team": {}, "role": {},
}

// TailorService runs the keyword-matching heuristic between a posting and a
// stored resume. It is deliberately shallow; no NLP or external model.
type TailorService struct {
	postingRepo repository.PostingRepository
	resumeRepo  repository.ResumeRepository
}

// NewTailorService returns a TailorService over the given repositories.
func NewTailorService(postingRepo repository.PostingRepository, resumeRepo repository.ResumeRepository) *TailorService {
	return &TailorService{postingRepo: postingRepo, resumeRepo: resumeRepo}
}

// TailorResult is the heuristic's output.
type TailorResult struct {
	TailoredResume string   `json:"tailored_resume"`
	Keywords       []string `json:"keywords"`
	Score          int      `json:"score"`
}

// Tailor extracts keywords from an owned posting and scores the pairing with
// an owned resume. Both lookups are owner-scoped, so another user's ids
// surface as not-found.
func (s *TailorService) Tailor(ctx context.Context, userID, postingID, resumeID uint) (*TailorResult, error) {
	posting, err := s.postingRepo.GetByID(ctx, postingID, userID)
	if err != nil {
		return nil, err
	}
	resume, err := s.resumeRepo.GetByID(ctx, resumeID, userID)
	if err != nil {
		return nil, err
	}

	keywords := ExtractKeywords(posting.Title+" "+posting.Company+" "+posting.Description, maxTailorKeywords)

	// Deterministic pseudo-score in [80,100]; richer postings score higher.
	score := 80 + 2*len(keywords)
	if score > 100 {
		score = 100
	}

	return &TailorResult{
		TailoredResume: fmt.Sprintf("tailored_%d.pdf", resume.ID),
		Keywords:       keywords,
		Score:          score,
	}, nil
}

// ExtractKeywords lowercases the text, splits on non-alphanumeric runs,
// drops stopwords and short tokens, and returns up to limit distinct tokens
// ordered by descending frequency (ties by first appearance).
func ExtractKeywords(text string, limit int) []string {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	counts := make(map[string]int)
	order := make(map[string]int)
	for i, tok := range tokens {
		if len(tok) < 3 {
			continue
		}
		if _, stop := tailorStopwords[tok]; stop {
			continue
		}
		if _, seen := counts[tok]; !seen {
			order[tok] = i
		}
		counts[tok]++
	}

	unique := make([]string, 0, len(counts))
	for tok := range counts {
		unique = append(unique, tok)
	}
	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return order[unique[i]] < order[unique[j]]
	})

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}
