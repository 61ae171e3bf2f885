package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
)

// titleSimilarityThreshold is the minimum similarity ratio between two
// titles for one document to supersede another.
const titleSimilarityThreshold = 0.85

// sessionDatePattern matches dated session files such as
// "session_2025-03-14" or "Session-2025_3_1".
var sessionDatePattern = regexp.MustCompile(`(?i)session[_-]?(\d{4}[-_]\d{1,2}[-_]\d{1,2})`)

// Detector decides when a newly ingested document replaces an older
// version and records the supersession in storage.
type Detector struct {
	docRepo storage.DocumentRepository
	logger  *slog.Logger
}

// SupersededDocument describes one document replaced during detection.
type SupersededDocument struct {
	DocumentId core.ID
	Title      string
	Reason     string
}

// DetectResult summarizes one detection run for a new document.
type DetectResult struct {
	Superseded []SupersededDocument
	Count      int
}

// ScanResult summarizes a retroactive supersession scan.
type ScanResult struct {
	DocumentsChecked   int
	SupersessionsFound int
	Superseded         []SupersededPair
	Errors             []string
}

// SupersededPair names an older/newer pair found by the scan.
type SupersededPair struct {
	OlderTitle string
	NewerTitle string
	Reason     string
}

// NewDetector creates a supersession detector.
func NewDetector(docRepo storage.DocumentRepository) *Detector {
	return &Detector{
		docRepo: docRepo,
		logger:  slog.Default().With("component", "supersession-detector"),
	}
}

// DetectAndMark finds latest documents the new document replaces and
// marks each of them superseded, recording a supersedes link with the
// matched reason. Candidate lookup failures degrade to an empty
// candidate set rather than failing the ingestion.
func (d *Detector) DetectAndMark(ctx context.Context, newDoc *core.Document) (*DetectResult, error) {
	result := &DetectResult{}

	candidates := d.findCandidates(ctx, newDoc)
	for _, candidate := range candidates {
		supersede, reason := shouldSupersede(newDoc.Title, newDoc.FilePath, newDoc.IngestedAt, candidate)
		if !supersede {
			continue
		}

		now := time.Now().UTC()
		if err := d.docRepo.MarkSuperseded(ctx, candidate.DocumentId, newDoc.Id, now); err != nil {
			return nil, fmt.Errorf("marking document superseded: %w", err)
		}
		if err := d.docRepo.AddSupersedesLink(ctx, &core.SupersedesLink{
			NewerId:   newDoc.Id,
			OlderId:   candidate.DocumentId,
			Reason:    reason,
			CreatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("recording supersedes link: %w", err)
		}

		d.logger.Info("document superseded",
			"older", candidate.Title,
			"newer", newDoc.Title,
			"reason", reason)

		result.Superseded = append(result.Superseded, SupersededDocument{
			DocumentId: candidate.DocumentId,
			Title:      candidate.Title,
			Reason:     reason,
		})
	}

	result.Count = len(result.Superseded)
	return result, nil
}

// RetroactiveScan walks all latest documents oldest-first and applies
// the supersession rules between every older/newer pair, stopping at
// the first newer document that replaces each older one. With dryRun
// set, nothing is written.
func (d *Detector) RetroactiveScan(ctx context.Context, dryRun bool) (*ScanResult, error) {
	result := &ScanResult{}

	docs, err := d.docRepo.ListLatestDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing latest documents: %w", err)
	}
	result.DocumentsChecked = len(docs)

	for i, older := range docs {
		for _, newer := range docs[i+1:] {
			candidate := &core.SupersessionCandidate{
				DocumentId: older.Id,
				Title:      older.Title,
				FilePath:   older.FilePath,
				IngestedAt: older.IngestedAt,
			}
			supersede, reason := shouldSupersede(newer.Title, newer.FilePath, newer.IngestedAt, candidate)
			if !supersede {
				continue
			}

			if !dryRun {
				now := time.Now().UTC()
				if err := d.docRepo.MarkSuperseded(ctx, older.Id, newer.Id, now); err != nil {
					result.Errors = append(result.Errors, err.Error())
					continue
				}
				if err := d.docRepo.AddSupersedesLink(ctx, &core.SupersedesLink{
					NewerId:   newer.Id,
					OlderId:   older.Id,
					Reason:    reason,
					CreatedAt: now,
				}); err != nil {
					result.Errors = append(result.Errors, err.Error())
					continue
				}
			}

			result.Superseded = append(result.Superseded, SupersededPair{
				OlderTitle: older.Title,
				NewerTitle: newer.Title,
				Reason:     reason,
			})
			result.SupersessionsFound++
			break
		}
	}

	return result, nil
}

// Summary returns document version counts from storage.
func (d *Detector) Summary(ctx context.Context) (*storage.SupersessionSummary, error) {
	return d.docRepo.SupersessionSummary(ctx)
}

// findCandidates builds the candidate filter from the new document's
// path and title. Lookup failures are logged and return no candidates
// so ingestion carries on.
func (d *Detector) findCandidates(ctx context.Context, newDoc *core.Document) []*core.SupersessionCandidate {
	filter := storage.CandidateFilter{
		NewDocumentId: newDoc.Id,
		ParentDir:     strings.ToLower(filepath.Dir(newDoc.FilePath)),
		TitlePrefix:   titlePrefix(newDoc.Title, 3),
		Limit:         50,
	}

	stem := strings.ToLower(fileStem(newDoc.FilePath))
	if sessionDatePattern.MatchString(stem) {
		filter.BaseName = strings.Trim(sessionDatePattern.ReplaceAllString(stem, ""), "-_")
	}

	candidates, err := d.docRepo.FindSupersessionCandidates(ctx, filter)
	if err != nil {
		d.logger.Error("candidate lookup failed", "err", err)
		return nil
	}
	return candidates
}

// shouldSupersede applies the detection rules in order: the new
// document must be strictly newer, then exact title match, then fuzzy
// title similarity, then the dated-session file pattern.
func shouldSupersede(newTitle, newPath string, newIngested time.Time, candidate *core.SupersessionCandidate) (bool, string) {
	if !newIngested.After(candidate.IngestedAt) {
		return false, "newer_document_required"
	}

	newLower := strings.TrimSpace(strings.ToLower(newTitle))
	candLower := strings.TrimSpace(strings.ToLower(candidate.Title))
	if newLower == candLower {
		return true, "exact_title_match"
	}

	similarity := titleSimilarity(newLower, candLower)
	if similarity >= titleSimilarityThreshold {
		return true, fmt.Sprintf("title_similarity_%.2f", similarity)
	}

	newStem := fileStem(newPath)
	candStem := fileStem(candidate.FilePath)
	if sessionDatePattern.MatchString(newStem) && sessionDatePattern.MatchString(candStem) {
		newBase := strings.Trim(sessionDatePattern.ReplaceAllString(newStem, ""), "-_")
		candBase := strings.Trim(sessionDatePattern.ReplaceAllString(candStem, ""), "-_")
		if strings.EqualFold(newBase, candBase) {
			return true, "session_document_pattern"
		}
	}

	return false, "no_supersession"
}

// titleSimilarity computes a character-level similarity ratio between
// two strings in [0, 1].
func titleSimilarity(a, b string) float64 {
	matcher := difflib.NewMatcher(splitChars(a), splitChars(b))
	return matcher.Ratio()
}

func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}

// fileStem returns the base file name without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// titlePrefix returns the first n lowercase words of a title.
func titlePrefix(title string, n int) string {
	words := strings.Fields(strings.ToLower(title))
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
