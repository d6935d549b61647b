package glossary

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/collabhub-app/collabhub-client/pkg/communication"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

const cacheKeyGlossary = "glossary"

// CreateRequest is validated client-side before any network call
type CreateRequest struct {
	Term       string `json:"term" validate:"required"`
	Definition string `json:"definition" validate:"required"`
	Category   string `json:"category,omitempty"`
}

// ImportResult counts what an import changed
type ImportResult struct {
	Added   int
	Updated int
}

// GlossaryService fetches and edits the shared glossary
type GlossaryService struct {
	Client *communication.Client
	Cache  *communication.ListCache
	Logger logger.Interface
}

type termListWire struct {
	Terms []termWire `json:"terms"`
}

type termItemWire struct {
	Term termWire `json:"term"`
}

// List fetches glossary terms, optionally filtered by a search string,
// degrading to the cached list when an unfiltered fetch fails
func (s *GlossaryService) List(ctx context.Context, search string) ([]Term, error) {
	path := "/glossary/terms"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}

	data := termListWire{}
	err := s.Client.Get(ctx, path, &data)
	if err != nil {
		if search == "" {
			cached, cacheErr := s.Cache.Get(cacheKeyGlossary)
			if cacheErr == nil {
				s.Logger.Warning(fmt.Sprintf("glossary fetch failed, serving cached list: %v", err))
				return cached.([]Term), nil
			}
		}
		return nil, err
	}

	terms := make([]Term, 0, len(data.Terms))
	for _, wire := range data.Terms {
		terms = append(terms, normalizeTerm(wire))
	}

	if search == "" {
		s.Cache.Put(cacheKeyGlossary, terms)
	}
	return terms, nil
}

// Create adds a term
func (s *GlossaryService) Create(ctx context.Context, request CreateRequest) (Term, error) {
	err := validator.New().Struct(&request)
	if err != nil {
		return Term{}, err
	}
	if request.Category == "" {
		request.Category = "General"
	}

	data := termItemWire{}
	err = s.Client.Post(ctx, "/glossary/terms", &request, &data)
	if err != nil {
		return Term{}, err
	}
	return normalizeTerm(data.Term), nil
}

// Update replaces the definition and category of an existing term
func (s *GlossaryService) Update(ctx context.Context, id string, request CreateRequest) (Term, error) {
	err := validator.New().Struct(&request)
	if err != nil {
		return Term{}, err
	}

	data := termItemWire{}
	err = s.Client.Put(ctx, "/glossary/terms/"+id, &request, &data)
	if err != nil {
		return Term{}, err
	}
	return normalizeTerm(data.Term), nil
}

// Delete removes a term
func (s *GlossaryService) Delete(ctx context.Context, id string) error {
	return s.Client.Delete(ctx, "/glossary/terms/"+id)
}

// Export writes the current glossary as CSV
func (s *GlossaryService) Export(ctx context.Context, writer io.Writer) error {
	terms, err := s.List(ctx, "")
	if err != nil {
		return err
	}
	return ExportCSV(writer, terms)
}

// Import reads CSV rows and merges them into the glossary. A row matching
// an existing entry by term and category updates that entry, anything else
// is added as new.
func (s *GlossaryService) Import(ctx context.Context, reader io.Reader) (ImportResult, error) {
	incoming, err := ParseCSV(reader)
	if err != nil {
		return ImportResult{}, err
	}

	existing, err := s.List(ctx, "")
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{}
	for _, term := range incoming {
		request := CreateRequest{
			Term:       term.Term,
			Definition: term.Definition,
			Category:   term.Category,
		}

		match, found := findMatch(existing, term)
		if found {
			_, err = s.Update(ctx, match.ID, request)
			if err != nil {
				return result, err
			}
			result.Updated++
			continue
		}

		created, err := s.Create(ctx, request)
		if err != nil {
			return result, err
		}
		existing = append(existing, created)
		result.Added++
	}

	s.Cache.Invalidate(cacheKeyGlossary)
	return result, nil
}

func findMatch(terms []Term, candidate Term) (Term, bool) {
	for _, term := range terms {
		if term.Matches(candidate) {
			return term, true
		}
	}
	return Term{}, false
}
