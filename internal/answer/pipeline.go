// Package answer turns a question into an answer grounded in retrieved
// negotiation passages. The pipeline retrieves candidate fragments, packs
// as many as the token budget allows into a single context string, and
// hands that context to the completion model together with the question.
package answer

import (
	"context"
	"errors"
	"fmt"

	"github.com/lmeyers/treatybot/internal/corpus"
	"github.com/lmeyers/treatybot/internal/narrative"
)

// ErrEmptyQuestion indicates a request without question text.
var ErrEmptyQuestion = errors.New("empty question")

// Retriever fetches the fragments most relevant to a question, restricted
// to the given documents, most relevant first. *passage.Store implements it.
type Retriever interface {
	Search(ctx context.Context, question string, documentIDs []string, limit int) ([]narrative.FragmentRecord, error)
}

// Completer produces the model's answer from the question and the assembled
// passage context. *Generator implements it.
type Completer interface {
	Complete(ctx context.Context, question, passages string, temperature float64) (string, error)
}

// Request is one question against a selection of corpus documents.
type Request struct {
	Question    string   `json:"question"`
	DocumentIDs []string `json:"documentIds"`
	Temperature float64  `json:"temperature"`
}

// Response carries the model's answer plus the exact passage context it was
// shown, so users can check the answer against its sources.
type Response struct {
	Answer  string `json:"answer"`
	Sources string `json:"sources"`
}

// Pipeline wires retrieval, context assembly and completion together.
// Safe for concurrent use; every call assembles its own context.
type Pipeline struct {
	retriever Retriever
	completer Completer
	counter   narrative.TokenCounter
	maxTokens int
	limit     int
}

// NewPipeline creates a Pipeline. maxTokens is the context budget for the
// assembled passages and limit caps how many candidates retrieval returns.
func NewPipeline(retriever Retriever, completer Completer, counter narrative.TokenCounter, maxTokens, limit int) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		completer: completer,
		counter:   counter,
		maxTokens: maxTokens,
		limit:     limit,
	}
}

// Answer runs the full question pipeline. Fragments are offered to the
// context in relevance order; the first one that does not fit ends the
// assembly, so a rejected high-rank fragment never gets displaced by a
// smaller low-rank one.
func (p *Pipeline) Answer(ctx context.Context, req Request) (Response, error) {
	if req.Question == "" {
		return Response{}, ErrEmptyQuestion
	}

	fragments, err := p.retriever.Search(ctx, req.Question, req.DocumentIDs, p.limit)
	if err != nil {
		return Response{}, fmt.Errorf("retrieving passages: %w", err)
	}

	passages, err := p.assemble(fragments)
	if err != nil {
		return Response{}, err
	}

	text, err := p.completer.Complete(ctx, req.Question, passages, req.Temperature)
	if err != nil {
		return Response{}, fmt.Errorf("generating answer: %w", err)
	}

	return Response{Answer: text, Sources: passages}, nil
}

// assemble packs ranked fragments into the budgeted context string.
func (p *Pipeline) assemble(fragments []narrative.FragmentRecord) (string, error) {
	builder, err := narrative.NewBuilder(p.maxTokens, p.counter,
		narrative.WithFinalDocumentID(corpus.FinalAgreementID))
	if err != nil {
		return "", fmt.Errorf("creating context builder: %w", err)
	}

	for _, f := range fragments {
		if err := builder.Ingest(f); err != nil {
			if errors.Is(err, narrative.ErrOverflow) {
				break
			}
			return "", fmt.Errorf("assembling context: %w", err)
		}
	}
	return builder.Render(), nil
}
