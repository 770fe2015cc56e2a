package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// MockLLM provides deterministic model responses for testing. It matches
// user message content against registered patterns and returns the
// corresponding response.
//
// Thread-safe for concurrent use.
type MockLLM struct {
	mu        sync.Mutex
	responses []mockRule
	fallback  string
	calls     []MockCall
}

type mockRule struct {
	pattern  string // substring match in user message, lowercased
	response string
}

// MockCall records a single call to the mock model.
type MockCall struct {
	UserMessage string // last user message text
	Response    string // response text returned
}

// NewMockLLM creates a mock model with the given fallback response,
// returned when no pattern matches.
func NewMockLLM(fallback string) *MockLLM {
	return &MockLLM{fallback: fallback}
}

// AddResponse registers a pattern-response pair. When a user message
// contains the pattern (case-insensitive), the response is returned.
// Patterns are checked in registration order; first match wins.
func (m *MockLLM) AddResponse(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockRule{
		pattern:  strings.ToLower(pattern),
		response: response,
	})
}

// Calls returns a copy of all recorded calls.
func (m *MockLLM) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]MockCall, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// RegisterModel registers the mock as a Genkit model named
// "mock/test-model" and returns a reference to it.
func (m *MockLLM) RegisterModel(g *genkit.Genkit) ai.Model {
	return genkit.DefineModel(g, "mock/test-model", &ai.ModelOptions{
		Label: "Mock Test Model",
		Supports: &ai.ModelSupports{
			Multiturn:  true,
			SystemRole: true,
		},
	}, m.generate)
}

func (m *MockLLM) generate(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
	var userText string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == ai.RoleUser {
			userText = req.Messages[i].Text()
			break
		}
	}

	m.mu.Lock()
	responseText := m.fallback
	lower := strings.ToLower(userText)
	for i := range m.responses {
		if strings.Contains(lower, m.responses[i].pattern) {
			responseText = m.responses[i].response
			break
		}
	}
	m.calls = append(m.calls, MockCall{
		UserMessage: userText,
		Response:    responseText,
	})
	m.mu.Unlock()

	if cb != nil {
		_ = cb(ctx, &ai.ModelResponseChunk{
			Content: []*ai.Part{ai.NewTextPart(responseText)},
		})
	}

	return &ai.ModelResponse{
		Request: req,
		Message: &ai.Message{
			Role:    ai.RoleModel,
			Content: []*ai.Part{ai.NewTextPart(responseText)},
		},
	}, nil
}

// MockEmbedder provides deterministic embedding vectors for testing.
//
// By default it generates a vector from content using SHA-256, so the same
// text always embeds identically. Explicit mappings can be added for precise
// cosine similarity control.
//
// Thread-safe for concurrent use.
type MockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	dim     int
}

// NewMockEmbedder creates a mock embedder with the given vector dimensions.
func NewMockEmbedder(dim int) *MockEmbedder {
	return &MockEmbedder{
		vectors: make(map[string][]float32),
		dim:     dim,
	}
}

// SetVector registers an explicit vector for a given content string.
// Use this to control exact cosine similarity between test inputs.
func (e *MockEmbedder) SetVector(content string, vec []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vectors[content] = vec
}

// RegisterEmbedder registers the mock as a Genkit embedder named
// "mock/test-embedder".
func (e *MockEmbedder) RegisterEmbedder(g *genkit.Genkit) ai.Embedder {
	return genkit.DefineEmbedder(g, "mock/test-embedder", &ai.EmbedderOptions{
		Label:      "Mock Test Embedder",
		Dimensions: e.dim,
	}, e.embed)
}

func (e *MockEmbedder) embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	embeddings := make([]*ai.Embedding, len(req.Input))
	for i, doc := range req.Input {
		embeddings[i] = &ai.Embedding{
			Embedding: e.vectorFor(documentText(doc)),
		}
	}
	return &ai.EmbedResponse{Embeddings: embeddings}, nil
}

func (e *MockEmbedder) vectorFor(content string) []float32 {
	e.mu.Lock()
	if v, ok := e.vectors[content]; ok {
		e.mu.Unlock()
		return v
	}
	e.mu.Unlock()

	return deterministicVector(content, e.dim)
}

// documentText extracts all text content from a Document's parts.
func documentText(doc *ai.Document) string {
	var sb strings.Builder
	for _, p := range doc.Content {
		if p.Kind == ai.PartText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// deterministicVector generates a normalized vector from content using
// SHA-256. The same content always produces the same vector.
func deterministicVector(content string, dim int) []float32 {
	hash := sha256.Sum256([]byte(content))
	vec := make([]float32, dim)

	for i := range vec {
		idx := (i * 4) % len(hash)
		bits := binary.LittleEndian.Uint32([]byte{
			hash[idx%32],
			hash[(idx+1)%32],
			hash[(idx+2)%32],
			hash[(idx+3)%32],
		})
		vec[i] = (float32(bits)/float32(math.MaxUint32))*2 - 1
	}

	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	norm = float32(math.Sqrt(float64(norm)))
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}
