package narrative

// TokenCounter reports the token cost of a text string. It must be
// deterministic for identical input. The interface is defined here, by the
// consumer, so tests can substitute a cheap fake for the tiktoken-backed
// counter.
type TokenCounter interface {
	Count(text string) int
}

// Builder accumulates fragments grouped by document and header while
// enforcing a hard token budget.
//
// A Builder is single-query state: create one per question, feed it
// sequentially in relevance order, render, and discard it. It is not safe
// for concurrent use; concurrent queries each get their own Builder.
type Builder struct {
	maxTokens int
	counter   TokenCounter
	finalID   string

	consumed int
	docs     map[string]*document
	docOrder []string
	count    int
}

// document groups a source document's fragments by header, in the order the
// headers were first seen.
type document struct {
	title       string
	headers     map[string]*headerGroup
	headerOrder []string
}

// headerGroup owns the fragments that arrived under one header, in arrival
// order. Arrival order reflects relevance ranking, not source position;
// re-sorting by sequence number happens only at render time.
type headerGroup struct {
	header    string
	fragments []FragmentRecord
}

// Option configures a Builder.
type Option func(*Builder)

// WithFinalDocumentID designates the document whose title is rendered with a
// "FINAL " prefix. This is a corpus display convention (the final draft
// agreement's title does not say so itself), not a grouping rule.
func WithFinalDocumentID(id string) Option {
	return func(b *Builder) {
		b.finalID = id
	}
}

// NewBuilder returns an empty Builder with the given token ceiling.
// maxTokens must be positive; it is never silently clamped.
func NewBuilder(maxTokens int, counter TokenCounter, opts ...Option) (*Builder, error) {
	if maxTokens <= 0 {
		return nil, ErrInvalidBudget
	}
	b := &Builder{
		maxTokens: maxTokens,
		counter:   counter,
		docs:      make(map[string]*document),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Ingest adds one fragment to the builder, or rejects it.
//
// The incremental cost is the fragment's content tokens, plus the document
// title's tokens if this document is new, plus the header's tokens if this
// header is new for this document. If consuming that cost would exceed the
// budget, Ingest returns ErrOverflow and leaves the builder byte-for-byte
// unchanged: the caller treats the first overflow as a stop signal and must
// be able to render immediately without a half-added document or header.
//
// A fragment whose content alone exceeds the remaining budget is rejected
// the same way; the builder never truncates content to fit.
func (b *Builder) Ingest(f FragmentRecord) error {
	if err := f.Validate(); err != nil {
		return err
	}

	// The whole increment is speculative until accepted.
	cost := b.counter.Count(f.Content)
	doc, seenDoc := b.docs[f.DocumentID]
	if !seenDoc {
		cost += b.counter.Count(f.DocumentTitle)
	}
	seenHeader := seenDoc && doc.headers[f.Header] != nil
	if !seenHeader {
		cost += b.counter.Count(f.Header)
	}
	if b.consumed+cost > b.maxTokens {
		return ErrOverflow
	}

	if !seenDoc {
		doc = &document{
			title:   f.DocumentTitle,
			headers: make(map[string]*headerGroup),
		}
		b.docs[f.DocumentID] = doc
		b.docOrder = append(b.docOrder, f.DocumentID)
	}
	group := doc.headers[f.Header]
	if group == nil {
		group = &headerGroup{header: f.Header}
		doc.headers[f.Header] = group
		doc.headerOrder = append(doc.headerOrder, f.Header)
	}
	group.fragments = append(group.fragments, f)
	b.consumed += cost
	b.count++
	return nil
}

// TokensConsumed returns the running token total. It never exceeds the
// budget and is unchanged by rejected ingestions.
func (b *Builder) TokensConsumed() int {
	return b.consumed
}

// Budget returns the token ceiling fixed at construction.
func (b *Builder) Budget() int {
	return b.maxTokens
}

// Len returns the number of fragments accepted so far.
func (b *Builder) Len() int {
	return b.count
}
