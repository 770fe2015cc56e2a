// Package narrative assembles retrieved document fragments into a single
// prompt-ready block of text under a hard token budget.
//
// Retrieval returns fragments in relevance order, which scatters pieces of
// the same document and section across the result list. The Builder regroups
// them by document and header while charging every fragment's full
// incremental cost (content, plus title and header the first time each is
// seen) against the budget before committing anything. Render then serializes
// the accumulated state deterministically: documents in first-seen order,
// headers and fragments restored to source order, with an ellipsis line
// marking elided gaps.
//
// A Builder is created fresh per query, fed sequentially, rendered, and
// discarded. Builders share no state; the package is concurrency-safe in the
// sense that distinct queries never touch the same Builder.
package narrative
