package narrative

import (
	"sort"
	"strings"
)

// GapMarker is emitted on its own line between fragments whose sequence
// numbers are not consecutive, signaling elided source text.
const GapMarker = "..."

// Render serializes the accumulated state into a single text block suitable
// for inclusion in a completion prompt. It is a pure function of the current
// state: repeatable, side-effect free, and idempotent. Rendering an empty
// builder yields an empty string.
//
// Ordering rules:
//   - documents in the order they were first seen during ingestion;
//   - within a document, headers by the sequence number of each group's
//     first-arriving fragment — an approximation of source order that can
//     diverge from it when fragments arrive out of sequence within a header,
//     since arrival order is relevance-ranked (a known corpus-ordering
//     fragility, preserved deliberately);
//   - within a header group, fragments ascending by sequence number, with a
//     gap marker between non-consecutive neighbors.
func (b *Builder) Render() string {
	if len(b.docOrder) == 0 {
		return ""
	}

	var lines []string
	for _, id := range b.docOrder {
		doc := b.docs[id]

		title := strings.ToUpper(doc.title)
		if id == b.finalID && b.finalID != "" {
			title = "FINAL " + title
		}
		lines = append(lines, `From document "`+title+`":`)

		headers := make([]string, len(doc.headerOrder))
		copy(headers, doc.headerOrder)
		sort.SliceStable(headers, func(i, j int) bool {
			return doc.headers[headers[i]].fragments[0].SequenceNumber <
				doc.headers[headers[j]].fragments[0].SequenceNumber
		})

		for _, h := range headers {
			group := doc.headers[h]
			if group.header != "" {
				lines = append(lines, group.header+":")
			}

			frags := make([]FragmentRecord, len(group.fragments))
			copy(frags, group.fragments)
			sort.SliceStable(frags, func(i, j int) bool {
				return frags[i].SequenceNumber < frags[j].SequenceNumber
			})

			for i, f := range frags {
				if i > 0 && f.SequenceNumber != frags[i-1].SequenceNumber+1 {
					lines = append(lines, GapMarker)
				}
				lines = append(lines, f.Content)
			}
		}

		// Blank separator after each document's content.
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
