package narrative

import (
	"strings"
	"testing"
)

func TestRenderEmptyBuilder(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, 10)
	if got := b.Render(); got != "" {
		t.Errorf("Render() of empty builder = %q, want empty string", got)
	}
	if b.TokensConsumed() != 0 {
		t.Errorf("TokensConsumed() = %d, want 0", b.TokensConsumed())
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, 100)
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "draft", Header: "article one",
		Content: "first passage", SequenceNumber: 3,
	})
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "draft", Header: "article one",
		Content: "second passage", SequenceNumber: 1,
	})

	first := b.Render()
	second := b.Render()
	if first != second {
		t.Errorf("Render() not idempotent:\nfirst:  %q\nsecond: %q", first, second)
	}
}

// Documents render in first-seen order regardless of how their later
// fragments interleave.
func TestRenderDocumentOrder(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, 1000)
	ingestOK(t, b, FragmentRecord{
		DocumentID: "b", DocumentTitle: "beta doc", Header: "",
		Content: "beta first", SequenceNumber: 9,
	})
	ingestOK(t, b, FragmentRecord{
		DocumentID: "a", DocumentTitle: "alpha doc", Header: "",
		Content: "alpha first", SequenceNumber: 0,
	})
	ingestOK(t, b, FragmentRecord{
		DocumentID: "b", DocumentTitle: "beta doc", Header: "",
		Content: "beta second", SequenceNumber: 10,
	})

	out := b.Render()
	beta := strings.Index(out, `From document "BETA DOC":`)
	alpha := strings.Index(out, `From document "ALPHA DOC":`)
	if beta == -1 || alpha == -1 {
		t.Fatalf("missing document title lines:\n%s", out)
	}
	if beta > alpha {
		t.Errorf("document order wrong (beta arrived first):\n%s", out)
	}
}

func TestRenderTitleFormatting(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, 1000, WithFinalDocumentID("0"))
	ingestOK(t, b, FragmentRecord{
		DocumentID: "0", DocumentTitle: "Draft agreement", Header: "",
		Content: "text", SequenceNumber: 0,
	})
	ingestOK(t, b, FragmentRecord{
		DocumentID: "4", DocumentTitle: "Party statement", Header: "",
		Content: "more", SequenceNumber: 0,
	})

	out := b.Render()
	if !strings.Contains(out, `From document "FINAL DRAFT AGREEMENT":`) {
		t.Errorf("designated document missing FINAL prefix:\n%s", out)
	}
	if !strings.Contains(out, `From document "PARTY STATEMENT":`) {
		t.Errorf("ordinary document title wrong:\n%s", out)
	}
	if strings.Contains(out, `FINAL PARTY`) {
		t.Errorf("FINAL prefix applied to non-designated document:\n%s", out)
	}
}

// Headers are ordered by the sequence number of each group's first-arriving
// fragment. When fragments arrive out of source order this can diverge from
// true document order; that matches the corpus pipeline's behavior.
func TestRenderHeaderOrderByFirstArrival(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, 1000)
	// "late" arrives first carrying seq 8; "early" arrives second with seq 2.
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "doc", Header: "late",
		Content: "late body", SequenceNumber: 8,
	})
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "doc", Header: "early",
		Content: "early body", SequenceNumber: 2,
	})

	out := b.Render()
	if !(strings.Index(out, "early:") < strings.Index(out, "late:")) {
		t.Errorf("headers not ordered by first fragment's sequence number:\n%s", out)
	}

	// The fragility itself: a lower-sequence fragment arriving later does
	// not re-anchor its header group.
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "doc", Header: "late",
		Content: "actually earliest", SequenceNumber: 1,
	})
	out = b.Render()
	if !(strings.Index(out, "early:") < strings.Index(out, "late:")) {
		t.Errorf("header anchor changed after later arrival:\n%s", out)
	}
}

func TestRenderSkipsEmptyHeaderLine(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, 1000)
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "doc", Header: "",
		Content: "headerless text", SequenceNumber: 0,
	})

	out := b.Render()
	want := "From document \"DOC\":\nheaderless text\n"
	if out != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

// Fragments at sequence numbers [3, 4, 7] render as 3, 4, gap marker, 7.
func TestRenderGapDetection(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, 1000)
	for _, f := range []FragmentRecord{
		{DocumentID: "1", DocumentTitle: "doc", Header: "part", Content: "seven", SequenceNumber: 7},
		{DocumentID: "1", DocumentTitle: "doc", Header: "part", Content: "three", SequenceNumber: 3},
		{DocumentID: "1", DocumentTitle: "doc", Header: "part", Content: "four", SequenceNumber: 4},
	} {
		ingestOK(t, b, f)
	}

	out := b.Render()
	want := strings.Join([]string{
		`From document "DOC":`,
		"part:",
		"three",
		"four",
		GapMarker,
		"seven",
		"",
	}, "\n")
	if out != want {
		t.Errorf("Render() =\n%q\nwant\n%q", out, want)
	}
}

// Consecutive fragments never get a marker, including across the very first
// pair of a group.
func TestRenderNoGapForConsecutive(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, 1000)
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "doc", Header: "", Content: "zero", SequenceNumber: 0,
	})
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "doc", Header: "", Content: "one", SequenceNumber: 1,
	})
	if out := b.Render(); strings.Contains(out, GapMarker) {
		t.Errorf("unexpected gap marker:\n%s", out)
	}
}

// A gap right after the group's first fragment is flagged even when that
// fragment is sequence zero.
func TestRenderGapAfterFirstFragment(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, 1000)
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "doc", Header: "", Content: "zero", SequenceNumber: 0,
	})
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "doc", Header: "", Content: "five", SequenceNumber: 5,
	})
	out := b.Render()
	want := "From document \"DOC\":\nzero\n" + GapMarker + "\nfive\n"
	if out != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

// Duplicate header text in one document merges into a single group even when
// the ranges are not contiguous. Known corpus limitation, preserved.
func TestRenderDuplicateHeadersMerge(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, 1000)
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "doc", Header: "Annex",
		Content: "first annex", SequenceNumber: 2,
	})
	ingestOK(t, b, FragmentRecord{
		DocumentID: "1", DocumentTitle: "doc", Header: "Annex",
		Content: "second annex", SequenceNumber: 40,
	})

	out := b.Render()
	if strings.Count(out, "Annex:") != 1 {
		t.Errorf("duplicate header not merged into one group:\n%s", out)
	}
	if !strings.Contains(out, GapMarker) {
		t.Errorf("gap between merged ranges not flagged:\n%s", out)
	}
}
