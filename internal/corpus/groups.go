// Package corpus describes the fixed set of negotiation documents the
// assistant answers questions about: the named document groups clients
// present as selectable sets, and the manifest format the index builder
// consumes.
package corpus

import "fmt"

// FinalAgreementID is the document ID of the final draft agreement. Its
// title is rendered with a "FINAL" prefix because the indexed title itself
// does not say which draft is final.
const FinalAgreementID = "0"

// Group is a named set of documents that can be included in or excluded
// from a search as a unit.
type Group struct {
	Label       string   `json:"label"`
	DocumentIDs []string `json:"documentIds"`
}

// Groups lists the selectable document sets, in display order. The IDs
// match the documentId column of the passage index.
var Groups = []Group{
	{Label: "BBNJ final draft agreement", DocumentIDs: []string{"0"}},
	{Label: "Prior 5th-session draft agreements", DocumentIDs: []string{"1", "5", "45"}},
	{Label: "Small group work outcomes", DocumentIDs: []string{"2"}},
	{Label: "Delegates' submitted proposals", DocumentIDs: []string{"6"}},
	{Label: "President's statement on suspension", DocumentIDs: []string{"46"}},
	{Label: "Party statements", DocumentIDs: []string{
		"7", "8", "9", "10", "11", "12", "13", "14", "15", "16", "17",
		"18", "19", "20", "21", "22", "23", "24",
	}},
	{Label: "Earth Negotiations Bulletin Reports: initial 5th session", DocumentIDs: []string{
		"35", "36", "37", "38", "39", "40", "41", "42", "43", "44",
	}},
	{Label: "Earth Negotiations Bulletin Reports: resumed 5th session", DocumentIDs: []string{
		"25", "26", "227", "28", "29", "30", "31", "32", "33", "34",
	}},
}

// DocumentIDs flattens the selected group indices into the full list of
// document IDs to include in a search. Indices out of range are an error
// rather than silently skipped.
func DocumentIDs(groupIndices []int) ([]string, error) {
	var ids []string
	for _, i := range groupIndices {
		if i < 0 || i >= len(Groups) {
			return nil, fmt.Errorf("document group index %d out of range [0,%d)", i, len(Groups))
		}
		ids = append(ids, Groups[i].DocumentIDs...)
	}
	return ids, nil
}

// AllDocumentIDs returns the IDs of every document in every group.
func AllDocumentIDs() []string {
	var ids []string
	for _, g := range Groups {
		ids = append(ids, g.DocumentIDs...)
	}
	return ids
}
