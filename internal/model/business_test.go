package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateKey_PlaceIDVerbatim(t *testing.T) {
	c := Candidate{PlaceID: "ChIJ-XYZ", Name: "Joe's Diner", Address: "1 Main St"}
	assert.Equal(t, DuplicateKey("ChIJ-XYZ"), c.Key())
	// The place ID is never folded.
	assert.Equal(t, DuplicateKey("ChIJ-XYZ"), Candidate{PlaceID: "ChIJ-XYZ"}.Key())
}

func TestCandidateKey_NameAddressFallback(t *testing.T) {
	a := Candidate{Name: "Joe's Diner", Address: "1 Main St, Springfield"}
	b := Candidate{Name: "  JOE'S DINER ", Address: "1 MAIN ST, SPRINGFIELD  "}

	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, DuplicateKey("joe's diner|1 main st, springfield"), a.Key())
}

func TestCandidateKey_DistinctBusinesses(t *testing.T) {
	a := Candidate{Name: "Joe's Diner", Address: "1 Main St"}
	b := Candidate{Name: "Joe's Diner", Address: "2 Oak Ave"}
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestKeySet(t *testing.T) {
	s := KeySet{}
	assert.False(t, s.Contains("k1"))
	s.Add("k1")
	assert.True(t, s.Contains("k1"))
	s.Add("k1")
	assert.Len(t, s, 1)
}
