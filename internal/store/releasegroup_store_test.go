package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waugzee/internal/models"
)

func TestArtistCredit_MarshalUnmarshalRoundTrip(t *testing.T) {
	credits := []models.ArtistCreditEntry{
		{ArtistID: "artist-1", CreditedName: "Boards of Canada", JoinPhrase: " & "},
		{ArtistID: "artist-2", CreditedName: "Autechre", JoinPhrase: ""},
	}

	raw := MarshalArtistCredit(credits)
	got := UnmarshalArtistCredit(raw)

	assert.Equal(t, credits, got)
}

func TestMarshalArtistCredit_NilBecomesEmptyList(t *testing.T) {
	raw := MarshalArtistCredit(nil)

	assert.JSONEq(t, "[]", string(raw))
}

func TestUnmarshalArtistCredit_EmptyRawReturnsNil(t *testing.T) {
	assert.Nil(t, UnmarshalArtistCredit(nil))
	assert.Nil(t, UnmarshalArtistCredit([]byte{}))
}
