package model

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_DecodeFromService(t *testing.T) {
	body := `{"data":{"urls":[
		{"_id":"a1","originalUrl":"https://example.com","shortenUrl":"http://s.io/abc","logo":"http://logo","createdAt":"2026-01-02T10:00:00Z","expiredIn":"2026-02-01T00:00:00Z"},
		{"_id":"b2","originalUrl":"https://go.dev","shortenUrl":"http://s.io/def","createdAt":"2026-01-03T10:00:00Z"}
	]}}`

	var resp ListResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Data.URLs, 2)

	first := resp.Data.URLs[0]
	assert.Equal(t, "a1", first.ID)
	assert.Equal(t, "http://s.io/abc", first.ShortenedURL)
	require.NotNil(t, first.ExpiredIn)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), first.ExpiredIn.UTC())
	assert.False(t, first.NeverExpires())

	// Отсутствующий срок означает "бессрочно"
	assert.True(t, resp.Data.URLs[1].NeverExpires())
}

func TestShortenRequest_OmitsAbsentExpiration(t *testing.T) {
	data, err := json.Marshal(ShortenRequest{OriginalURL: "https://example.com"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"originalUrl":"https://example.com"}`, string(data))
}

func TestIsInputError(t *testing.T) {
	assert.True(t, IsInputError(fmt.Errorf("wrap: %w", ErrInvalidInput)))
	assert.True(t, IsInputError(ErrValidation))
	assert.False(t, IsInputError(ErrTransport))
	assert.False(t, IsInputError(nil))
}
