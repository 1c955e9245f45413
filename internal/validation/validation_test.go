package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/Popolzen/linkdash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		form       ShortenForm
		wantURL    string
		wantExpiry *time.Time
		wantMsg    string
	}{
		{
			name:    "Корректный URL без срока",
			form:    ShortenForm{URL: "https://example.com"},
			wantURL: "https://example.com",
		},
		{
			name:       "Корректный URL с датой",
			form:       ShortenForm{URL: "https://example.com/a?b=c", ExpiredIn: "2030-05-17"},
			wantURL:    "https://example.com/a?b=c",
			wantExpiry: ptr(time.Date(2030, 5, 17, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:       "Дата в RFC 3339",
			form:       ShortenForm{URL: "https://example.com", ExpiredIn: "2030-05-17T12:30:00Z"},
			wantURL:    "https://example.com",
			wantExpiry: ptr(time.Date(2030, 5, 17, 12, 30, 0, 0, time.UTC)),
		},
		{
			name:    "Пробелы вокруг URL",
			form:    ShortenForm{URL: "  https://example.com  "},
			wantURL: "https://example.com",
		},
		{
			name:    "Пустой URL",
			form:    ShortenForm{URL: ""},
			wantMsg: MsgURLEmpty,
		},
		{
			name:    "Не URL",
			form:    ShortenForm{URL: "not-a-url"},
			wantMsg: MsgURLInvalid,
		},
		{
			name:    "Битая дата",
			form:    ShortenForm{URL: "https://example.com", ExpiredIn: "tomorrow"},
			wantMsg: MsgDateInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.form)

			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)

				var formErr *FormError
				require.True(t, errors.As(err, &formErr))
				assert.Equal(t, tt.wantMsg, formErr.Message)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, got.URL)
			if tt.wantExpiry == nil {
				assert.Nil(t, got.ExpiredIn)
			} else {
				require.NotNil(t, got.ExpiredIn)
				assert.True(t, tt.wantExpiry.Equal(*got.ExpiredIn))
			}
		})
	}
}

func TestParseDate_Empty(t *testing.T) {
	got, err := ParseDate("   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIsAbsoluteURL(t *testing.T) {
	assert.True(t, IsAbsoluteURL("https://example.com"))
	assert.True(t, IsAbsoluteURL("http://localhost:8080/path"))
	assert.False(t, IsAbsoluteURL(""))
	assert.False(t, IsAbsoluteURL("not-a-url"))
	assert.False(t, IsAbsoluteURL("/relative/path"))
}

func ptr(t time.Time) *time.Time {
	return &t
}
