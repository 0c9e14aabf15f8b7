package kana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderKanji(t *testing.T) {
	r, err := NewReader()
	require.NoError(t, err)

	reading, romaji, err := r.Romaji("寿司")
	require.NoError(t, err)
	assert.Equal(t, "すし", reading)
	assert.Equal(t, "sushi", romaji)

	reading, err = r.Reading("東京")
	require.NoError(t, err)
	assert.Equal(t, "とうきょう", reading)
}

func TestReaderKanaBypass(t *testing.T) {
	r, err := NewReader()
	require.NoError(t, err)

	reading, romaji, err := r.Romaji("カメラ")
	require.NoError(t, err)
	assert.Equal(t, "かめら", reading)
	assert.Equal(t, "kamera", romaji)
}

func TestReaderEmpty(t *testing.T) {
	r, err := NewReader()
	require.NoError(t, err)
	_, err = r.Reading("  ")
	assert.Error(t, err)
}
