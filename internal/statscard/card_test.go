package statscard_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/nocturne-gg/riftkeeper/internal/guild"
	"github.com/nocturne-gg/riftkeeper/internal/statscard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestRenderProducesPNG(t *testing.T) {
	var buf bytes.Buffer
	stats := &guild.UserStats{
		Rating: 1450, Wins: 12, Losses: 8, PlacementGames: 10,
		PeakRating: 1500, CurrentStreak: 3,
	}
	require.NoError(t, statscard.Render(&buf, "user#1234", stats))

	require.Greater(t, buf.Len(), len(pngMagic))
	assert.Equal(t, pngMagic, buf.Bytes()[:len(pngMagic)])

	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 420, img.Bounds().Dx())
	assert.Equal(t, 220, img.Bounds().Dy())
}

func TestRenderPlacementPlayer(t *testing.T) {
	var buf bytes.Buffer
	stats := &guild.UserStats{Rating: 1200, PlacementGames: 4, PeakRating: 1200}
	stats.IsPlacement = true
	require.NoError(t, statscard.Render(&buf, "fresh", stats))
	assert.Equal(t, pngMagic, buf.Bytes()[:len(pngMagic)])
}
