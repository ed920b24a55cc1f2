// Package statscard renders a player's guild stats as a small PNG
// card suitable for embedding in a Discord message.
package statscard

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/nocturne-gg/riftkeeper/internal/guild"
	"github.com/nocturne-gg/riftkeeper/internal/rating"
)

const (
	cardWidth  = 420
	cardHeight = 220
)

var (
	background = color.RGBA{R: 0x1e, G: 0x22, B: 0x2b, A: 0xff}
	accent     = color.RGBA{R: 0xc8, G: 0xaa, B: 0x6e, A: 0xff}
	textColor  = color.RGBA{R: 0xf0, G: 0xe6, B: 0xd2, A: 0xff}
	dimColor   = color.RGBA{R: 0xa0, G: 0xa8, B: 0xb8, A: 0xff}
)

// Render draws the card and writes it as PNG. The output always
// starts with the PNG magic bytes.
func Render(w io.Writer, discordID string, stats *guild.UserStats) error {
	img := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	// Accent strip along the top edge.
	draw.Draw(img, image.Rect(0, 0, cardWidth, 6), image.NewUniform(accent), image.Point{}, draw.Src)

	rank := rating.RankOf(stats.Rating)
	winRate := 0.0
	if games := stats.Wins + stats.Losses; games > 0 {
		winRate = float64(stats.Wins) / float64(games) * 100
	}

	drawText(img, 20, 36, textColor, discordID)
	drawText(img, 20, 68, accent, fmt.Sprintf("%s  (%d LP)", rank.Format(), stats.Rating))

	lines := []string{
		fmt.Sprintf("Wins:   %d", stats.Wins),
		fmt.Sprintf("Losses: %d", stats.Losses),
		fmt.Sprintf("Win rate: %.1f%%", winRate),
		fmt.Sprintf("Peak rating: %d", stats.PeakRating),
		fmt.Sprintf("Streak: %+d", stats.CurrentStreak),
	}
	if stats.IsPlacement {
		lines = append(lines, fmt.Sprintf("Placements: %d/%d",
			stats.PlacementGames, rating.PlacementGamesRequired))
	}

	y := 100
	for _, line := range lines {
		drawText(img, 20, y, dimColor, line)
		y += 20
	}

	return png.Encode(w, img)
}

func drawText(img draw.Image, x, y int, c color.Color, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
