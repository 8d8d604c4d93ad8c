package color

import (
	"fmt"
	"math"
	"strings"
)

// maxDistance is the largest possible euclidean distance in RGB space:
// sqrt(255^2 * 3).
var maxDistance = math.Sqrt(255 * 255 * 3)

// RGB is a color in 8-bit-per-channel RGB space.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// ParseHex parses "#RRGGBB" (leading '#' optional, case-insensitive).
func ParseHex(hex string) (RGB, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("malformed hex color %q", hex)
	}
	var c RGB
	if _, err := fmt.Sscanf(strings.ToLower(s), "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return RGB{}, fmt.Errorf("malformed hex color %q: %w", hex, err)
	}
	return c, nil
}

// Hex renders the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Distance returns a similarity in [0, 1] where 1 means identical colors.
// It is the euclidean RGB distance normalized by the maximum possible
// distance, inverted and clamped at zero.
func Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	d := math.Sqrt(dr*dr + dg*dg + db*db)
	return math.Max(0, 1-d/maxDistance)
}

// PaletteSimilarity returns the mean pairwise Distance across two palettes,
// in [0, 1]. Either palette being empty yields 0.
func PaletteSimilarity(p1, p2 []RGB) float64 {
	if len(p1) == 0 || len(p2) == 0 {
		return 0
	}
	var sum float64
	for _, a := range p1 {
		for _, b := range p2 {
			sum += Distance(a, b)
		}
	}
	return sum / float64(len(p1)*len(p2))
}

// ParsePalette parses a list of hex colors, skipping malformed entries.
func ParsePalette(hexes []string) []RGB {
	out := make([]RGB, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}
