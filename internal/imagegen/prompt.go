package imagegen

import (
	"fmt"
	"strings"
)

const (
	DefaultMaxFurniture = 5
	DefaultStyle        = "modern contemporary interior design"
	DefaultFurniture    = "modern furniture"
	DefaultPlacement    = "Place the furniture naturally in the room"
)

// NegativePrompt lists what every render should avoid
const NegativePrompt = "blurry, distorted, cartoon, anime, unrealistic, low quality, bad lighting, " +
	"oversaturated, cluttered, messy, unprofessional, amateur, ugly, deformed, distorted perspective, " +
	"watermark, text, signature, logo, grainy, pixelated, noise, artifacts, out of focus, " +
	"poor composition, bad perspective, multiple rooms, structural changes, people, animals, " +
	"doors changes, window changes, wall removal"

const promptTemplate = `Professional interior design photograph in %s.

Furniture to place: %s.

Placement instructions: %s.

Style requirements: High quality, photorealistic, 4K resolution, realistic lighting and shadows, preserve original room layout and structure, magazine-quality interior design photography, professional composition, natural colors.`

// BuildPrompt assembles the positive prompt sent to every strategy
func BuildPrompt(style string, furniture []string, placement string, maxFurniture int) string {
	style = strings.TrimSpace(style)
	if style == "" {
		style = DefaultStyle
	}

	placement = strings.TrimSpace(placement)
	if placement == "" {
		placement = DefaultPlacement
	}
	placement = strings.TrimRight(placement, ".")

	return fmt.Sprintf(promptTemplate, style, describeFurniture(furniture, maxFurniture), placement)
}

func describeFurniture(names []string, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxFurniture
	}

	picked := make([]string, 0, limit)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		picked = append(picked, n)
		if len(picked) == limit {
			break
		}
	}

	if len(picked) == 0 {
		return DefaultFurniture
	}
	return strings.Join(picked, ", ")
}
