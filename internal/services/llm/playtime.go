package llm

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gamelxrd/internal/services"
)

const maxPlausibleHours = 1000

// PlaytimePrompt instructs the model to answer with main-story hours only.
const PlaytimePrompt = `You are an expert on video game completion times, specifically data from HowLongToBeat.com.
Your ONLY task is to provide the estimated "Main Story" completion time in hours for the given game.

Rules:
1. Return ONLY a valid JSON object: { "hours": number }.
2. Do not include any explanations or other text.
3. If the game is endless (e.g., multiplayer only), return { "hours": 0 }.
4. If data is unavailable, estimate based on genre standards but prefer accuracy.`

// EstimatePlaytime returns main-story hours for a game. Zero means the game
// has no story to finish.
func (c *Client) EstimatePlaytime(ctx context.Context, title string, year int) (float64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, services.Wrap(services.ErrValidation, source, "playtime", "title required", nil)
	}
	subject := fmt.Sprintf("%q", title)
	if year > 0 {
		subject = fmt.Sprintf("%q (%d)", title, year)
	}
	content, err := c.CompleteJSON(ctx, PlaytimePrompt, "Game: "+subject+". Main Story completion time in hours?")
	if err != nil {
		return 0, err
	}
	var parsed struct {
		Hours *float64 `json:"hours"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return 0, services.Wrap(services.ErrExternal, source, "playtime", "parse payload", err)
	}
	if parsed.Hours == nil {
		return 0, services.Wrap(services.ErrExternal, source, "playtime", "reply has no hours field", nil)
	}
	hours := *parsed.Hours
	if math.IsNaN(hours) || hours < 0 || hours > maxPlausibleHours {
		return 0, services.Wrap(services.ErrExternal, source, "playtime", fmt.Sprintf("implausible hours %v", hours), nil)
	}
	return hours, nil
}
