package ui

import (
	"fmt"
	"strings"

	"railchat/internal/api"
	"railchat/internal/models"
	"railchat/internal/styles"

	"github.com/mattn/go-runewidth"
)

func WrappedLineCount(value string, width int) int {
	if width <= 0 {
		return 1
	}
	lines := strings.Split(value, "\n")
	if len(lines) == 0 {
		return 1
	}
	count := 0
	for _, line := range lines {
		w := runewidth.StringWidth(line)
		if w == 0 {
			count++
			continue
		}
		count += (w-1)/width + 1
	}
	return count
}

func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

func FormatUserMessage(content string, width int) string {
	label := styles.UserLabelStyle.Render("YOU")
	msg := styles.UserMsgStyle.Width(max(width-4, 10)).Render(content)
	return fmt.Sprintf("%s\n%s", label, msg)
}

func FormatAIMessage(content string) string {
	label := styles.AiLabelStyle.Render("ASSISTANT")
	msg := styles.AiMsgStyle.Render(content)
	return fmt.Sprintf("%s\n%s", label, msg)
}

func (m *Model) renderMarkdown(content string) string {
	if m.Renderer == nil {
		return content
	}
	rendered, err := m.Renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

// DocsMarkdown is the API reference shown on the docs tab, with the base URL
// of the running server filled in.
func DocsMarkdown(baseURL, model string) string {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return fmt.Sprintf("# API Documentation\n\n"+
		"The server speaks the OpenAI chat completions protocol at `%[1]s`. "+
		"Every request must carry an `Authorization: Bearer <api key>` header.\n\n"+
		"| Method | Path | Purpose |\n"+
		"|---|---|---|\n"+
		"| GET | `/health` | Liveness probe |\n"+
		"| GET | `/v1/models` | List loaded models |\n"+
		"| POST | `/v1/chat/completions` | Generate a chat completion |\n\n"+
		"## Python\n\n"+
		"```python\n"+
		"from openai import OpenAI\n\n"+
		"client = OpenAI(base_url=\"%[1]s/v1\", api_key=\"<api key>\")\n"+
		"response = client.chat.completions.create(\n"+
		"    model=\"%[2]s\",\n"+
		"    messages=[{\"role\": \"user\", \"content\": \"Hello!\"}],\n"+
		"    max_tokens=1000,\n"+
		")\n"+
		"print(response.choices[0].message.content)\n"+
		"```\n\n"+
		"## curl\n\n"+
		"```bash\n"+
		"curl %[1]s/v1/chat/completions \\\n"+
		"  -H \"Content-Type: application/json\" \\\n"+
		"  -H \"Authorization: Bearer <api key>\" \\\n"+
		"  -d '{\"model\": \"%[2]s\", \"messages\": [{\"role\": \"user\", \"content\": \"Hello!\"}]}'\n"+
		"```\n", baseURL, model)
}

// ListingLines renders the model listing. Empty listings and failures are
// worded differently so they cannot be confused.
func ListingLines(listing models.ModelListing) []string {
	switch listing.State {
	case models.ListingLoading:
		return []string{styles.HintStyle.Render("Loading models...")}
	case models.ListingEmpty:
		return []string{styles.HintStyle.Render("No models available")}
	case models.ListingFailed:
		if kind, ok := api.KindOf(listing.Err); ok && kind == api.KindTransport {
			return []string{styles.ErrorStyle.Render("Error loading models")}
		}
		return []string{styles.ErrorStyle.Render("Failed to load models")}
	}

	lines := make([]string, 0, len(listing.Models)*2)
	for _, mdl := range listing.Models {
		lines = append(lines,
			styles.ModelNameStyle.Render(mdl.ID),
			styles.HintStyle.Render("  Object: "+mdl.Object),
		)
	}
	return lines
}
