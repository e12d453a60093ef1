package anthropic

import "strings"

// CleanJSON strips markdown code fences and surrounding prose from a model
// response so it can be fed to json.Unmarshal. Models frequently wrap JSON in
// ```json fences despite instructions not to.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx != -1 {
			text = text[idx+1:]
		}
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Fall back to the outermost JSON value when the model added prose.
	start := strings.IndexAny(text, "[{")
	if start == -1 {
		return text
	}
	open := text[start]
	closing := byte(']')
	if open == '{' {
		closing = '}'
	}
	end := strings.LastIndexByte(text, closing)
	if end > start {
		return text[start : end+1]
	}
	return text
}
