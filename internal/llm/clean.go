package llm

import "strings"

// CleanJSONResponse strips markdown code fences and surrounding prose from a
// model reply, returning the first balanced JSON object. Returns the trimmed
// input unchanged when no object is found.
func CleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	// Remove markdown code block markers
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}

	// Count braces to find the matching closing brace, string-aware
	braceCount := 0
	lastValidBrace := -1
	inString := false
	escapeNext := false

	for i := firstBrace; i < len(response); i++ {
		char := response[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				lastValidBrace = i
			}
		}
	}

	if lastValidBrace == -1 {
		return response[firstBrace:]
	}
	return response[firstBrace : lastValidBrace+1]
}
