package intelligence

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoQuestions is returned when model output holds no usable question.
var ErrNoQuestions = errors.New("no questions in model output")

// ParseQuestions extracts question strings from a model reply. The reply may
// be wrapped in a markdown code fence and may hold a JSON array of strings,
// an array of {"question": ...} objects, or a single JSON string.
func ParseQuestions(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		var single string
		if json.Unmarshal([]byte(s), &single) == nil && strings.TrimSpace(single) != "" {
			return []string{strings.TrimSpace(single)}, nil
		}
		return nil, fmt.Errorf("decode model output: %w", err)
	}

	questions := make([]string, 0, len(items))
	for _, item := range items {
		var text string
		if err := json.Unmarshal(item, &text); err != nil {
			var obj struct {
				Question string `json:"question"`
			}
			if err := json.Unmarshal(item, &obj); err != nil {
				continue
			}
			text = obj.Question
		}

		if text = strings.TrimSpace(text); text != "" {
			questions = append(questions, text)
		}
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	return questions, nil
}
