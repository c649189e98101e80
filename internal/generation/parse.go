package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

// MaxTitleRunes caps the stored title length.
const MaxTitleRunes = 200

// Result is a validated brief as produced by a model, before it is bound to
// an account and persisted.
type Result struct {
	Title              string
	Description        string
	Category           domain.Category
	LinguisticInsights []domain.LinguisticInsight
	HistoricalContext  string
	OutlinePoints      []domain.OutlinePoint
}

// wireBrief is the JSON shape requested by SystemPrompt.
type wireBrief struct {
	Title              string                     `json:"title"`
	Description        string                     `json:"description"`
	Category           string                     `json:"category"`
	LinguisticInsights []domain.LinguisticInsight `json:"linguisticInsights"`
	HistoricalContext  string                     `json:"historicalContext"`
	OutlinePoints      []domain.OutlinePoint      `json:"outlinePoints"`
}

// ParseBrief decodes and validates a model reply. Markdown code fences and
// prose around the object are tolerated; anything else that is not exactly
// one JSON object with a title yields domain.ErrMalformedGeneration.
func ParseBrief(raw string) (*Result, error) {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrMalformedGeneration)
	}

	if !strings.HasPrefix(text, "{") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start == -1 || end <= start {
			return nil, fmt.Errorf("%w: no JSON object found", domain.ErrMalformedGeneration)
		}
		text = text[start : end+1]
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	var w wireBrief
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrMalformedGeneration, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: more than one JSON value", domain.ErrMalformedGeneration)
	}

	title := strings.TrimSpace(w.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: missing title", domain.ErrMalformedGeneration)
	}

	res := &Result{
		Title:              truncateRunes(title, MaxTitleRunes),
		Description:        strings.TrimSpace(w.Description),
		Category:           domain.CoerceCategory(w.Category),
		LinguisticInsights: make([]domain.LinguisticInsight, 0, len(w.LinguisticInsights)),
		HistoricalContext:  strings.TrimSpace(w.HistoricalContext),
		OutlinePoints:      make([]domain.OutlinePoint, 0, len(w.OutlinePoints)),
	}

	for _, li := range w.LinguisticInsights {
		li.Term = strings.TrimSpace(li.Term)
		if li.Term == "" {
			continue
		}
		li.Transliteration = strings.TrimSpace(li.Transliteration)
		li.Meaning = strings.TrimSpace(li.Meaning)
		li.Usage = strings.TrimSpace(li.Usage)
		res.LinguisticInsights = append(res.LinguisticInsights, li)
	}

	for _, op := range w.OutlinePoints {
		op.Title = strings.TrimSpace(op.Title)
		if op.Title == "" {
			continue
		}
		op.Content = strings.TrimSpace(op.Content)
		res.OutlinePoints = append(res.OutlinePoints, op)
	}

	return res, nil
}

// stripFences removes a surrounding ```json ... ``` block.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	end := len(lines)
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			end = i
			break
		}
	}
	if end <= 1 {
		return ""
	}
	body := strings.TrimSpace(strings.Join(lines[1:end], "\n"))
	return strings.TrimSpace(strings.TrimSuffix(body, "```"))
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}
