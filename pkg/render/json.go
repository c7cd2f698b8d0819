package render

import (
	"encoding/json"

	"github.com/dkoosis/promptboard/pkg/pattern"
)

// JSON renders patterns as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// jsonOutput is the top-level JSON structure.
type jsonOutput struct {
	Version  string        `json:"version"`
	Patterns []jsonPattern `json:"patterns"`
}

type jsonPattern struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type jsonPlace struct {
	Rank   int     `json:"rank"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Height int     `json:"height"`
}

type jsonStanding struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type jsonQuestion struct {
	Question string `json:"question"`
	Status   string `json:"status"`
	Expected string `json:"expected"`
	Actual   string `json:"actual,omitempty"`
}

type jsonMetric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Render formats all patterns as JSON.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	out := jsonOutput{
		Version:  "1",
		Patterns: make([]jsonPattern, 0, len(patterns)),
	}

	for _, p := range patterns {
		out.Patterns = append(out.Patterns, jsonPattern{
			Type: string(p.Type()),
			Data: jsonData(p),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}

func jsonData(p pattern.Pattern) any {
	switch v := p.(type) {
	case *pattern.Podium:
		places := make([]jsonPlace, 0, len(v.Slots))
		for _, s := range v.Slots {
			places = append(places, jsonPlace{Rank: s.Rank, Name: s.Entry.Name, Score: s.Entry.Score, Height: s.Height})
		}
		return map[string]any{"label": v.Label, "places": places}
	case *pattern.Leaderboard:
		rows := make([]jsonStanding, 0, len(v.Items))
		for _, item := range v.Items {
			rows = append(rows, jsonStanding{Rank: item.Rank, Name: item.Name, Score: item.Value})
		}
		return map[string]any{"label": v.Label, "metric": v.MetricName, "entries": rows}
	case *pattern.TestTable:
		rows := make([]jsonQuestion, 0, len(v.Results))
		for _, r := range v.Results {
			rows = append(rows, jsonQuestion{Question: r.Name, Status: r.Status, Expected: r.Expected, Actual: r.Actual})
		}
		return map[string]any{"label": v.Label, "questions": rows}
	case *pattern.Summary:
		metrics := make([]jsonMetric, 0, len(v.Metrics))
		for _, m := range v.Metrics {
			metrics = append(metrics, jsonMetric{Label: m.Label, Value: m.Value})
		}
		return map[string]any{"label": v.Label, "kind": string(v.Kind), "metrics": metrics}
	case *pattern.Notice:
		return map[string]any{"level": v.Level, "text": v.Text}
	default:
		return p
	}
}
