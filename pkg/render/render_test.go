package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/promptboard/pkg/leaderboard"
	"github.com/dkoosis/promptboard/pkg/pattern"
)

var finalList = leaderboard.RankedList{
	{Name: "A", Score: 92},
	{Name: "B", Score: 81},
	{Name: "C", Score: 70},
	{Name: "D", Score: 12},
}

func TestTerminal_RenderPodiumAndTable(t *testing.T) {
	patterns := []pattern.Pattern{
		pattern.NewPodium("Podium", finalList),
		pattern.NewResultsTable("Final Results", finalList),
	}
	out := NewTerminal(MonoTheme(), 80).Render(patterns)

	for _, want := range []string{"1st", "2nd", "3rd", "92", "81", "70", "4. D"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "2nd"), strings.Index(out, "1st"), "second place is drawn left of first")
}

func TestTerminal_PodiumBarsFollowHeights(t *testing.T) {
	p := pattern.NewPodium("", finalList[:1])
	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{p})

	bars := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "###") {
			bars++
		}
	}
	assert.Equal(t, p.Slots[0].Height, bars)
	assert.NotContains(t, out, "2nd")
}

func TestTerminal_EmptyPodiumRendersNothing(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{pattern.NewPodium("Podium", nil)})
	assert.Empty(t, out)
}

func TestTerminal_EmptyResultsShowNeutralState(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{pattern.NewResultsTable("Results", nil)})

	assert.Contains(t, out, pattern.EmptyResultsText)
	assert.NotContains(t, out, "x ")
}

func TestTerminal_RenderFeedbackTable(t *testing.T) {
	table := &pattern.TestTable{
		Label: "Results",
		Results: []pattern.TestTableItem{
			{Name: "Pause under arbeidstid", Status: pattern.StatusCorrect, Expected: "Sticos", Actual: "Sticos"},
			{Name: "Når må jeg sende inn MVA-melding?", Status: pattern.StatusUnknown, Expected: "Sticos"},
		},
	}
	out := NewTerminal(MonoTheme(), 100).Render([]pattern.Pattern{table})

	assert.Contains(t, out, "+ Pause under arbeidstid")
	assert.Contains(t, out, "? Når må jeg sende inn MVA-melding?")
}

func TestPlain_NoANSI(t *testing.T) {
	patterns := []pattern.Pattern{
		&pattern.Notice{Level: pattern.NoticeError, Text: "fetch failed"},
		pattern.NewPodium("Podium", finalList),
		pattern.NewResultsTable("Final Results", finalList),
	}
	out := NewPlain().Render(patterns)

	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "ERR fetch failed")
	assert.Contains(t, out, "1st A 92")
	assert.Less(t, strings.Index(out, "1st"), strings.Index(out, "2nd"))
	assert.Contains(t, out, "4. D 12")
}

func TestPlain_EmptyResults(t *testing.T) {
	out := NewPlain().Render([]pattern.Pattern{pattern.NewResultsTable("Results", nil)})
	assert.Equal(t, "Results\n  No results yet\n", out)
}

func TestJSON_RenderPodium(t *testing.T) {
	out := NewJSON().Render([]pattern.Pattern{pattern.NewPodium("Podium", finalList)})

	var doc struct {
		Version  string `json:"version"`
		Patterns []struct {
			Type string `json:"type"`
			Data struct {
				Places []struct {
					Rank int    `json:"rank"`
					Name string `json:"name"`
				} `json:"places"`
			} `json:"data"`
		} `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Patterns, 1)
	assert.Equal(t, "podium", doc.Patterns[0].Type)
	assert.Len(t, doc.Patterns[0].Data.Places, 3)
}

func TestJSON_RenderResultsTableCarriesMetricName(t *testing.T) {
	out := NewJSON().Render([]pattern.Pattern{pattern.NewResultsTable("Final Results", finalList[:2])})

	var doc struct {
		Patterns []struct {
			Data struct {
				Metric  string `json:"metric"`
				Entries []struct {
					Rank  int     `json:"rank"`
					Name  string  `json:"name"`
					Score float64 `json:"score"`
				} `json:"entries"`
			} `json:"data"`
		} `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Patterns, 1)
	assert.Equal(t, "Score", doc.Patterns[0].Data.Metric)
	require.Len(t, doc.Patterns[0].Data.Entries, 2)
	assert.Equal(t, "A", doc.Patterns[0].Data.Entries[0].Name)
	assert.Equal(t, 2, doc.Patterns[0].Data.Entries[1].Rank)
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSON{}, ForFormat(FormatJSON, MonoTheme(), 80))
	assert.IsType(t, &Plain{}, ForFormat(FormatPlain, MonoTheme(), 80))
	assert.IsType(t, &Terminal{}, ForFormat(FormatTerminal, MonoTheme(), 80))
	assert.True(t, ValidFormat("auto"))
	assert.False(t, ValidFormat("llm"))
	assert.True(t, ValidTheme("orca"))
	assert.Equal(t, "default", ThemeByName("nope").Name)
}
