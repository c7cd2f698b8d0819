// Package leaderboard holds the contest standings as served by the API.
// The server owns ordering; this package only filters and slices.
package leaderboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PodiumSize is the number of entries shown on the podium.
const PodiumSize = 3

// Entry is one participant's standing.
type Entry struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`               // 0 means not yet computed
	Timestamp string  `json:"timestamp,omitempty"` // carried through, never interpreted
}

// RankedList is a server-ordered sequence of entries (descending score).
type RankedList []Entry

// Scored returns the entries with a positive score, keeping server order.
func Scored(list RankedList) RankedList {
	out := make(RankedList, 0, len(list))
	for _, e := range list {
		if e.Score > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Top3 returns the first PodiumSize entries of list.
func Top3(list RankedList) RankedList {
	n := len(list)
	if n > PodiumSize {
		n = PodiumSize
	}
	out := make(RankedList, n)
	copy(out, list[:n])
	return out
}

// Decode parses an API response body. Anything that is valid JSON but not an
// array (null, object, scalar) and an empty body decode to an empty list.
func Decode(data []byte) (RankedList, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return RankedList{}, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("leaderboard: malformed JSON response")
	}
	if trimmed[0] != '[' {
		return RankedList{}, nil
	}

	var raw []rawEntry
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("leaderboard: decoding entries: %w", err)
	}
	list := make(RankedList, 0, len(raw))
	for _, r := range raw {
		list = append(list, r.entry())
	}
	return list, nil
}

// rawEntry tolerates null fields and string-typed scores from the server.
type rawEntry struct {
	Name      *string         `json:"name"`
	Score     json.RawMessage `json:"score"`
	Timestamp *string         `json:"timestamp"`
}

func (r rawEntry) entry() Entry {
	var e Entry
	if r.Name != nil {
		e.Name = *r.Name
	}
	if r.Timestamp != nil {
		e.Timestamp = *r.Timestamp
	}
	e.Score = parseScore(r.Score)
	return e
}

func parseScore(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
	}
	if f < 0 {
		return 0
	}
	return f
}

// FormatScore prints whole scores without decimals.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
