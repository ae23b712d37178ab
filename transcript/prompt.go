package transcript

import "encoding/json"

const systemPrompt = `You clean up speech-to-text transcripts.

You receive a JSON array of segments. Each segment has "index", "start", "end" and "text".
For every segment:
- remove filler words and verbal tics (um, uh, like, you know, I mean, sort of, ...);
- fix spelling and obvious transcription mistakes;
- keep the speaker's wording and meaning otherwise;
- never merge, split, drop or reorder segments.

Respond with only a JSON array containing exactly one object per input segment,
in the same order, shaped as {"index": <same index>, "cleanedText": "<cleaned text>"}.
Do not wrap the array in prose or markdown.`

type promptSegment struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func buildPrompt(raw []RawSegment) (string, error) {
	payload := make([]promptSegment, len(raw))
	for i, seg := range raw {
		payload[i] = promptSegment{Index: i, Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
