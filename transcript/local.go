package transcript

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fillers are the phrases removed by local cleanup.
var Fillers = []string{
	"um", "uh", "ah", "er", "like", "you know", "so", "well", "actually",
	"basically", "literally", "right", "okay", "alright", "kind of",
	"sort of", "i mean", "you see", "let me see",
}

var (
	fillerPattern = compileFillers(Fillers)

	spaceRun         = regexp.MustCompile(`\s+`)
	spaceBeforePunct = regexp.MustCompile(`\s+([,.!?])`)
	repeatedComma    = regexp.MustCompile(`,(\s*,)+`)
	commaBeforeStop  = regexp.MustCompile(`,\s*([.!?])`)
	leadingPunct     = regexp.MustCompile(`^[\s,.!?]+`)
)

// compileFillers builds one alternation, longest phrase first so
// "let me see" wins over shorter overlaps.
func compileFillers(phrases []string) *regexp.Regexp {
	sorted := append([]string(nil), phrases...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, p := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// CleanLocal removes filler phrases from text and normalizes spacing,
// punctuation and capitalization. It never fails; a segment made only of
// fillers cleans to "". Invalid UTF-8 bytes are dropped.
func CleanLocal(text string) string {
	s := strings.ToLower(strings.ToValidUTF8(text, ""))
	s = fillerPattern.ReplaceAllString(s, " ")
	s = spaceRun.ReplaceAllString(s, " ")
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = repeatedComma.ReplaceAllString(s, ",")
	s = commaBeforeStop.ReplaceAllString(s, "$1")
	s = leadingPunct.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return capitalizeFirst(s)
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// CleanLocalSegments applies CleanLocal to every segment, keeping order
// and timestamps.
func CleanLocalSegments(raw []RawSegment) []CleanedSegment {
	out := make([]CleanedSegment, len(raw))
	for i, seg := range raw {
		out[i] = CleanedSegment{
			Start:        seg.Start,
			End:          seg.End,
			CleanedText:  CleanLocal(seg.Text),
			OriginalText: seg.Text,
		}
	}
	return out
}
