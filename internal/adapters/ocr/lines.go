package ocr

import (
	"regexp"
	"strings"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
)

var (
	fenceRe  = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	tableRe  = regexp.MustCompile(`[|]+`)
	ruleRe   = regexp.MustCompile(`[-_=]{3,}`)
	boxRe    = regexp.MustCompile(`[│─┼┌┐└┘╔╗╚╝═]+`)
	spacesRe = regexp.MustCompile(`[ \t]{2,}`)
)

// noText is what the prompt asks the model to answer for an image without text.
const noText = "<no-text>"

// CleanModelText strips markdown fences and table drawing a vision model
// tends to add around transcribed text. The result is normalized, not the raw
// model answer: pipes, runs of three or more '-', '_' or '=' and box drawing
// become spaces, and repeated blanks collapse, so "ID: A|B" reads "ID: A B".
func CleanModelText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = fenceRe.ReplaceAllString(s, "")
	s = tableRe.ReplaceAllString(s, " ")
	s = ruleRe.ReplaceAllString(s, " ")
	s = boxRe.ReplaceAllString(s, " ")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Observations turns model text into one region per non-empty line, in
// reading order, each with a single candidate. Candidate text is the
// CleanModelText form of the line.
func Observations(raw string) []domain.TextObservation {
	s := CleanModelText(raw)
	if s == "" || strings.EqualFold(s, noText) {
		return nil
	}
	lines := nonEmptyLines(s)
	out := make([]domain.TextObservation, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.TextObservation{
			Candidates: []domain.TextCandidate{{Text: l, Confidence: 1}},
		})
	}
	return out
}

func nonEmptyLines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		t := strings.TrimSpace(r)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
