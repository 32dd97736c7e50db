// Package analyze holds the per-chunk analysis stage: keyword ranking,
// extractive summarization, highlight selection and entity extraction, plus
// the chunker and the bounded-concurrency scheduler that fan the analysis out.
package analyze

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/aksharatantra/multidecode/internal/domain/docmodel"
)

// Analyzer computes one ChunkAnalysis per TextChunk. A nil tagger degrades to
// raw-token analysis, which works but surfaces stopwords as keywords.
type Analyzer struct {
	tagger        Tagger
	maxKeywords   int
	maxSummary    int
	maxHighlights int
}

func NewAnalyzer(tagger Tagger, maxKeywords, maxSummary, maxHighlights int) *Analyzer {
	return &Analyzer{
		tagger:        tagger,
		maxKeywords:   maxKeywords,
		maxSummary:    maxSummary,
		maxHighlights: maxHighlights,
	}
}

func (a *Analyzer) AnalyzeChunk(ctx context.Context, chunk docmodel.TextChunk) (docmodel.ChunkAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return docmodel.ChunkAnalysis{}, err
	}

	var tagging Tagging
	if a.tagger != nil {
		var err error
		tagging, err = a.tagger.Analyze(chunk.Text)
		if err != nil {
			return docmodel.ChunkAnalysis{}, fmt.Errorf("tagging chunk %d: %w", chunk.Number, err)
		}
	}

	// noun+verb tokens drive both keywords and sentence scoring; without a
	// tagger every word token counts
	scoreTokens := append(append([]string{}, tagging.Nouns...), tagging.Verbs...)
	if a.tagger == nil {
		scoreTokens = Tokenize(chunk.Text)
	}

	freq := frequencyTable(scoreTokens)
	summary := ExtractiveSummarize(chunk.Text, freq, a.maxSummary)

	return docmodel.ChunkAnalysis{
		ChunkNumber: chunk.Number,
		Keywords:    ExtractKeywords(scoreTokens, a.maxKeywords),
		Summary:     summary,
		Highlights:  ExtractHighlights(chunk.Text, summary, a.maxHighlights),
		Entities: docmodel.Entities{
			People:        tagging.People,
			Organizations: tagging.Organizations,
			Numbers:       tagging.Numbers,
			Dates:         ExtractDates(chunk.Text),
		},
	}, nil
}

// Tokenize lowercases and splits on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func frequencyTable(tokens []string) map[string]int {
	freq := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freq[strings.ToLower(tok)]++
	}
	return freq
}

// ExtractKeywords ranks tokens by descending frequency, capped at maxCount.
// Ties keep first-occurrence order, which makes the ranking deterministic
// regardless of map iteration order.
func ExtractKeywords(tokens []string, maxCount int) []string {
	freq := make(map[string]int, len(tokens))
	firstSeen := make(map[string]int, len(tokens))
	var order []string
	for i, tok := range tokens {
		w := strings.ToLower(tok)
		if _, ok := freq[w]; !ok {
			firstSeen[w] = i
			order = append(order, w)
		}
		freq[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if freq[order[i]] != freq[order[j]] {
			return freq[order[i]] > freq[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if maxCount > 0 && len(order) > maxCount {
		order = order[:maxCount]
	}
	return order
}

var sentenceEndRe = regexp.MustCompile(`([.?!])\s+`)

// SplitSentences breaks text on sentence-terminal punctuation followed by
// whitespace, keeping the terminator attached to the preceding sentence.
func SplitSentences(text string) []string {
	marked := sentenceEndRe.ReplaceAllString(text, "$1\x00")
	var sentences []string
	for _, s := range strings.Split(marked, "\x00") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// ExtractiveSummarize scores every sentence as the sum of frequency-table
// lookups over its lowercased word tokens and returns the top maxCount in
// score-descending order. Score order is deliberate: the most central
// sentences surface first no matter where they sit in the source. An empty
// frequency table yields nothing, which triggers the highlights fallback.
func ExtractiveSummarize(text string, freq map[string]int, maxCount int) []string {
	if len(freq) == 0 {
		return nil
	}
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	type scored struct {
		sentence string
		score    int
	}
	ranked := make([]scored, len(sentences))
	for i, s := range sentences {
		total := 0
		for _, tok := range Tokenize(s) {
			total += freq[tok]
		}
		ranked[i] = scored{sentence: s, score: total}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if maxCount > 0 && len(ranked) > maxCount {
		ranked = ranked[:maxCount]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.sentence
	}
	return out
}

// ExtractHighlights is the summary when there is one, otherwise the first
// maxCount sentences in original document order.
func ExtractHighlights(text string, summary []string, maxCount int) []string {
	if len(summary) > 0 {
		return summary
	}
	sentences := SplitSentences(text)
	if maxCount > 0 && len(sentences) > maxCount {
		sentences = sentences[:maxCount]
	}
	return sentences
}

// date shapes only, no semantic validation: 99/99/9999 matches
var dateRes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{4}\b`),
	regexp.MustCompile(`\b\d{4}[/.-]\d{1,2}[/.-]\d{1,2}\b`),
}

func ExtractDates(text string) []string {
	var dates []string
	for _, re := range dateRes {
		dates = append(dates, re.FindAllString(text, -1)...)
	}
	return dates
}
