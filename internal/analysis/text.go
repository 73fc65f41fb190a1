// Package analysis implements the rule-based heuristics the learning
// pipeline runs over raw interaction text: keyword-match sentiment,
// frequency-based topic extraction, ordered-rule intent classification,
// and regex preference extraction. Everything here is pure and
// deterministic; none of it is a statistical model.
package analysis

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// TextAnalysis is the full per-message analysis result.
type TextAnalysis struct {
	Sentiment   float64            `json:"sentiment"`
	Topics      []string           `json:"topics"`
	Intent      string             `json:"intent"`
	StyleScores map[string]float64 `json:"style_scores"`
	Preferences Preferences        `json:"preferences"`
}

// Preferences holds regex-extracted statements grouped by kind. Slices
// preserve pattern order then match order; duplicates are kept.
type Preferences struct {
	Likes    []string `json:"likes,omitempty"`
	Dislikes []string `json:"dislikes,omitempty"`
	Needs    []string `json:"needs,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

// Intent labels, evaluated in rule order (first match wins).
const (
	IntentHelpRequest          = "help_request"
	IntentPreferenceExpression = "preference_expression"
	IntentGratitude            = "gratitude"
	IntentGreeting             = "greeting"
	IntentQuestion             = "question"
	IntentStatement            = "statement"
)

const (
	topicLimit     = 10
	minTokenLength = 2 // topics and preferences must be longer than this
)

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

var stopWords = newSet(
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
	"has", "he", "in", "is", "it", "its", "of", "on", "that", "the",
	"to", "was", "were", "will", "with", "i", "you", "me", "we", "they",
	"this", "these", "those", "am", "can", "could", "should",
	"would", "have", "had",
)

var positiveWords = newSet(
	"love", "like", "enjoy", "amazing", "awesome", "great", "fantastic",
	"wonderful", "excellent", "perfect", "good", "best", "beautiful",
	"happy", "pleased", "excited", "thrilled", "appreciate", "thanks",
)

var negativeWords = newSet(
	"hate", "dislike", "awful", "terrible", "horrible", "bad", "worst",
	"annoying", "frustrated", "angry", "disappointed", "confused",
	"difficult", "problem", "issue", "wrong", "error", "fail",
)

// intentRules are checked top to bottom against the lowercased raw
// text; matching is substring containment, not token equality.
var intentRules = []struct {
	intent   string
	keywords []string
}{
	{IntentHelpRequest, []string{"help", "how", "what", "explain", "tell me"}},
	{IntentPreferenceExpression, []string{"like", "love", "prefer", "enjoy"}},
	{IntentGratitude, []string{"thank", "thanks", "appreciate"}},
	{IntentGreeting, []string{"hello", "hi", "hey", "good morning"}},
}

var styleIndicators = []struct {
	style      string
	indicators []string
}{
	{"formal", []string{"please", "thank you", "could you", "would you", "sir", "madam", "kindly"}},
	{"casual", []string{"hey", "hi", "cool", "awesome", "yeah", "nah", "gonna", "wanna", "sup"}},
	{"technical", []string{"algorithm", "function", "variable", "database", "api", "framework", "code"}},
	{"friendly", []string{"thanks", "appreciate", "great", "wonderful", "excited", "!", "amazing"}},
}

// preferencePatterns extract the last capture group of each match.
var (
	likePatterns = compileAll(
		`i (really |absolutely |totally )?like ([^.!?]+)`,
		`i (love|enjoy|prefer|am into) ([^.!?]+)`,
		`([^.!?]+) (is|are) (great|awesome|amazing|wonderful|fantastic)`,
		`i'm (really )?interested in ([^.!?]+)`,
		`i'm a (big )?fan of ([^.!?]+)`,
	)
	dislikePatterns = compileAll(
		`i (really |absolutely |totally )?(hate|dislike|don't like) ([^.!?]+)`,
		`i'm not (really |a big )?fan of ([^.!?]+)`,
		`([^.!?]+) (is|are) (terrible|awful|bad|horrible|annoying)`,
		`i can't stand ([^.!?]+)`,
	)
	needPatterns = compileAll(
		`i need (help with |to learn about |to understand )?([^.!?]+)`,
		`i want to (learn|understand|know about) ([^.!?]+)`,
		`can you (help me with|teach me about|explain) ([^.!?]+)`,
		`i'm looking for ([^.!?]+)`,
	)
	skillPatterns = compileAll(
		`i (know|understand|am good at|can) ([^.!?]+)`,
		`i'm (an expert in|experienced with|familiar with) ([^.!?]+)`,
		`i have experience (with|in) ([^.!?]+)`,
		`i've been (working with|using|doing) ([^.!?]+)`,
	)
)

func newSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

// TextAnalyzer scores a single text string. All rule tables are
// package-level immutable data; the analyzer itself only carries a
// logger and is safe for concurrent use.
type TextAnalyzer struct {
	logger *zap.Logger
}

func NewTextAnalyzer(logger *zap.Logger) *TextAnalyzer {
	return &TextAnalyzer{logger: logger}
}

// Analyze runs every sub-analysis over the text. Sub-analyses never
// propagate failures; each degrades to its zero result.
func (a *TextAnalyzer) Analyze(text string) TextAnalysis {
	return TextAnalysis{
		Sentiment:   a.Sentiment(text),
		Topics:      a.Topics(text),
		Intent:      a.Intent(text),
		StyleScores: a.StyleScores(text),
		Preferences: a.Preferences(text),
	}
}

// Tokenize lowercases, strips non-word characters, and splits on
// whitespace.
func Tokenize(text string) []string {
	return strings.Fields(nonWordRe.ReplaceAllString(strings.ToLower(text), " "))
}

// Sentiment returns a bag-of-words polarity score in [-1, 1]. Zero
// means no sentiment-bearing words were found. The scaling constant
// and clamp are tuned heuristics, not calibrated against any corpus.
func (a *TextAnalyzer) Sentiment(text string) (score float64) {
	defer a.recovered("sentiment analysis", func() { score = 0 })

	tokens := Tokenize(text)
	var positive, negative int
	for _, tok := range tokens {
		if _, ok := positiveWords[tok]; ok {
			positive++
		}
		if _, ok := negativeWords[tok]; ok {
			negative++
		}
	}

	if positive+negative == 0 {
		return 0
	}

	score = 2 * float64(positive-negative) / float64(max(len(tokens), 1))
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}

// Topics returns the up-to-10 most frequent tokens after dropping stop
// words and tokens of length <= 2. Ties break by first occurrence.
func (a *TextAnalyzer) Topics(text string) (topics []string) {
	defer a.recovered("topic extraction", func() { topics = nil })

	freq := newCounter[string]()
	for _, tok := range Tokenize(text) {
		if _, stop := stopWords[tok]; stop || len(tok) <= minTokenLength {
			continue
		}
		freq.Add(tok)
	}

	for _, kc := range freq.MostCommon(topicLimit) {
		topics = append(topics, kc.Key)
	}
	return topics
}

// Intent classifies the message by the first matching rule; "?" falls
// through to question, everything else is a statement.
func (a *TextAnalyzer) Intent(text string) string {
	lowered := strings.ToLower(text)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.intent
			}
		}
	}
	if strings.Contains(lowered, "?") {
		return IntentQuestion
	}
	return IntentStatement
}

// StyleScores scores the text against each communication-style
// indicator list, normalized by token count. An empty text yields an
// empty map.
func (a *TextAnalyzer) StyleScores(text string) (scores map[string]float64) {
	defer a.recovered("style analysis", func() { scores = nil })

	lowered := strings.ToLower(text)
	total := len(Tokenize(text))
	if total == 0 {
		return map[string]float64{}
	}

	scores = make(map[string]float64, len(styleIndicators))
	for _, cat := range styleIndicators {
		found := 0
		for _, ind := range cat.indicators {
			if strings.Contains(lowered, ind) {
				found++
			}
		}
		scores[cat.style] = float64(found) / float64(total)
	}
	return scores
}

// Preferences applies the per-kind regex pattern lists to the
// lowercased text. Every match contributes its last capture group,
// trimmed, when longer than 2 characters.
func (a *TextAnalyzer) Preferences(text string) (prefs Preferences) {
	defer a.recovered("preference extraction", func() { prefs = Preferences{} })

	lowered := strings.ToLower(text)
	prefs.Likes = extractMatches(lowered, likePatterns)
	prefs.Dislikes = extractMatches(lowered, dislikePatterns)
	prefs.Needs = extractMatches(lowered, needPatterns)
	prefs.Skills = extractMatches(lowered, skillPatterns)
	return prefs
}

func extractMatches(text string, patterns []*regexp.Regexp) []string {
	var out []string
	for _, re := range patterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			value := strings.TrimSpace(match[len(match)-1])
			if len(value) > minTokenLength {
				out = append(out, value)
			}
		}
	}
	return out
}

// recovered logs a panicking sub-analysis and resets the result to its
// safe default. A single malformed input must never fail a batch.
func (a *TextAnalyzer) recovered(op string, reset func()) {
	if r := recover(); r != nil {
		a.logger.Error(op+" failed", zap.Any("panic", r))
		reset()
	}
}
