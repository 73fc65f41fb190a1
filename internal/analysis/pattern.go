package analysis

import (
	"sort"
	"time"

	"github.com/dmarlow/persona/internal/domain"
	"go.uber.org/zap"
)

// Trend labels for content length and sentiment over chronological
// halves of the interaction history.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
	TrendImproving  = "improving"
	TrendDeclining  = "declining"
)

const (
	// Trends are only computed with more than this many interactions;
	// below it the answer is always "stable".
	trendMinInteractions = 5

	// Tuned thresholds for half-over-half comparison. Preserved as-is;
	// there is no derivation behind them.
	contentTrendUpFactor   = 1.1
	contentTrendDownFactor = 0.9
	sentimentTrendDelta    = 0.1
)

type TimePatterns struct {
	MostActiveHour   int          `json:"most_active_hour"`
	MostActiveDay    time.Weekday `json:"most_active_day"`
	HourDistribution map[int]int  `json:"hour_distribution"`
}

type FrequencyPatterns struct {
	InteractionCount int `json:"interaction_count"`
	// AvgGapHours and SpanDays are only computed with 2+ interactions.
	AvgGapHours float64 `json:"avg_gap_hours"`
	SpanDays    int     `json:"span_days"`
}

type ContentPatterns struct {
	AvgLength   float64                        `json:"avg_length"`
	LengthTrend string                         `json:"length_trend"`
	TypeCounts  map[domain.InteractionType]int `json:"type_counts"`
}

type SentimentTrend struct {
	Average float64 `json:"average"`
	Trend   string  `json:"trend"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type TopicPatterns struct {
	Top       []TopicCount `json:"top"`
	Diversity int          `json:"diversity"`
}

// Patterns aggregates every pattern family computed over a user's
// interaction history. Nil sub-results mean that family was not
// computed (empty input, or a sub-analysis failed mid-run).
type Patterns struct {
	ActiveHours *TimePatterns      `json:"active_hours,omitempty"`
	Frequency   *FrequencyPatterns `json:"frequency,omitempty"`
	Content     *ContentPatterns   `json:"content,omitempty"`
	Sentiment   *SentimentTrend    `json:"sentiment,omitempty"`
	Topics      *TopicPatterns     `json:"topics,omitempty"`
}

// PatternAnalyzer computes aggregate statistics over an interaction
// history. It is stateless and safe for concurrent use.
type PatternAnalyzer struct {
	logger *zap.Logger
}

func NewPatternAnalyzer(logger *zap.Logger) *PatternAnalyzer {
	return &PatternAnalyzer{logger: logger}
}

// Analyze computes all pattern families. Empty input yields the zero
// Patterns. A failure partway through is logged and returns whatever
// was computed before it; Analyze never panics.
func (p *PatternAnalyzer) Analyze(interactions []domain.Interaction) (patterns Patterns) {
	if len(interactions) == 0 {
		return patterns
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pattern analysis failed", zap.Any("panic", r))
		}
	}()

	patterns.ActiveHours = p.timePatterns(interactions)
	patterns.Frequency = p.frequencyPatterns(interactions)
	patterns.Content = p.contentPatterns(interactions)
	patterns.Sentiment = p.sentimentTrend(interactions)
	patterns.Topics = p.topicPatterns(interactions)
	return patterns
}

func (p *PatternAnalyzer) timePatterns(interactions []domain.Interaction) *TimePatterns {
	hours := newCounter[int]()
	days := newCounter[time.Weekday]()
	for _, it := range interactions {
		hours.Add(it.Timestamp.Hour())
		days.Add(it.Timestamp.Weekday())
	}

	return &TimePatterns{
		MostActiveHour:   hours.MostCommon(1)[0].Key,
		MostActiveDay:    days.MostCommon(1)[0].Key,
		HourDistribution: hours.Counts(),
	}
}

func (p *PatternAnalyzer) frequencyPatterns(interactions []domain.Interaction) *FrequencyPatterns {
	if len(interactions) < 2 {
		return &FrequencyPatterns{InteractionCount: len(interactions)}
	}

	timestamps := make([]time.Time, len(interactions))
	for i, it := range interactions {
		timestamps[i] = it.Timestamp
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	var totalGapHours float64
	for i := 1; i < len(timestamps); i++ {
		totalGapHours += timestamps[i].Sub(timestamps[i-1]).Hours()
	}

	return &FrequencyPatterns{
		InteractionCount: len(interactions),
		AvgGapHours:      totalGapHours / float64(len(timestamps)-1),
		SpanDays:         int(timestamps[len(timestamps)-1].Sub(timestamps[0]).Hours() / 24),
	}
}

func (p *PatternAnalyzer) contentPatterns(interactions []domain.Interaction) *ContentPatterns {
	lengths := make([]float64, len(interactions))
	types := newCounter[domain.InteractionType]()
	var total float64
	for i, it := range interactions {
		lengths[i] = float64(len(it.Content))
		total += lengths[i]
		types.Add(it.Type)
	}

	trend := TrendStable
	if len(lengths) > trendMinInteractions {
		firstAvg := mean(lengths[:len(lengths)/2])
		secondAvg := mean(lengths[len(lengths)/2:])
		switch {
		case secondAvg > firstAvg*contentTrendUpFactor:
			trend = TrendIncreasing
		case secondAvg < firstAvg*contentTrendDownFactor:
			trend = TrendDecreasing
		}
	}

	return &ContentPatterns{
		AvgLength:   total / float64(len(interactions)),
		LengthTrend: trend,
		TypeCounts:  types.Counts(),
	}
}

func (p *PatternAnalyzer) sentimentTrend(interactions []domain.Interaction) *SentimentTrend {
	sentiments := make([]float64, len(interactions))
	for i, it := range interactions {
		if it.Sentiment != nil {
			sentiments[i] = *it.Sentiment
		}
	}

	trend := TrendStable
	if len(sentiments) > trendMinInteractions {
		firstAvg := mean(sentiments[:len(sentiments)/2])
		secondAvg := mean(sentiments[len(sentiments)/2:])
		switch {
		case secondAvg > firstAvg+sentimentTrendDelta:
			trend = TrendImproving
		case secondAvg < firstAvg-sentimentTrendDelta:
			trend = TrendDeclining
		}
	}

	return &SentimentTrend{
		Average: mean(sentiments),
		Trend:   trend,
	}
}

func (p *PatternAnalyzer) topicPatterns(interactions []domain.Interaction) *TopicPatterns {
	topics := newCounter[string]()
	for _, it := range interactions {
		for _, topic := range it.Topics {
			topics.Add(topic)
		}
	}

	top := make([]TopicCount, 0, topicLimit)
	for _, kc := range topics.MostCommon(topicLimit) {
		top = append(top, TopicCount{Topic: kc.Key, Count: kc.Count})
	}

	return &TopicPatterns{
		Top:       top,
		Diversity: topics.Len(),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
