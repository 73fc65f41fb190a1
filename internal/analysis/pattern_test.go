package analysis

import (
	"testing"
	"time"

	"github.com/dmarlow/persona/internal/domain"
	"go.uber.org/zap"
)

func interactionAt(ts time.Time, content string) domain.Interaction {
	return domain.Interaction{
		Type:      domain.InteractionMessage,
		Content:   content,
		Timestamp: ts,
	}
}

func withSentiment(it domain.Interaction, score float64) domain.Interaction {
	it.Sentiment = &score
	return it
}

func TestPatterns_EmptyInput(t *testing.T) {
	p := NewPatternAnalyzer(zap.NewNop())

	got := p.Analyze(nil)
	if got.ActiveHours != nil || got.Frequency != nil || got.Content != nil ||
		got.Sentiment != nil || got.Topics != nil {
		t.Errorf("Analyze(nil) = %+v, want zero Patterns", got)
	}
}

func TestTimePatterns(t *testing.T) {
	p := NewPatternAnalyzer(zap.NewNop())

	// Monday 2026-03-02: two at 09:00, one at 14:00.
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	interactions := []domain.Interaction{
		interactionAt(base, "a"),
		interactionAt(base.Add(30*time.Minute), "b"),
		interactionAt(base.Add(5*time.Hour), "c"),
	}

	got := p.Analyze(interactions).ActiveHours
	if got == nil {
		t.Fatal("ActiveHours = nil")
	}
	if got.MostActiveHour != 9 {
		t.Errorf("MostActiveHour = %d, want 9", got.MostActiveHour)
	}
	if got.MostActiveDay != time.Monday {
		t.Errorf("MostActiveDay = %v, want Monday", got.MostActiveDay)
	}
	if got.HourDistribution[9] != 2 || got.HourDistribution[14] != 1 {
		t.Errorf("HourDistribution = %v, want {9:2, 14:1}", got.HourDistribution)
	}
}

func TestFrequencyPatterns(t *testing.T) {
	p := NewPatternAnalyzer(zap.NewNop())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("single interaction yields count only", func(t *testing.T) {
		got := p.Analyze([]domain.Interaction{interactionAt(base, "a")}).Frequency
		if got.InteractionCount != 1 {
			t.Errorf("InteractionCount = %d, want 1", got.InteractionCount)
		}
		if got.AvgGapHours != 0 || got.SpanDays != 0 {
			t.Errorf("gap/span = %v/%v, want zero", got.AvgGapHours, got.SpanDays)
		}
	})

	t.Run("gaps averaged over sorted timestamps", func(t *testing.T) {
		// Out of chronological order on purpose.
		interactions := []domain.Interaction{
			interactionAt(base.Add(72*time.Hour), "c"),
			interactionAt(base, "a"),
			interactionAt(base.Add(24*time.Hour), "b"),
		}
		got := p.Analyze(interactions).Frequency
		if got.InteractionCount != 3 {
			t.Errorf("InteractionCount = %d, want 3", got.InteractionCount)
		}
		if got.AvgGapHours != 36 {
			t.Errorf("AvgGapHours = %v, want 36", got.AvgGapHours)
		}
		if got.SpanDays != 3 {
			t.Errorf("SpanDays = %d, want 3", got.SpanDays)
		}
	})
}

func TestContentPatterns(t *testing.T) {
	p := NewPatternAnalyzer(zap.NewNop())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	build := func(lengths ...int) []domain.Interaction {
		out := make([]domain.Interaction, len(lengths))
		for i, n := range lengths {
			content := make([]byte, n)
			for j := range content {
				content[j] = 'x'
			}
			out[i] = interactionAt(base.Add(time.Duration(i)*time.Hour), string(content))
		}
		return out
	}

	tests := []struct {
		name      string
		lengths   []int
		wantTrend string
	}{
		{
			name:      "too few for a trend",
			lengths:   []int{10, 100, 10, 100, 10},
			wantTrend: TrendStable,
		},
		{
			name:      "increasing",
			lengths:   []int{10, 10, 10, 100, 100, 100},
			wantTrend: TrendIncreasing,
		},
		{
			name:      "decreasing",
			lengths:   []int{100, 100, 100, 10, 10, 10},
			wantTrend: TrendDecreasing,
		},
		{
			name:      "flat",
			lengths:   []int{50, 50, 50, 50, 50, 50},
			wantTrend: TrendStable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Analyze(build(tt.lengths...)).Content
			if got.LengthTrend != tt.wantTrend {
				t.Errorf("LengthTrend = %q, want %q", got.LengthTrend, tt.wantTrend)
			}
			var sum int
			for _, n := range tt.lengths {
				sum += n
			}
			wantAvg := float64(sum) / float64(len(tt.lengths))
			if got.AvgLength != wantAvg {
				t.Errorf("AvgLength = %v, want %v", got.AvgLength, wantAvg)
			}
			if got.TypeCounts[domain.InteractionMessage] != len(tt.lengths) {
				t.Errorf("TypeCounts = %v, want all %d under message", got.TypeCounts, len(tt.lengths))
			}
		})
	}
}

func TestSentimentTrend(t *testing.T) {
	p := NewPatternAnalyzer(zap.NewNop())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	build := func(scores ...float64) []domain.Interaction {
		out := make([]domain.Interaction, len(scores))
		for i, score := range scores {
			out[i] = withSentiment(interactionAt(base.Add(time.Duration(i)*time.Hour), "x"), score)
		}
		return out
	}

	tests := []struct {
		name      string
		scores    []float64
		wantTrend string
		wantAvg   float64
	}{
		{
			name:      "improving",
			scores:    []float64{-0.5, -0.5, -0.5, 0.5, 0.5, 0.5},
			wantTrend: TrendImproving,
			wantAvg:   0,
		},
		{
			name:      "declining",
			scores:    []float64{0.5, 0.5, 0.5, -0.5, -0.5, -0.5},
			wantTrend: TrendDeclining,
			wantAvg:   0,
		},
		{
			name:      "within delta stays stable",
			scores:    []float64{0.2, 0.2, 0.2, 0.25, 0.25, 0.25},
			wantTrend: TrendStable,
			wantAvg:   0.225,
		},
		{
			name:      "too few for a trend",
			scores:    []float64{-1, -1, 1, 1, 1},
			wantTrend: TrendStable,
			wantAvg:   0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Analyze(build(tt.scores...)).Sentiment
			if got.Trend != tt.wantTrend {
				t.Errorf("Trend = %q, want %q", got.Trend, tt.wantTrend)
			}
			if diff := got.Average - tt.wantAvg; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Average = %v, want %v", got.Average, tt.wantAvg)
			}
		})
	}
}

func TestSentimentTrend_UnscoredCountAsZero(t *testing.T) {
	p := NewPatternAnalyzer(zap.NewNop())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	interactions := []domain.Interaction{
		withSentiment(interactionAt(base, "a"), 0.6),
		interactionAt(base.Add(time.Hour), "b"), // nil sentiment
	}

	got := p.Analyze(interactions).Sentiment
	if got.Average != 0.3 {
		t.Errorf("Average = %v, want 0.3", got.Average)
	}
}

func TestTopicPatterns(t *testing.T) {
	p := NewPatternAnalyzer(zap.NewNop())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	a := interactionAt(base, "x")
	a.Topics = []string{"go", "databases", "go"}
	b := interactionAt(base.Add(time.Hour), "y")
	b.Topics = []string{"go", "testing"}

	got := p.Analyze([]domain.Interaction{a, b}).Topics
	if got.Diversity != 3 {
		t.Errorf("Diversity = %d, want 3", got.Diversity)
	}
	if len(got.Top) != 3 {
		t.Fatalf("Top = %v, want 3 entries", got.Top)
	}
	if got.Top[0].Topic != "go" || got.Top[0].Count != 3 {
		t.Errorf("Top[0] = %+v, want go/3", got.Top[0])
	}
	// Tied topics keep first-seen order.
	if got.Top[1].Topic != "databases" || got.Top[2].Topic != "testing" {
		t.Errorf("Top tail = %+v, want databases then testing", got.Top[1:])
	}
}
