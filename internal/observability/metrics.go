package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// LLMRequestsTotal counts model calls by model name and outcome.
	LLMRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_llm_requests_total",
		Help: "Total number of LLM generation calls by model and outcome",
	}, []string{"model", "outcome"})

	// LLMTokensTotal counts tokens consumed by kind (prompt or completion).
	LLMTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_llm_tokens_total",
		Help: "Total number of tokens consumed by LLM calls",
	}, []string{"kind"})

	// GenerationLatency records end-to-end latency of generation pipelines.
	GenerationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_generation_latency_seconds",
		Help:    "End-to-end latency of generation pipelines in seconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
	}, []string{"operation"})

	// ParserFallbacksTotal counts responses salvaged by a fallback parsing strategy.
	ParserFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_parser_fallbacks_total",
		Help: "Total number of model responses handled by a fallback parsing strategy",
	}, []string{"parser", "strategy"})
)

// RecordLLMRequest increments the request counter for the model/outcome pair.
func RecordLLMRequest(model, outcome string) {
	LLMRequestsTotal.WithLabelValues(model, outcome).Inc()
}

// RecordLLMTokens adds prompt and completion token counts to the token counters.
func RecordLLMTokens(promptTokens, completionTokens int) {
	if promptTokens > 0 {
		LLMTokensTotal.WithLabelValues("prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		LLMTokensTotal.WithLabelValues("completion").Add(float64(completionTokens))
	}
}

// RecordParserFallback increments the fallback counter for a parser/strategy pair.
func RecordParserFallback(parser, strategy string) {
	ParserFallbacksTotal.WithLabelValues(parser, strategy).Inc()
}

// TrackGeneration returns a function that records pipeline latency when called (e.g. defer).
func TrackGeneration(operation string) func() {
	start := time.Now()
	return func() {
		GenerationLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// TrackQuery returns a function that records query latency for the
// operation/table pair when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
