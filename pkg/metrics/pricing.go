package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics counts quote pricing outcomes.
type PricingMetrics struct {
	priced         *prometheus.CounterVec
	blocked        *prometheus.CounterVec
	minimumApplied prometheus.Counter
	zeroRateCard   prometheus.Counter
	lowMargin      prometheus.Counter
	quoteTotal     prometheus.Histogram
}

// NewPricingMetrics registers the pricing collectors. A nil registerer yields a no-op recorder.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	priced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forman",
		Name:      "quotes_priced_total",
		Help:      "Quotes priced by the engine, by operation.",
	}, []string{"operation"})
	blocked := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forman",
		Name:      "quotes_pricing_blocked_total",
		Help:      "Pricing attempts refused before the engine ran, by reason.",
	}, []string{"reason"})
	minimumApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "forman",
		Name:      "quotes_minimum_applied_total",
		Help:      "Quotes raised to the minimum job price.",
	})
	zeroRateCard := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "forman",
		Name:      "quotes_zero_rate_card_total",
		Help:      "Quotes priced against an all-zero rate card.",
	})
	lowMargin := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "forman",
		Name:      "quotes_low_margin_total",
		Help:      "Quotes whose effective margin is under the target.",
	})
	quoteTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "forman",
		Name:      "quote_total_dollars",
		Help:      "Final quote totals.",
		Buckets:   []float64{1000, 2500, 5000, 7500, 10000, 15000, 25000, 50000, 100000},
	})
	reg.MustRegister(priced, blocked, minimumApplied, zeroRateCard, lowMargin, quoteTotal)
	return &PricingMetrics{
		priced:         priced,
		blocked:        blocked,
		minimumApplied: minimumApplied,
		zeroRateCard:   zeroRateCard,
		lowMargin:      lowMargin,
		quoteTotal:     quoteTotal,
	}
}

// PricingOutcome is what a single pricing call reports.
type PricingOutcome struct {
	Operation      string
	Total          float64
	MinimumApplied bool
	ZeroRateCard   bool
	LowMargin      bool
}

// Observe records one pricing call.
func (p *PricingMetrics) Observe(outcome PricingOutcome) {
	if p == nil || p.priced == nil {
		return
	}
	p.priced.WithLabelValues(normalizeLabel(outcome.Operation)).Inc()
	p.quoteTotal.Observe(outcome.Total)
	if outcome.MinimumApplied {
		p.minimumApplied.Inc()
	}
	if outcome.ZeroRateCard {
		p.zeroRateCard.Inc()
	}
	if outcome.LowMargin {
		p.lowMargin.Inc()
	}
}

// ObserveBlocked counts a pricing attempt that never reached the engine.
func (p *PricingMetrics) ObserveBlocked(reason string) {
	if p == nil || p.blocked == nil {
		return
	}
	p.blocked.WithLabelValues(normalizeLabel(reason)).Inc()
}
