package domain

import (
	"sort"
	"time"
)

// DeliveryQuote is a normalized price/ETA offer from one provider.
type DeliveryQuote struct {
	Provider     Provider  `json:"provider"`
	ProviderName string    `json:"providerName"`
	DeliveryFee  Money     `json:"deliveryFee"`
	ETAMinutes   int       `json:"etaMinutes"`
	QuoteID      string    `json:"quoteId"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Mode         QuoteMode `json:"mode"`
	Available    bool      `json:"available"`
	Error        string    `json:"error,omitempty"`
}

// UnavailableQuote builds the quote returned when a provider could not answer.
func UnavailableQuote(p Provider, mode QuoteMode, err error) DeliveryQuote {
	q := DeliveryQuote{
		Provider:     p,
		ProviderName: p.DisplayName(),
		Mode:         mode,
		Available:    false,
	}
	if err != nil {
		q.Error = err.Error()
	}
	return q
}

// Expired reports whether the quote can no longer be used at now.
// A quote without an expiry never expires.
func (q DeliveryQuote) Expired(now time.Time) bool {
	return !q.ExpiresAt.IsZero() && !now.Before(q.ExpiresAt)
}

// SmartQuoteResult is the outcome of one aggregation pass.
type SmartQuoteResult struct {
	// Quotes holds the available quotes, cheapest first.
	Quotes           []DeliveryQuote `json:"quotes"`
	Cheapest         *DeliveryQuote  `json:"cheapest"`
	Fastest          *DeliveryQuote  `json:"fastest"`
	EnabledProviders []Provider      `json:"enabledProviders"`
	Timestamp        time.Time       `json:"timestamp"`
}

// NewSmartQuoteResult drops unavailable quotes and ranks the rest by fee and by ETA.
// Sorting is stable, so equal quotes keep the provider order.
func NewSmartQuoteResult(all []DeliveryQuote, enabled []Provider, now time.Time) SmartQuoteResult {
	quotes := make([]DeliveryQuote, 0, len(all))
	for _, q := range all {
		if q.Available {
			quotes = append(quotes, q)
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].DeliveryFee.Less(quotes[j].DeliveryFee)
	})

	byETA := make([]DeliveryQuote, len(quotes))
	copy(byETA, quotes)
	sort.SliceStable(byETA, func(i, j int) bool {
		return byETA[i].ETAMinutes < byETA[j].ETAMinutes
	})

	result := SmartQuoteResult{
		Quotes:           quotes,
		EnabledProviders: enabled,
		Timestamp:        now,
	}
	if enabled == nil {
		result.EnabledProviders = []Provider{}
	}
	if len(quotes) > 0 {
		cheapest := quotes[0]
		fastest := byETA[0]
		result.Cheapest = &cheapest
		result.Fastest = &fastest
	}
	return result
}

// SelectBestQuote returns the first minimal available quote under strategy,
// or nil when none is available.
func SelectBestQuote(quotes []DeliveryQuote, strategy Strategy) *DeliveryQuote {
	var best *DeliveryQuote
	for i := range quotes {
		q := quotes[i]
		if !q.Available {
			continue
		}
		if best == nil || better(q, *best, strategy) {
			best = &q
		}
	}
	return best
}

func better(a, b DeliveryQuote, strategy Strategy) bool {
	if strategy == StrategyFastest {
		return a.ETAMinutes < b.ETAMinutes
	}
	return a.DeliveryFee.Less(b.DeliveryFee)
}
