package pricing

import (
	"encoding/json"
	"math"
)

// EffectiveMargin is derived from a stored pricing snapshot. MarginPct is a
// revenue-based proxy, (total - subtotal) / total, since job costs are not tracked.
type EffectiveMargin struct {
	Subtotal      float64 `json:"subtotal"`
	Total         float64 `json:"total"`
	MarkupPercent float64 `json:"markup_percent"`
	MarkupAmount  float64 `json:"markup_amount"`
	MarginPct     float64 `json:"margin_pct"`
}

// CalculateEffectiveMargin accepts a Result, a decoded JSON object or raw JSON
// bytes. Missing or non-numeric fields fall back to zero-based defaults; it never panics.
func CalculateEffectiveMargin(snapshot any) EffectiveMargin {
	fields := snapshotFields(snapshot)

	subtotal := toNumber(fields["subtotal"], 0)
	total := toNumber(fields["total"], subtotal)
	markupPercent := toNumber(fields["markup_percent"], 0)
	markupAmount := toNumber(fields["markup_amount"], math.Max(0, total-subtotal))

	var marginPct float64
	if total > 0 {
		marginPct = (total - subtotal) / total * 100
	}

	return EffectiveMargin{
		Subtotal:      subtotal,
		Total:         total,
		MarkupPercent: markupPercent,
		MarkupAmount:  markupAmount,
		MarginPct:     marginPct,
	}
}

// IsLowMargin reports whether marginPct falls under target.
func IsLowMargin(marginPct, target float64) bool {
	return marginPct < target
}

func snapshotFields(snapshot any) map[string]any {
	switch v := snapshot.(type) {
	case Result:
		return resultFields(v)
	case *Result:
		if v == nil {
			return nil
		}
		return resultFields(*v)
	case map[string]any:
		return v
	case json.RawMessage:
		return decodeFields(v)
	case []byte:
		return decodeFields(v)
	}
	return nil
}

func resultFields(r Result) map[string]any {
	return map[string]any{
		"subtotal":       r.Subtotal,
		"total":          r.Total,
		"markup_percent": r.MarkupPercent,
		"markup_amount":  r.MarkupAmount,
	}
}

func decodeFields(raw []byte) map[string]any {
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func toNumber(v any, fallback float64) float64 {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return fallback
		}
		n = parsed
	default:
		return fallback
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}
	return n
}
