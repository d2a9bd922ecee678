package domain

// Recommendation is the investment stance derived from the overall score.
type Recommendation string

const (
	StrongBuy  Recommendation = "STRONG_BUY"
	Buy        Recommendation = "BUY"
	Hold       Recommendation = "HOLD"
	Sell       Recommendation = "SELL"
	StrongSell Recommendation = "STRONG_SELL"
)

// ScoreSet holds the four expert category scores for one ticker, each in
// [1, 5], plus the weighted overall score derived from them.
type ScoreSet struct {
	Ticker      string         `json:"ticker"`
	Tech        float64        `json:"tech"`
	Fund        float64        `json:"fund"`
	Macro       float64        `json:"macro"`
	Risk        float64        `json:"risk"`
	Overall     float64        `json:"overall"`
	Rec         Recommendation `json:"recommendation"`
	TargetPrice float64        `json:"target_price"`
}

// RecommendationFor maps an overall score to an investment stance.
func RecommendationFor(overall float64) Recommendation {
	switch {
	case overall >= 4.5:
		return StrongBuy
	case overall >= 3.5:
		return Buy
	case overall >= 2.5:
		return Hold
	case overall >= 1.5:
		return Sell
	default:
		return StrongSell
	}
}
