package llm

import "github.com/shopspring/decimal"

var thousand = decimal.NewFromInt(1000)

// CalculateCost derives the USD cost of a call from token counts and the
// model's per-1k prices:
//
//	cost = input/1000 * input_price + output/1000 * output_price
//
// Decimal arithmetic keeps the division exact, so 1000 input and 1000 output
// tokens cost exactly input_price + output_price.
func CalculateCost(inputTokens, outputTokens int, caps Capabilities) float64 {
	in := decimal.NewFromInt(int64(inputTokens)).
		Div(thousand).
		Mul(decimal.NewFromFloat(caps.InputCostPer1K))
	out := decimal.NewFromInt(int64(outputTokens)).
		Div(thousand).
		Mul(decimal.NewFromFloat(caps.OutputCostPer1K))
	return in.Add(out).InexactFloat64()
}
