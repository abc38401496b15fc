package orchestrate

// EstimateTokens approximates the token cost of text at four characters
// per token. Rough, but consistent with how the budgets are sized.
func EstimateTokens(text string) int {
	return len(text) / 4
}
