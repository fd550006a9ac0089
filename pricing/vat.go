// Package pricing holds the VAT helpers the product pages use to display
// consumer prices. Amounts are in öre to avoid float drift; Swedish consumer
// prices are quoted VAT-inclusive.
package pricing

// StandardRatePercent is the Swedish standard VAT rate applied to broadband
// subscriptions.
const StandardRatePercent = 25

// Quote is a price split into its net and VAT parts, in öre.
type Quote struct {
	ExclVAT int64 `json:"exclVat"`
	VAT     int64 `json:"vat"`
	InclVAT int64 `json:"inclVat"`
}

// FromExclVAT builds a quote from a VAT-exclusive amount.
func FromExclVAT(amountOre int64) Quote {
	vat := divRound(amountOre*StandardRatePercent, 100)
	return Quote{
		ExclVAT: amountOre,
		VAT:     vat,
		InclVAT: amountOre + vat,
	}
}

// FromInclVAT builds a quote from a VAT-inclusive amount.
func FromInclVAT(amountOre int64) Quote {
	excl := divRound(amountOre*100, 100+StandardRatePercent)
	return Quote{
		ExclVAT: excl,
		VAT:     amountOre - excl,
		InclVAT: amountOre,
	}
}

// divRound divides with rounding half away from zero.
func divRound(numerator, denominator int64) int64 {
	if numerator >= 0 {
		return (numerator + denominator/2) / denominator
	}
	return (numerator - denominator/2) / denominator
}
