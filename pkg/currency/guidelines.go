package currency

// PriceBand is an inclusive recommended price range.
type PriceBand struct {
	Min Money `json:"min"`
	Max Money `json:"max"`
}

// GuidelineTier bounds listing prices for one kind of artwork.
type GuidelineTier struct {
	Min         Money                `json:"min"`
	Max         Money                `json:"max"`
	Recommended map[string]PriceBand `json:"recommended"`
}

// PricingGuidelines captures the marketplace listing bands for the
// Indonesian market. Values are whole rupiah.
type PricingGuidelines struct {
	Digital  GuidelineTier `json:"digital"`
	Physical GuidelineTier `json:"physical"`
}

// Guidelines returns the published pricing guidance.
func Guidelines() PricingGuidelines {
	return PricingGuidelines{
		Digital: GuidelineTier{
			Min: 50_000,
			Max: 5_000_000,
			Recommended: map[string]PriceBand{
				"beginner":     {Min: 50_000, Max: 300_000},
				"intermediate": {Min: 300_000, Max: 1_500_000},
				"professional": {Min: 1_500_000, Max: 5_000_000},
			},
		},
		Physical: GuidelineTier{
			Min: 100_000,
			Max: 50_000_000,
			Recommended: map[string]PriceBand{
				"small":  {Min: 100_000, Max: 1_000_000},
				"medium": {Min: 1_000_000, Max: 10_000_000},
				"large":  {Min: 10_000_000, Max: 50_000_000},
			},
		},
	}
}
