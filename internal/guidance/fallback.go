package guidance

const FallbackPerspective = "General Guidance"

// Fallback returns a fresh copy of the document served when the provider's
// output cannot be used.
func Fallback() *Document {
	return &Document{
		Perspectives: []Entry{{
			Name: FallbackPerspective,
			Perspective: Perspective{
				Overview: "Your concern was received, but the response could not be structured perfectly. Below is general educational guidance that may still be helpful.",
				SpecificOptions: map[string][]Option{
					"practices": {{
						Name:          "Consult a qualified healthcare professional",
						Notes:         "A licensed professional can help evaluate symptoms and provide personalized guidance.",
						EvidenceScore: 90,
						SafetyNotes:   "Seek urgent care if symptoms are severe, worsening, or involve safety concerns.",
					}},
				},
			},
		}},
		Disclaimer: StandardDisclaimer,
	}
}
