package guidance

import (
	"fmt"
	"strings"
)

// SystemMessage is sent as the system turn of every completion.
const SystemMessage = "You are a healthcare education assistant that ALWAYS returns valid JSON only."

// Perspectives are the viewpoints the provider is asked to cover, in order.
var Perspectives = []string{
	"Conventional (Western) Medicine",
	"Integrative Medicine",
	"Functional Medicine",
	"Traditional Chinese Medicine",
	"Ayurvedic Medicine",
	"Lifestyle Medicine",
	"Behavioral / Mind-Body Approaches",
	"Biohacking / Health Optimization",
	"Homeopathy",
	"Indigenous / Cultural Practices",
}

const promptHeader = `You are a healthcare education assistant.

A user describes a health concern. Respond with EDUCATIONAL guidance only.
Do NOT diagnose or prescribe.

Return a VALID JSON object using this structure:

{
  "Perspective Name": {
    "overview": "Text overview of this perspective.",
    "specific_options": {
      "supplements": [{"name":"", "notes":"", "evidence_score":0, "safety_notes":""}],
      "foods": [{"name":"", "notes":"", "evidence_score":0, "safety_notes":""}],
      "practices": [{"name":"", "notes":"", "evidence_score":0, "safety_notes":""}],
      "other_considerations": [{"name":"", "notes":"", "evidence_score":0, "safety_notes":""}]
    }
  },
  "disclaimer": "%s"
}
`

const promptRules = `
Rules:
- Respond with JSON ONLY.
- No markdown.
- No explanations outside JSON.
- Use exactly the four specific_options keys shown above.
- Evidence scores must be integers between 0 and 100 reflecting how much positive scientific support exists.
- Include safety_notes for potential cautions, contraindications, or commonly discussed warnings.
- For each option give brief notes and how it is applied if relevant (e.g., dosage, preparation, or method).
- Use cautious educational language: "commonly discussed", "traditionally used", "some research suggests", "may be discussed with a healthcare professional".
`

// BuildPrompt renders the user turn for concern. Identical input yields an
// identical prompt.
func BuildPrompt(concern string) string {
	var b strings.Builder
	fmt.Fprintf(&b, promptHeader, StandardDisclaimer)
	b.WriteString("\nInclude these perspectives:\n")
	for _, p := range Perspectives {
		b.WriteString("- ")
		b.WriteString(p)
		b.WriteByte('\n')
	}
	b.WriteString(promptRules)
	fmt.Fprintf(&b, "\nPatient concern:\n%q\n", concern)
	return b.String()
}
