package guidance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	disclaimerKey = "disclaimer"

	// StandardDisclaimer closes every guidance document.
	StandardDisclaimer = "This information is educational and not medical advice."
)

// Categories lists the option groups a perspective may carry, in prompt order.
var Categories = []string{"supplements", "foods", "practices", "other_considerations"}

// Score is an evidence score. It accepts integral or fractional JSON numbers
// and numeric strings; fractions are rounded half away from zero.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("evidence_score %s is not a number", string(data))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("evidence_score %s is not finite", string(data))
	}
	// Clamp before converting; out-of-range floats do not survive the int conversion.
	f = math.Min(math.Max(f, 0), 100)
	*s = Score(math.Round(f))
	return nil
}

type Option struct {
	Name          string `json:"name" validate:"required"`
	Notes         string `json:"notes"`
	EvidenceScore Score  `json:"evidence_score" validate:"min=0,max=100"`
	SafetyNotes   string `json:"safety_notes"`
}

type Perspective struct {
	Overview        string              `json:"overview" validate:"required"`
	SpecificOptions map[string][]Option `json:"specific_options" validate:"required,dive,keys,oneof=supplements foods practices other_considerations,endkeys,dive"`
}

// Entry is one named perspective of a Document.
type Entry struct {
	Name        string `validate:"required"`
	Perspective Perspective
}

// Document is the guidance object returned to clients: perspectives keyed by
// name in the order the provider produced them, followed by a disclaimer.
type Document struct {
	Perspectives []Entry `validate:"min=1,dive"`
	Disclaimer   string  `validate:"required"`
}

// Lookup returns the perspective stored under name.
func (d *Document) Lookup(name string) (Perspective, bool) {
	for _, e := range d.Perspectives {
		if e.Name == name {
			return e.Perspective, true
		}
	}
	return Perspective{}, false
}

func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("guidance must be a JSON object")
	}

	doc := Document{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		if key == disclaimerKey {
			if err := dec.Decode(&doc.Disclaimer); err != nil {
				return fmt.Errorf("disclaimer: %w", err)
			}
			continue
		}

		var p Perspective
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("perspective %q: %w", key, err)
		}
		// Duplicate keys keep their first position and the last value.
		if i, ok := index[key]; ok {
			doc.Perspectives[i].Perspective = p
			continue
		}
		index[key] = len(doc.Perspectives)
		doc.Perspectives = append(doc.Perspectives, Entry{Name: key, Perspective: p})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = doc
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, e := range d.Perspectives {
		if err := writeMember(&buf, e.Name, e.Perspective); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	if err := writeMember(&buf, disclaimerKey, d.Disclaimer); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
