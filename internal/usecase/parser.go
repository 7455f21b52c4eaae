// File: internal/usecase/parser.go
package usecase

import (
	"encoding/json"
	"regexp"
	"strings"

	"ai-research-backend/internal/domain/model"
)

// The generative backend is asked for JSON but not trusted to produce it.
// Parsing is an ordered list of strategies; the first one that decodes wins,
// and the final fallback turns the whole reply into the summary, so parsing
// never fails.

// ParseFailureInsight is the sentinel key-insight entry recorded when no
// structured block could be decoded from the reply.
const ParseFailureInsight = "Could not parse structured insights from LLM response."

type parseStrategy func(raw string) (model.SynthesisOutput, bool)

var synthesisStrategies = []parseStrategy{
	parseFencedBlock,
	parseOutermostBraces,
}

var fencedJSONBlock = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")

// ParseSynthesis converts the raw reply into a structured output. Missing
// fields decode to empty collections/strings rather than erroring.
func ParseSynthesis(raw string) model.SynthesisOutput {
	for _, strategy := range synthesisStrategies {
		if out, ok := strategy(raw); ok {
			return normalizeSynthesis(out)
		}
	}
	return proseFallback(raw)
}

// parseFencedBlock decodes the first fenced block marked (or unmarked) as JSON.
func parseFencedBlock(raw string) (model.SynthesisOutput, bool) {
	m := fencedJSONBlock.FindStringSubmatch(raw)
	if m == nil {
		return model.SynthesisOutput{}, false
	}
	return decodeSynthesis(m[1])
}

// parseOutermostBraces decodes the span from the first '{' to the last '}'.
func parseOutermostBraces(raw string) (model.SynthesisOutput, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return model.SynthesisOutput{}, false
	}
	return decodeSynthesis(raw[start : end+1])
}

func decodeSynthesis(s string) (model.SynthesisOutput, bool) {
	var out model.SynthesisOutput
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return model.SynthesisOutput{}, false
	}
	return out, true
}

func normalizeSynthesis(out model.SynthesisOutput) model.SynthesisOutput {
	if out.KeyInsights == nil {
		out.KeyInsights = []string{}
	}
	if out.GeneratedDiagrams == nil {
		out.GeneratedDiagrams = []string{}
	}
	return out
}

// proseFallback keeps the model's prose as the summary, stripped of any
// fence markers, so the caller still gets readable content.
func proseFallback(raw string) model.SynthesisOutput {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	return model.SynthesisOutput{
		Summary:           strings.TrimSpace(clean),
		KeyInsights:       []string{ParseFailureInsight},
		GeneratedDiagrams: []string{},
	}
}
