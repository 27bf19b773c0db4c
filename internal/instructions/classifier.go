package instructions

import (
	"encoding/json"
	"strings"

	"github.com/openquest/gm-api/internal/errors"
)

// Chat-boundary instruction types. The model is never allowed to mutate
// the inventory directly.
var chatTypes = map[Type]bool{
	TypeHP:   true,
	TypeXP:   true,
	TypeRoll: true,
}

// Dropped records a candidate instruction discarded during
// classification, for the audit trail.
type Dropped struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ClassifyResult is the outcome of classifying raw model output.
type ClassifyResult struct {
	Instructions []Instruction `json:"instructions"`
	Dropped      []Dropped     `json:"dropped,omitempty"`
}

// Classify converts raw chat-model output into the closed instruction
// set. It accepts a structured JSON payload (an array, a single object,
// or {"instructions": [...]}) or extracts the first JSON block embedded
// in free text. Invalid candidates are dropped with a recorded reason;
// the call fails only when candidates existed and none survived.
// Classification is pure: same input, same result, no side effects.
func Classify(raw string) (*ClassifyResult, error) {
	candidates := extract(raw)
	if len(candidates) == 0 {
		return &ClassifyResult{}, nil
	}

	result := &ClassifyResult{}
	for i, candidate := range candidates {
		var in Instruction
		if err := json.Unmarshal(candidate, &in); err != nil {
			result.Dropped = append(result.Dropped, Dropped{Index: i, Reason: "not a valid instruction object: " + err.Error()})
			continue
		}
		if !chatTypes[in.Type] {
			result.Dropped = append(result.Dropped, Dropped{Index: i, Reason: "instruction type not allowed from chat output: " + string(in.Type)})
			continue
		}
		if in.FromRoll {
			result.Dropped = append(result.Dropped, Dropped{Index: i, Reason: "from_roll is not allowed from chat output"})
			continue
		}
		if err := in.Validate(); err != nil {
			result.Dropped = append(result.Dropped, Dropped{Index: i, Reason: errors.GetMessage(err)})
			continue
		}
		result.Instructions = append(result.Instructions, in)
	}

	if len(result.Instructions) == 0 {
		err := errors.InvalidArgumentf("no valid instructions among %d candidates", len(candidates))
		return nil, err.WithMeta("dropped", result.Dropped)
	}

	return result, nil
}

// extract pulls candidate instruction objects out of raw output. Tried
// in order: the whole payload as JSON, a fenced code block, the first
// bracketed array in the text.
func extract(raw string) []json.RawMessage {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if candidates := decodeCandidates(raw); candidates != nil {
		return candidates
	}

	if block := fencedBlock(raw); block != "" {
		if candidates := decodeCandidates(block); candidates != nil {
			return candidates
		}
	}

	if start := strings.Index(raw, "["); start >= 0 {
		if end := strings.LastIndex(raw, "]"); end > start {
			if candidates := decodeCandidates(raw[start : end+1]); candidates != nil {
				return candidates
			}
		}
	}

	return nil
}

func decodeCandidates(payload string) []json.RawMessage {
	payload = strings.TrimSpace(payload)

	var list []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &list); err == nil {
		return list
	}

	var envelope struct {
		Instructions []json.RawMessage `json:"instructions"`
	}
	if err := json.Unmarshal([]byte(payload), &envelope); err == nil && envelope.Instructions != nil {
		return envelope.Instructions
	}

	// A bare object with a type field counts as a single candidate.
	var single struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal([]byte(payload), &single); err == nil && single.Type != "" {
		return []json.RawMessage{json.RawMessage(payload)}
	}

	return nil
}

func fencedBlock(raw string) string {
	start := strings.Index(raw, "```")
	if start < 0 {
		return ""
	}
	rest := raw[start+3:]
	if nl := strings.Index(rest, "\n"); nl >= 0 && !strings.Contains(rest[:nl], "```") {
		// Skip a language hint like "json" on the fence line.
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return ""
	}
	return rest[:end]
}
