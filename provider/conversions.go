package provider

import (
	"encoding/json"

	"aidbg/model"
)

// toolPair is one tool call with its recorded result, regrouped for vendor
// conversion.
type toolPair struct {
	id        string
	name      string
	args      map[string]any
	result    map[string]any
	hasResult bool
}

// turn is one user or assistant message plus the tool pairs it owns. Vendor
// APIs want tool calls embedded in the assistant message that issued them,
// with the results following; the flat normalized stream is regrouped here.
type turn struct {
	role    model.Role
	content string
	pairs   []toolPair
}

// groupTurns regroups a normalized message stream into vendor-shaped turns.
// A tool_call arriving outside an assistant turn (pending pairs from an
// interrupted batch) gets a synthetic empty assistant turn to hang on.
func groupTurns(messages []model.NormalizedMessage) []turn {
	var turns []turn

	current := func() *turn {
		if len(turns) == 0 {
			return nil
		}
		return &turns[len(turns)-1]
	}

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleUser, model.RoleAssistant:
			turns = append(turns, turn{role: msg.Role, content: msg.Content})

		case model.RoleToolCall:
			t := current()
			if t == nil || t.role != model.RoleAssistant {
				turns = append(turns, turn{role: model.RoleAssistant})
				t = current()
			}
			t.pairs = append(t.pairs, toolPair{
				id:   msg.CallID,
				name: msg.Name,
				args: msg.Args,
			})

		case model.RoleToolResult:
			t := current()
			if t == nil {
				continue
			}
			for i := range t.pairs {
				p := &t.pairs[i]
				if !p.hasResult && (p.id == msg.CallID || msg.CallID == "") {
					p.result = msg.Result
					p.hasResult = true
					break
				}
			}
		}
	}

	return turns
}

// pairResult returns the recorded result, or a placeholder for a pair whose
// result never arrived (interrupted mid-batch). Vendor APIs reject a tool
// call with no result message, so the gap is made explicit to the model.
func pairResult(p toolPair) map[string]any {
	if p.hasResult {
		return p.result
	}
	return map[string]any{"error": "no result recorded"}
}

// marshalJSON renders a map for a vendor field that wants a JSON string.
func marshalJSON(m map[string]any) string {
	if m == nil {
		return "{}"
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ParseToolArguments parses a JSON arguments string into a map. Used by the
// OpenAI provider, whose tool calls carry arguments as a string.
func ParseToolArguments(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return make(map[string]any)
	}
	return args
}
