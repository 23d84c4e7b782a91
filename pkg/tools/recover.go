package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Argument recovery for streamed tool calls. The upstream stream
// occasionally concatenates the argument objects of several invocations
// without a separator, or truncates/mangles a single object. This file is
// the explicit fallback path: plain unmarshal first, then a repair pass,
// then a balanced-brace scan for back-to-back objects.

// ParseArguments parses one tool call's raw argument text. On a failed
// unmarshal it attempts a jsonrepair pass before giving up.
func ParseArguments(raw string) (map[string]interface{}, error) {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err == nil {
		return args, nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, fmt.Errorf("unparseable tool arguments: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &args); err != nil {
		return nil, fmt.Errorf("unparseable tool arguments after repair: %w", err)
	}
	return args, nil
}

// RecoveredCall is one argument object pulled out of a concatenated blob,
// routed to the tool its shape suggests.
type RecoveredCall struct {
	Tool      string
	Arguments map[string]interface{}
}

// RecoverConcatenated scans raw text for multiple back-to-back JSON
// objects and infers the owning tool of each from its field shape.
// declaredName is the tool name the stream reported; it is kept when shape
// sniffing is inconclusive.
func RecoverConcatenated(raw, declaredName string) []RecoveredCall {
	var recovered []RecoveredCall
	for _, objText := range splitConcatenatedObjects(raw) {
		var args map[string]interface{}
		if err := json.Unmarshal([]byte(objText), &args); err != nil {
			continue
		}
		recovered = append(recovered, RecoveredCall{
			Tool:      inferToolName(args, declaredName),
			Arguments: args,
		})
	}
	return recovered
}

// splitConcatenatedObjects returns every top-level balanced {...} span in
// the input, respecting string literals and escapes.
func splitConcatenatedObjects(raw string) []string {
	var objects []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				if depth == 0 {
					start = i
				}
				depth++
			}
		case '}':
			if !inString && depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					objects = append(objects, raw[start:i+1])
					start = -1
				}
			}
		}
	}
	return objects
}

// inferToolName sniffs the argument shape: a metrics field belongs to
// show_metrics, a chart_type field to show_chart. Anything else keeps the
// declared name.
func inferToolName(args map[string]interface{}, declaredName string) string {
	if _, ok := args["metrics"]; ok {
		return ToolShowMetrics
	}
	if _, ok := args["chart_type"]; ok {
		return ToolShowChart
	}
	return strings.TrimSpace(declaredName)
}
