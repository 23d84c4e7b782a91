package tools

import "fmt"

// Execute shapes tool arguments into the result the client renders. The
// backend does not process visualization data; it validates the shape and
// passes it through.
func Execute(name string, arguments map[string]interface{}) map[string]interface{} {
	switch name {
	case ToolShowChart:
		data, ok := arguments["data"].([]interface{})
		if !ok {
			data = []interface{}{}
		}
		return map[string]interface{}{
			"chart_type": arguments["chart_type"],
			"title":      arguments["title"],
			"data":       data,
		}
	case ToolShowMetrics:
		metrics, ok := arguments["metrics"].([]interface{})
		if !ok {
			metrics = []interface{}{}
		}
		return map[string]interface{}{
			"metrics": metrics,
		}
	default:
		return map[string]interface{}{
			"error": fmt.Sprintf("Unknown tool: %s", name),
		}
	}
}
