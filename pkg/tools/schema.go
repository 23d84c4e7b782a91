package tools

import "ai-dashboard-be/pkg/llm"

const (
	ToolShowChart            = "show_chart"
	ToolShowMetrics          = "show_metrics"
	ToolRequestVisualization = "request_visualization"
)

// ChatToolsContext is the visualization instruction block embedded in
// every mode's system prompt. BuildVoicePrompt rewrites this exact block,
// so it doubles as the substitution marker.
const ChatToolsContext = `
You have access to visualization tools to display data in the dashboard:
- show_chart: Display charts (line, bar, pie, area) with data points
- show_metrics: Display key metrics/KPIs in the metrics panel

IMPORTANT: When you use a visualization tool, you MUST ALWAYS also provide a brief text response describing what you're showing.

For historical data (trends over time, usage patterns, etc.), generate plausible data going back 12 months with monthly data points, showing realistic patterns. This is a demo app - create compelling visualizations!

CHART PREFERENCE: For time-series data (anything "over time"), always use LINE charts with 12 monthly data points. Use BAR charts only for comparing discrete categories. Use PIE charts for showing composition/breakdown.`

// VoiceToolsContext replaces ChatToolsContext on the realtime channel:
// the voice model only files a lightweight visualization request and keeps
// talking while a background worker builds the actual chart.
const VoiceToolsContext = `
You have access to one visualization tool:
- request_visualization: Request that a chart or metrics panel be generated for the dashboard

When the user asks to see data visually, call request_visualization with the kind of visualization ("chart" or "metrics") and a short description of what to show. The visualization is generated in the background - do NOT wait for it. Keep speaking naturally and let the user know it's on its way.`

// ChatDefinitions is the heavy tool schema given to the non-realtime model.
func ChatDefinitions() []llm.Tool {
	return []llm.Tool{
		{
			Name:        ToolShowChart,
			Description: "Display a chart or visualization in the dashboard. Use this when the user asks to see data visually, wants a graph, or requests data comparison.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"chart_type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"line", "bar", "pie", "area"},
						"description": "The type of chart to display",
					},
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Chart title",
					},
					"data": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"label": map[string]interface{}{"type": "string"},
								"value": map[string]interface{}{"type": "number"},
							},
							"required": []string{"label", "value"},
						},
						"description": "Data points for the chart",
					},
				},
				"required": []string{"chart_type", "title", "data"},
			},
		},
		{
			Name:        ToolShowMetrics,
			Description: "Update the metrics panel with key performance indicators. Use this when the user asks about specific numbers, KPIs, or wants to see summary statistics.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"metrics": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"label": map[string]interface{}{
									"type":        "string",
									"description": "The metric name/label",
								},
								"value": map[string]interface{}{
									"type":        "number",
									"description": "The metric value",
								},
								"unit": map[string]interface{}{
									"type":        "string",
									"description": "The unit of measurement (e.g., '$', '%', 'users')",
								},
							},
							"required": []string{"label", "value", "unit"},
						},
						"description": "Array of metrics to display",
					},
				},
				"required": []string{"metrics"},
			},
		},
	}
}

// RealtimeDefinitions is the lightweight schema exposed only to the
// realtime voice model.
func RealtimeDefinitions() []llm.Tool {
	return []llm.Tool{
		{
			Name:        ToolRequestVisualization,
			Description: "Request that a visualization be generated for the dashboard in the background. Returns immediately so you can keep speaking.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"vis_type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"chart", "metrics"},
						"description": "The kind of visualization to generate",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "What the visualization should show, e.g. 'spending by category over the last 6 months'",
					},
				},
				"required": []string{"vis_type", "description"},
			},
		},
	}
}
