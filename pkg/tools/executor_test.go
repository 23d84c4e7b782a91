package tools

import (
	"reflect"
	"testing"
)

func TestExecuteShowChart(t *testing.T) {
	args := map[string]interface{}{
		"chart_type": "line",
		"title":      "Spending Over Time",
		"data": []interface{}{
			map[string]interface{}{"label": "Jan", "value": 120.0},
			map[string]interface{}{"label": "Feb", "value": 90.0},
		},
	}

	result := Execute(ToolShowChart, args)

	if result["chart_type"] != "line" || result["title"] != "Spending Over Time" {
		t.Errorf("unexpected result: %v", result)
	}
	data := result["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("data length = %d", len(data))
	}
}

func TestExecuteShowChartMissingData(t *testing.T) {
	result := Execute(ToolShowChart, map[string]interface{}{"chart_type": "pie", "title": "Breakdown"})
	data, ok := result["data"].([]interface{})
	if !ok || len(data) != 0 {
		t.Errorf("expected empty data slice, got %v", result["data"])
	}
}

func TestExecuteShowMetrics(t *testing.T) {
	args := map[string]interface{}{
		"metrics": []interface{}{
			map[string]interface{}{"label": "Revenue", "value": 1234.0, "unit": "$"},
		},
	}
	result := Execute(ToolShowMetrics, args)
	if !reflect.DeepEqual(result["metrics"], args["metrics"]) {
		t.Errorf("metrics not passed through: %v", result)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	result := Execute("launch_rocket", map[string]interface{}{})
	if result["error"] != "Unknown tool: launch_rocket" {
		t.Errorf("unexpected error payload: %v", result)
	}
}
