package charts

import (
	"encoding/json"
	"fmt"

	"roomclimate/internal/models"
)

// ChartSnippet represents an embeddable echarts chart fragment.
// Div holds a single root <div id="..." style="..."></div>.
// Script holds the <script> block that initializes the chart in that div.
// HTML is Div and Script combined for template substitution.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// EChartsCDN is the script tag pages must include once before any snippet
const EChartsCDN = `<script src="https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"></script>`

// ProjectionSnippet builds an inline echarts line chart for one projection.
// The x axis runs oldest to newest so the current point sits on the right.
func ProjectionSnippet(id, region string, p models.Projection) (ChartSnippet, error) {
	if p.Empty() {
		return ChartSnippet{}, ErrNotEnoughPoints
	}
	c := flip(p)

	option := map[string]interface{}{
		"title": map[string]interface{}{
			"text": title(region, p.Mode),
			"left": "center",
		},
		"tooltip": map[string]interface{}{"trigger": "axis"},
		"legend":  map[string]interface{}{"top": 28},
		"grid":    map[string]interface{}{"left": 50, "right": 60, "top": 70, "bottom": 40},
		"xAxis": map[string]interface{}{
			"type":        "category",
			"boundaryGap": false,
			"data":        c.labels,
		},
		"yAxis": []interface{}{
			map[string]interface{}{"type": "value", "name": "°C / %RH", "scale": true},
			map[string]interface{}{"type": "value", "name": "lux", "min": 0},
		},
		"series": []interface{}{
			seriesOption("Temperature (°C)", temperatureColor, 0, c.temperature),
			seriesOption("Humidity (%RH)", humidityColor, 0, c.humidity),
			seriesOption("Light (lux)", lightColor, 1, c.light),
		},
	}

	raw, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to encode chart option: %w", err)
	}

	div := fmt.Sprintf(`<div id="%s" style="width:100%%;height:360px;"></div>`, id)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el);var option=%s;c.setOption(option);window.addEventListener('resize',function(){c.resize();});})();</script>`, id, string(raw))

	return ChartSnippet{
		ID:     id,
		Title:  title(region, p.Mode),
		Div:    div,
		Script: script,
		HTML:   div + "\n" + script,
	}, nil
}

func seriesOption(name, color string, axis int, values []float64) map[string]interface{} {
	return map[string]interface{}{
		"name":       name,
		"type":       "line",
		"smooth":     true,
		"showSymbol": false,
		"yAxisIndex": axis,
		"itemStyle":  map[string]interface{}{"color": color},
		"data":       values,
	}
}
