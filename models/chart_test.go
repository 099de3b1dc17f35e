package models

import (
	"encoding/json"
	"testing"
)

func threePanelSpec() *ChartSpec {
	return &ChartSpec{
		TrackID: "SALAMI_8",
		XRange:  [2]float64{0, 180.5},
		Panels: []Panel{
			{Kind: PanelReference, Row: 1, Domain: [2]float64{0.865, 1}, XRange: [2]float64{0, 180.5}, Categories: []string{"b", "a"},
				Traces: []Trace{{Type: "bar", XAxis: "x", YAxis: "y"}}},
			{Kind: PanelEstimated, Row: 2, Domain: [2]float64{0.455, 0.815}, XRange: [2]float64{0, 180.5}, Empty: true},
			{Kind: PanelContour, Row: 3, Domain: [2]float64{0, 0.405}, XRange: [2]float64{0, 180.5},
				Traces: []Trace{{Type: "heatmap", XAxis: "x3", YAxis: "y3"}}},
		},
	}
}

func TestChartSpecPanelLookup(t *testing.T) {
	spec := threePanelSpec()
	p, ok := spec.Panel(PanelEstimated)
	if !ok || p.Row != 2 {
		t.Fatalf("Panel(estimated) = %+v, %v", p, ok)
	}
	if _, ok := spec.Panel("missing"); ok {
		t.Fatalf("expected lookup of unknown kind to fail")
	}
}

func TestFigureLayout_SharedAxisAndPlayhead(t *testing.T) {
	fig := threePanelSpec().Figure()

	if len(fig.Data) != 2 {
		t.Fatalf("expected 2 traces, got %d", len(fig.Data))
	}
	for _, key := range []string{"xaxis", "xaxis2", "xaxis3", "yaxis", "yaxis2", "yaxis3"} {
		if _, ok := fig.Layout[key]; !ok {
			t.Fatalf("layout missing %s", key)
		}
	}
	x1 := fig.Layout["xaxis"].(map[string]interface{})
	if x1["matches"] != "x3" {
		t.Fatalf("xaxis should match x3, got %v", x1["matches"])
	}
	x3 := fig.Layout["xaxis3"].(map[string]interface{})
	if _, ok := x3["matches"]; ok {
		t.Fatalf("bottom axis must not match another axis")
	}
	rng := x3["range"].([]float64)
	if rng[0] != 0 || rng[1] != 180.5 {
		t.Fatalf("xaxis3 range = %v", rng)
	}

	shapes := fig.Layout["shapes"].([]map[string]interface{})
	if len(shapes) != 1 || shapes[0]["x0"] != 0.0 || shapes[0]["xref"] != "x3" {
		t.Fatalf("unexpected playhead shape %v", shapes)
	}

	if _, err := json.Marshal(fig); err != nil {
		t.Fatalf("figure does not marshal: %v", err)
	}
}
