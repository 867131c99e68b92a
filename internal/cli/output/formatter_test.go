package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type sampleTask struct {
	MetricName string   `json:"metric_name" yaml:"metric_name"`
	Period     uint32   `json:"period" yaml:"period"`
	Filter     []string `json:"filter,omitempty" yaml:"filter,omitempty" table:"wide"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON, false).(*JSONFormatter); !ok {
		t.Error("expected JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML, false).(*YAMLFormatter); !ok {
		t.Error("expected YAMLFormatter")
	}
	tf, ok := NewFormatter("unknown", true).(*TableFormatter)
	if !ok {
		t.Fatal("expected TableFormatter as default")
	}
	if !tf.Wide {
		t.Error("expected Wide=true")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	data := []sampleTask{{MetricName: "http_ok_total", Period: 5, Filter: []string{"a<b"}}}

	if err := (&JSONFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "\n  {") {
		t.Errorf("expected indented output, got:\n%s", out)
	}
	if !strings.Contains(out, "a<b") {
		t.Errorf("expected HTML left unescaped, got:\n%s", out)
	}

	var back []sampleTask
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if back[0].MetricName != "http_ok_total" {
		t.Errorf("MetricName = %q", back[0].MetricName)
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	data := sampleTask{MetricName: "http_ok_total", Period: 5}

	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "metric_name: http_ok_total") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "filter") {
		t.Errorf("empty filter should be omitted:\n%s", out)
	}

	var back sampleTask
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if back.MetricName != data.MetricName || back.Period != data.Period {
		t.Errorf("round trip = %+v, want %+v", back, data)
	}
}

func TestYAMLFormatter_Nested(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"query": map[string]any{"bool": map[string]any{"filter": []any{1}}}}

	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\n  bool:\n") {
		t.Errorf("expected two-space indentation:\n%s", buf.String())
	}
}
