package pipeline

import (
	"testing"

	"github.com/matzehuels/figslides/pkg/core/layout"
	"github.com/matzehuels/figslides/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"pptx", false},
		{"json", false},
		{"svg", false},
		{"pdf", true},
		{"PPTX", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"pptx", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"pptx", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"pptx", []string{"pptx"}, false},
		{" PPTX , svg,", []string{"pptx", "svg"}, false},
		{"json,json", []string{"json"}, false},
		{"", nil, false},
		{"pptx,docx", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseFormats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero Options should validate: %v", err)
	}
	if opts.Slide != layout.DefaultConfig() {
		t.Errorf("Slide = %+v, want defaults", opts.Slide)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatPPTX {
		t.Errorf("Formats = %v, want [pptx]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call error: %v", err)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"margin eats slide", Options{Slide: layout.Config{SafeMargin: 3}}, errors.ErrCodeInvalidConfig},
		{"negative margin", Options{Slide: layout.Config{SafeMargin: -1}}, errors.ErrCodeInvalidConfig},
		{"bad format", Options{Formats: []string{"pdf"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestPlanKeyOptsUsesDefaults(t *testing.T) {
	a := (&Options{}).PlanKeyOpts()
	b := (&Options{Slide: layout.DefaultConfig()}).PlanKeyOpts()
	if a != b {
		t.Errorf("zero and default slides should key alike: %+v vs %+v", a, b)
	}
	edge := (&Options{Slide: layout.Config{EdgeToEdge: true}}).PlanKeyOpts()
	if edge == a || edge.SafeMargin != 0 {
		t.Errorf("edge-to-edge should key apart from the default margin: %+v", edge)
	}
	c := (&Options{SlideNumbers: true}).PlanKeyOpts()
	if c == a {
		t.Error("SlideNumbers should change the plan key options")
	}
}
