package vision

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"google.golang.org/api/googleapi"

	"github.com/tsawler/folio/merge"
)

func TestParseDetections(t *testing.T) {
	txt := `{
		"molecules": [{"bbox": [10, 20, 110, 120], "confidence": 0.97, "data": {}}],
		"tables": [{"bbox": [0, 200, 400, 500], "confidence": 0.88,
			"data": {"html_content": "<table><tr><td>CH4</td></tr></table>"}}]
	}`

	payload, err := parseDetections(txt)
	if err != nil {
		t.Fatalf("parseDetections() failed: %v", err)
	}
	if len(payload.Molecules) != 1 || len(payload.Tables) != 1 {
		t.Fatalf("got %d molecules, %d tables", len(payload.Molecules), len(payload.Tables))
	}
	if payload.Molecules[0].Confidence != 0.97 {
		t.Errorf("confidence = %v, want 0.97", payload.Molecules[0].Confidence)
	}
	if html, _ := payload.Tables[0].Data["html_content"].(string); html == "" {
		t.Error("table html_content missing")
	}
}

func TestParseDetections_CodeFenced(t *testing.T) {
	txt := "```json\n{\"molecules\": [], \"tables\": []}\n```"
	if _, err := parseDetections(txt); err != nil {
		t.Errorf("parseDetections() failed on fenced JSON: %v", err)
	}
}

func TestParseDetections_BadJSON(t *testing.T) {
	if _, err := parseDetections("not json at all"); err == nil {
		t.Error("parseDetections() should fail on non-JSON input")
	}
}

func TestScaleToFit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4096, 2048))

	scaled, factor := scaleToFit(img, 2048)
	if got := scaled.Bounds().Dx(); got != 2048 {
		t.Errorf("width = %d, want 2048", got)
	}
	if got := scaled.Bounds().Dy(); got != 1024 {
		t.Errorf("height = %d, want 1024", got)
	}
	if factor != 2 {
		t.Errorf("factor = %v, want 2", factor)
	}
}

func TestScaleToFit_SmallImageUnchanged(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))

	scaled, factor := scaleToFit(img, 2048)
	if scaled != image.Image(img) {
		t.Error("image under the limit should be returned as is")
	}
	if factor != 1 {
		t.Errorf("factor = %v, want 1", factor)
	}
}

func TestRescale(t *testing.T) {
	dets := []merge.Detection{{BBox: []float64{10, 20, 30, 40}}}
	rescale(dets, 2.5)

	want := []float64{25, 50, 75, 100}
	for i, v := range want {
		if dets[0].BBox[i] != v {
			t.Errorf("BBox[%d] = %v, want %v", i, dets[0].BBox[i], v)
		}
	}
}

func TestTransientErr(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&googleapi.Error{Code: 429}, true},
		{&googleapi.Error{Code: 500}, true},
		{&googleapi.Error{Code: 503}, true},
		{&googleapi.Error{Code: 400}, false},
		{&googleapi.Error{Code: 404}, false},
		{errors.New("connection refused"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := transientErr(tc.err); got != tc.want {
			t.Errorf("transientErr(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"{\"a\": 1}", "{\"a\": 1}"},
		{"```json\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"```\n{\"a\": 1}\n```", "{\"a\": 1}"},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// fixedRecognizer returns a canned result for every region.
type fixedRecognizer struct {
	text string
	err  error
	seen int
}

func (r *fixedRecognizer) RecognizeImage(imageData []byte) (string, error) {
	r.seen++
	return r.text, r.err
}

func testPageImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 400, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestFillMissingTableText(t *testing.T) {
	rec := &fixedRecognizer{text: "CH4\t16.04"}
	d := NewDetectorWithConfig(Config{APIKey: "k", Recognizer: rec})

	tables := []merge.Detection{
		{BBox: []float64{10, 10, 200, 100}, Data: map[string]any{}},
		{BBox: []float64{10, 150, 200, 300},
			Data: map[string]any{"html_content": "<table><tr><td>x</td></tr></table>"}},
	}
	d.fillMissingTableText(testPageImage(), tables)

	if rec.seen != 1 {
		t.Errorf("recognizer ran %d times, want 1 (markup tables skipped)", rec.seen)
	}
	if text, _ := tables[0].Data["text_content"].(string); text != "CH4\t16.04" {
		t.Errorf("text_content = %q, want recognized text", text)
	}
	if _, ok := tables[1].Data["text_content"]; ok {
		t.Error("table with markup should not get text_content")
	}
}

func TestFillMissingTableText_RecognizerFailureSkipped(t *testing.T) {
	rec := &fixedRecognizer{err: errors.New("engine not available")}
	d := NewDetectorWithConfig(Config{APIKey: "k", Recognizer: rec})

	tables := []merge.Detection{{BBox: []float64{10, 10, 200, 100}}}
	d.fillMissingTableText(testPageImage(), tables)

	if _, ok := tables[0].Data["text_content"]; ok {
		t.Error("failed recognition must not set text_content")
	}
}

func TestFillMissingTableText_NoRecognizerConfigured(t *testing.T) {
	d := NewDetectorWithConfig(Config{APIKey: "k"})

	tables := []merge.Detection{{BBox: []float64{10, 10, 200, 100}}}
	d.fillMissingTableText(testPageImage(), tables)

	if tables[0].Data != nil {
		t.Error("no recognizer: detections must stay untouched")
	}
}

func TestNewDetectorWithConfig_Defaults(t *testing.T) {
	d := NewDetectorWithConfig(Config{APIKey: "k"})

	if d.config.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", d.config.Model)
	}
	if d.config.MaxRetries != 3 || d.config.MaxImageDim != 2048 {
		t.Errorf("defaults not applied: %+v", d.config)
	}
}
