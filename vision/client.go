package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	xdraw "golang.org/x/image/draw"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/tsawler/folio/merge"
)

// detectPrompt instructs the model to return detections as strict JSON
// in the coordinate space of the submitted image.
const detectPrompt = `Analyze this page image from a chemistry document.

Find two kinds of regions:
1. Chemical structure drawings (skeletal formulas, Lewis structures, reaction schemes).
2. Tables whose rows describe molecules or their properties.

Return ONLY a JSON object of this exact shape, with pixel coordinates
relative to the image you were given:

{
  "molecules": [
    {"bbox": [x1, y1, x2, y2], "confidence": 0.0, "data": {}}
  ],
  "tables": [
    {"bbox": [x1, y1, x2, y2], "confidence": 0.0,
     "data": {"html_content": "<table>...</table>"}}
  ]
}

For each table, reproduce its full content as an HTML table under
"html_content". Omit "html_content" if the table content is unreadable.
Use an empty array for a kind with no findings. No text outside the JSON.`

// TextRecognizer recognizes text in an encoded image. It is satisfied
// by ocr.Client and used as a fallback for table regions the detection
// service returned without markup.
type TextRecognizer interface {
	RecognizeImage(imageData []byte) (string, error)
}

// Config holds configuration for the detector
type Config struct {
	// APIKey authenticates against the detection service
	APIKey string

	// Model is the generative model to query. Defaults to
	// "gemini-2.5-flash".
	Model string

	// RequestsPerMinute caps the request rate across all pages. Zero
	// or less disables limiting. Defaults to 10.
	RequestsPerMinute int

	// MaxRetries is the number of attempts per page on transient
	// service errors. Defaults to 3.
	MaxRetries int

	// RetryWait is the base backoff between attempts; attempt n waits
	// n times this long. Defaults to one second.
	RetryWait time.Duration

	// MaxImageDim is the longest page-image side submitted to the
	// service; larger images are downscaled and the returned boxes
	// mapped back to the original coordinates. Defaults to 2048.
	MaxImageDim int

	// Recognizer, when set, fills in plain text for table detections
	// that came back without markup.
	Recognizer TextRecognizer

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default detector configuration
func DefaultConfig() Config {
	return Config{
		Model:             "gemini-2.5-flash",
		RequestsPerMinute: 10,
		MaxRetries:        3,
		RetryWait:         time.Second,
		MaxImageDim:       2048,
	}
}

// Detector finds molecule and table regions on page images using a
// multimodal generative model. A single Detector is safe for concurrent
// use; its rate limiter is shared across all pages it processes.
type Detector struct {
	config  Config
	limiter *Limiter
	log     *slog.Logger
}

// NewDetector creates a detector with default configuration
func NewDetector(apiKey string) *Detector {
	config := DefaultConfig()
	config.APIKey = apiKey
	return NewDetectorWithConfig(config)
}

// NewDetectorWithConfig creates a detector with custom configuration.
// Zero values fall back to the defaults.
func NewDetectorWithConfig(config Config) *Detector {
	defaults := DefaultConfig()
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.RetryWait <= 0 {
		config.RetryWait = defaults.RetryWait
	}
	if config.MaxImageDim <= 0 {
		config.MaxImageDim = defaults.MaxImageDim
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Detector{
		config:  config,
		limiter: NewLimiter(config.RequestsPerMinute, time.Minute),
		log:     log,
	}
}

// DetectPage submits one page image to the detection service and
// returns its molecule and table detections with boxes in the original
// image's coordinate space.
func (d *Detector) DetectPage(ctx context.Context, pageIndex int, img image.Image) (merge.PageDetections, error) {
	if d.config.APIKey == "" {
		return merge.PageDetections{}, errors.New("vision: API key is empty")
	}

	scaled, factor := scaleToFit(img, d.config.MaxImageDim)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return merge.PageDetections{}, fmt.Errorf("vision: encoding page %d: %w", pageIndex, err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(d.config.APIKey))
	if err != nil {
		return merge.PageDetections{}, fmt.Errorf("vision: creating client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(d.config.Model)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}

	parts := []genai.Part{
		genai.Text(detectPrompt),
		&genai.Blob{MIMEType: "image/png", Data: buf.Bytes()},
	}

	var lastErr error
	for attempt := 1; attempt <= d.config.MaxRetries; attempt++ {
		d.limiter.Acquire()

		resp, err := model.GenerateContent(ctx, parts...)
		if err != nil {
			if !transientErr(err) {
				return merge.PageDetections{}, fmt.Errorf("vision: page %d: %w", pageIndex, err)
			}
			lastErr = err
			d.log.Warn("detection request failed, retrying",
				"page", pageIndex, "attempt", attempt, "err", err)
			time.Sleep(time.Duration(attempt) * d.config.RetryWait)
			continue
		}

		txt := firstText(resp)
		if txt == "" {
			return merge.PageDetections{}, fmt.Errorf("vision: page %d: empty response", pageIndex)
		}

		payload, err := parseDetections(txt)
		if err != nil {
			return merge.PageDetections{}, fmt.Errorf("vision: page %d: %w", pageIndex, err)
		}

		rescale(payload.Molecules, factor)
		rescale(payload.Tables, factor)
		d.fillMissingTableText(img, payload.Tables)

		return merge.PageDetections{
			PageIndex: pageIndex,
			Molecules: payload.Molecules,
			Tables:    payload.Tables,
		}, nil
	}

	return merge.PageDetections{}, fmt.Errorf("vision: page %d: %w", pageIndex, lastErr)
}

type detectionPayload struct {
	Molecules []merge.Detection `json:"molecules"`
	Tables    []merge.Detection `json:"tables"`
}

// parseDetections decodes the model's JSON reply, tolerating the code
// fences some models wrap JSON output in.
func parseDetections(txt string) (detectionPayload, error) {
	txt = stripCodeFences(strings.TrimSpace(txt))

	var payload detectionPayload
	if err := json.Unmarshal([]byte(txt), &payload); err != nil {
		return detectionPayload{}, fmt.Errorf("decoding detections: %w", err)
	}
	return payload, nil
}

// scaleToFit downscales img so its longest side is at most maxDim,
// preserving aspect ratio. It returns the image to submit and the
// factor that maps the submitted coordinates back to the original.
func scaleToFit(img image.Image, maxDim int) (image.Image, float64) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := max(w, h)
	if maxDim <= 0 || longest <= maxDim {
		return img, 1
	}

	ratio := float64(maxDim) / float64(longest)
	dw := int(float64(w) * ratio)
	dh := int(float64(h) * ratio)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)

	return dst, float64(w) / float64(dw)
}

// rescale maps detection boxes from submitted-image coordinates back to
// the original image's coordinate space.
func rescale(detections []merge.Detection, factor float64) {
	if factor == 1 {
		return
	}
	for _, det := range detections {
		for i := range det.BBox {
			det.BBox[i] *= factor
		}
	}
}

// fillMissingTableText runs the configured recognizer over table
// regions that came back without markup and stores the recognized text
// under "text_content". Recognition failures are logged and skipped;
// the detection still merges without text.
func (d *Detector) fillMissingTableText(img image.Image, tables []merge.Detection) {
	if d.config.Recognizer == nil {
		return
	}

	for i := range tables {
		det := &tables[i]
		if html, _ := det.Data["html_content"].(string); html != "" {
			continue
		}
		if len(det.BBox) != 4 {
			continue
		}

		rect := image.Rect(int(det.BBox[0]), int(det.BBox[1]), int(det.BBox[2]), int(det.BBox[3]))
		rect = rect.Intersect(img.Bounds())
		if rect.Empty() {
			continue
		}

		crop := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		xdraw.Copy(crop, image.Point{}, img, rect, xdraw.Src, nil)

		var buf bytes.Buffer
		if err := png.Encode(&buf, crop); err != nil {
			d.log.Warn("encoding table region for recognition failed", "err", err)
			continue
		}

		text, err := d.config.Recognizer.RecognizeImage(buf.Bytes())
		if err != nil {
			d.log.Warn("table text recognition failed", "err", err)
			continue
		}
		if text == "" {
			continue
		}

		if det.Data == nil {
			det.Data = make(map[string]any)
		}
		det.Data["text_content"] = text
	}
}

// transientErr reports whether err is worth retrying: rate limiting or
// a temporary server-side failure.
func transientErr(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case 429, 500, 503:
		return true
	}
	return false
}

// firstText returns the first text part of the first usable candidate
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

// stripCodeFences removes a surrounding markdown code fence, if any
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func ptrFloat32(v float32) *float32 { return &v }
