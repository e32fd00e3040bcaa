// Package vision detects molecule drawings and molecule tables on page
// images using Google's Gemini models.
//
// A [Detector] submits each page image once, downscaled to a bounded
// size, and asks for strict JSON detections. Returned boxes are mapped
// back into the original image's coordinate space, so they can be
// merged into a document whose layout was analyzed at full resolution.
// Requests across pages share a sliding-window rate limiter, and
// transient service failures (rate limiting, server errors) are retried
// with linear backoff.
//
// Table detections that come back without HTML markup can optionally be
// run through a local [TextRecognizer] (such as ocr.Client) so the
// merged block at least carries the table's plain text.
package vision
