package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/cistercian-mcp/internal/cistercian"
	"github.com/ironsheep/cistercian-mcp/internal/detection"
	"github.com/ironsheep/cistercian-mcp/internal/glyph"
	"github.com/ironsheep/cistercian-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "cistercian_encode").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolError is the data payload of a failed tool call.
type ToolError struct {
	Error   cistercian.Kind `json:"error"`
	Message string          `json:"message"`
}

// imageContent is implemented by results that also carry a picture, which is
// returned as an MCP image content block next to the JSON text.
type imageContent interface {
	contentImage() (data, mimeType string)
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// and a ToolError as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	entry := s.log.WithFields(logrus.Fields{"tool": params.Name, "elapsed": time.Since(start)})
	if err != nil {
		kind := cistercian.KindOf(err)
		entry.WithField("kind", kind).WithError(err).Warn("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", ToolError{Error: kind, Message: err.Error()})
	}
	entry.Debug("tool done")

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if ic, ok := result.(imageContent); ok {
		data, mime := ic.contentImage()
		content = append(content, map[string]interface{}{
			"type":     "image",
			"data":     data,
			"mimeType": mime,
		})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the image from the cache or inline payload as needed
//  4. Calls the encoder or decoder
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "cistercian_encode":
		return s.handleEncode(args)
	case "cistercian_decode":
		return s.handleDecode(args)
	case "cistercian_inspect":
		return s.handleInspect(args)
	default:
		return nil, fmt.Errorf("unknown tool %s: %w", name, cistercian.ErrInvalidRequest)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("bad arguments: %w: %v", cistercian.ErrInvalidRequest, err)
	}
	return nil
}

// digitsByPlace names the digits of a glyph for JSON results.
func digitsByPlace(d glyph.Digits) map[string]int {
	m := make(map[string]int, 4)
	for _, q := range glyph.Quadrants {
		m[q.String()] = int(d[q])
	}
	return m
}

// === Encode ===

type encodeArgs struct {
	Number json.RawMessage `json:"number"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
}

// EncodeResult is returned by cistercian_encode.
type EncodeResult struct {
	Number int            `json:"number"`
	Image  string         `json:"image"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Digits map[string]int `json:"digits"`
}

func (r *EncodeResult) contentImage() (string, string) {
	return strings.TrimPrefix(r.Image, "data:image/png;base64,"), "image/png"
}

func (s *Server) handleEncode(args json.RawMessage) (interface{}, error) {
	var a encodeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	n, err := cistercian.ParseNumber(a.Number)
	if err != nil {
		return nil, err
	}
	if a.Width < 0 || a.Height < 0 {
		return nil, fmt.Errorf("width and height must not be negative: %w", cistercian.ErrInvalidRequest)
	}

	enc := s.encoder
	if a.Width > 0 || a.Height > 0 {
		if enc, err = s.encoder.WithSize(a.Width, a.Height); err != nil {
			return nil, fmt.Errorf("%w: %v", cistercian.ErrInvalidRequest, err)
		}
	}

	img, err := enc.Encode(n)
	if err != nil {
		return nil, err
	}
	uri, err := imaging.EncodeDataURI(img)
	if err != nil {
		return nil, err
	}

	return &EncodeResult{
		Number: n,
		Image:  uri,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Digits: digitsByPlace(glyph.Split(n)),
	}, nil
}

// === Decode ===

type imageArgs struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
	Scale       int    `json:"scale"`
}

// loadImage resolves the image argument: exactly one of path and
// image_base64 must be set.
func (s *Server) loadImage(a imageArgs) (image.Image, *imaging.ImageInfo, error) {
	switch {
	case a.Path != "" && a.ImageBase64 != "":
		return nil, nil, fmt.Errorf("give either path or image_base64, not both: %w", cistercian.ErrInvalidRequest)
	case a.Path != "":
		img, info, err := s.cache.Load(a.Path)
		if err != nil && !errors.Is(err, imaging.ErrInvalidImage) {
			return nil, nil, fmt.Errorf("%w: %v", cistercian.ErrInvalidRequest, err)
		}
		return img, info, err
	case a.ImageBase64 != "":
		return imaging.DecodeBase64(a.ImageBase64)
	default:
		return nil, nil, fmt.Errorf("path or image_base64 is required: %w", cistercian.ErrInvalidRequest)
	}
}

// DecodeResult is returned by cistercian_decode.
type DecodeResult struct {
	Number     int                `json:"number"`
	Digits     map[string]int     `json:"digits"`
	Confidence float64            `json:"confidence"`
	Quadrants  map[string]float64 `json:"quadrant_confidence"`
}

func (s *Server) handleDecode(args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, _, err := s.loadImage(a)
	if err != nil {
		return nil, err
	}

	res, err := s.decoder.Recognize(img)
	if err != nil {
		return nil, err
	}

	quadrants := make(map[string]float64, 4)
	for _, q := range glyph.Quadrants {
		quadrants[q.String()] = res.Confidence[q]
	}
	return &DecodeResult{
		Number:     res.Value(),
		Digits:     digitsByPlace(res.Digits),
		Confidence: res.MinConfidence(),
		Quadrants:  quadrants,
	}, nil
}

// === Inspect ===

// QuadrantReport describes how one quadrant was read.
type QuadrantReport struct {
	Quadrant   string                `json:"quadrant"`
	Position   string                `json:"position"`
	Digit      int                   `json:"digit"`
	Confidence float64               `json:"confidence"`
	Ambiguous  bool                  `json:"ambiguous"`
	Box        image.Rectangle       `json:"box"`
	Candidates []detection.Candidate `json:"candidates"`
	Crop       *imaging.CropResult   `json:"crop,omitempty"`
}

// InspectResult is returned by cistercian_inspect.
type InspectResult struct {
	// Number is set only when every quadrant was read confidently.
	Number    *int                   `json:"number"`
	Input     *imaging.ImageInfo     `json:"input"`
	Layout    *detection.Layout      `json:"layout"`
	Quadrants []QuadrantReport       `json:"quadrants"`
	Overlay   *imaging.OverlayResult `json:"overlay"`
}

func (r *InspectResult) contentImage() (string, string) {
	return strings.TrimPrefix(r.Overlay.DataURI, "data:image/png;base64,"), r.Overlay.MimeType
}

var (
	stemColor      = color.RGBA{0, 96, 255, 96}
	acceptedColor  = color.RGBA{0, 160, 0, 255}
	ambiguousColor = color.RGBA{220, 0, 0, 255}
)

func (s *Server) handleInspect(args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale <= 0 {
		a.Scale = 4
	}
	a.Scale = min(a.Scale, 16)

	img, info, err := s.loadImage(a)
	if err != nil {
		return nil, err
	}

	res, err := s.decoder.Inspect(img)
	if err != nil {
		return nil, err
	}
	l := res.Layout

	marks := []imaging.Mark{{
		Rect:  image.Rect(l.StemLeft, l.Top, l.StemRight+1, l.Bottom+1),
		Color: stemColor,
		Fill:  true,
	}}
	reports := make([]QuadrantReport, 0, 4)
	for _, q := range glyph.Quadrants {
		m := res.Matches[q]
		mark := imaging.Mark{Rect: l.Boxes[q], Color: acceptedColor, Label: fmt.Sprint(m.Digit)}
		if m.Ambiguous {
			mark.Color, mark.Label = ambiguousColor, "?"
		}
		marks = append(marks, mark)

		report := QuadrantReport{
			Quadrant:   q.String(),
			Position:   q.Position(),
			Digit:      int(m.Digit),
			Confidence: m.Confidence,
			Ambiguous:  m.Ambiguous,
			Box:        l.Boxes[q],
			Candidates: m.Candidates,
		}
		if !l.Boxes[q].Empty() {
			if report.Crop, err = imaging.Crop(res.Binary, l.Boxes[q], a.Scale); err != nil {
				return nil, err
			}
		}
		reports = append(reports, report)
	}

	overlay, err := imaging.Overlay(res.Binary, a.Scale, marks)
	if err != nil {
		return nil, err
	}

	out := &InspectResult{
		Input:     info,
		Layout:    l,
		Quadrants: reports,
		Overlay:   overlay,
	}
	if len(res.Ambiguous()) == 0 {
		n := res.Value()
		out.Number = &n
	}
	return out, nil
}
