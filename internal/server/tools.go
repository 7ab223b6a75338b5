package server

import "github.com/ironsheep/cistercian-mcp/internal/render"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageSourceProperties are shared by every tool that reads a glyph image.
func imageSourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file (PNG, JPEG, GIF, BMP, TIFF, WebP or Netpbm)",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Base64-encoded image, optionally as a data URI. Use instead of path.",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	inspectProps := imageSourceProperties()
	inspectProps["scale"] = map[string]interface{}{
		"type":        "integer",
		"description": "Enlargement factor for the overlay and quadrant crops. Default 4",
		"default":     4,
	}

	return []Tool{
		{
			Name:        "cistercian_encode",
			Description: "Render an integer from 0 to 9999 as a Cistercian numeral and return it as a base64 PNG data URI.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"number": map[string]interface{}{
						"type":        "integer",
						"description": "Number to encode, 0-9999",
						"minimum":     0,
						"maximum":     9999,
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Optional image width in pixels. Default from configuration (300)",
						"minimum":     16,
						"maximum":     render.MaxSide,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Optional image height in pixels. Default from configuration (400)",
						"minimum":     16,
						"maximum":     render.MaxSide,
					},
				},
				"required": []string{"number"},
			},
		},
		{
			Name:        "cistercian_decode",
			Description: "Read the integer shown by a Cistercian numeral image. Fails with quadrant_ambiguous rather than guessing when a quadrant cannot be read.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageSourceProperties(),
			},
		},
		{
			Name:        "cistercian_inspect",
			Description: "Explain how a Cistercian numeral image is read: stem layout, per-quadrant digit scores, an annotated overlay of the normalized image and per-quadrant crops. Works on ambiguous glyphs too.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": inspectProps,
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
