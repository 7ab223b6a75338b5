// Package server implements the MCP (Model Context Protocol) server for
// Cistercian numerals.
//
// This package provides a JSON-RPC 2.0 server that exposes the encoder and
// decoder through the MCP protocol, so MCP-compatible clients can draw a
// numeral for a number or read the number back from a picture.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Logging goes to the logger passed to New and never to stdout.
//
// # Available Tools
//
//   - cistercian_encode: render a number in [0, 9999] as a PNG glyph
//   - cistercian_decode: read the number drawn in an image
//   - cistercian_inspect: show how an image was read: stem layout,
//     per-quadrant candidate scores and an annotated overlay
//
// Images are given either as a file path (decoded once and cached) or as
// inline base64 in image_base64, optionally with a data URI header.
//
// # Response Format
//
// Tool results are returned as MCP content blocks: a text block holding
// the JSON result, followed by an image block when the tool produced a
// picture.
//
// # Error Handling
//
// Tool failures are JSON-RPC errors with code -32000. The data member
// names the failure kind:
//
//	{"error": "quadrant_ambiguous", "message": "ambiguous quadrant: units"}
//
// Kinds are those of cistercian.Kind. Malformed tools/call params return
// -32602, unknown methods -32601, and unparseable lines -32700.
package server
