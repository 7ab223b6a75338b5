// Package httpapi serves the encoder and decoder over HTTP.
//
// Routes:
//
//	POST /convert-to-cistercian   {"number": 1234}  -> {"image": "data:image/png;base64,...", "number": 1234}
//	POST /recognize-cistercian    multipart "file" or form "imageData" -> {"number": 1234}
//	GET  /healthz                 -> {"status": "ok"}
//
// Failures are JSON objects {"error": kind, "message": text} where kind is a
// cistercian.Kind. Input kinds answer 400, recognition kinds 422, bodies over
// the upload limit 413 and anything else 500.
package httpapi
