package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/cistercian-mcp/internal/cistercian"
	"github.com/ironsheep/cistercian-mcp/internal/imaging"
)

// uploadExtensions lists the file name extensions accepted by
// /recognize-cistercian.
var uploadExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
	".pbm": true, ".pgm": true, ".ppm": true, ".pnm": true,
}

// errTooLarge marks request bodies over the upload limit.
var errTooLarge = errors.New("request body too large")

// Handler serves the HTTP API.
type Handler struct {
	encoder   *cistercian.Encoder
	decoder   *cistercian.Decoder
	log       logrus.FieldLogger
	maxUpload int64
}

// New creates a handler. maxUpload bounds request bodies in bytes.
func New(enc *cistercian.Encoder, dec *cistercian.Decoder, log logrus.FieldLogger, maxUpload int64) *Handler {
	return &Handler{encoder: enc, decoder: dec, log: log, maxUpload: maxUpload}
}

// Routes returns the API mux wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /convert-to-cistercian", h.convert)
	mux.HandleFunc("POST /recognize-cistercian", h.recognize)
	mux.HandleFunc("GET /healthz", h.healthz)
	return h.logRequests(mux)
}

type convertRequest struct {
	Number json.RawMessage `json:"number"`
}

type convertResponse struct {
	Image  string `json:"image"`
	Number int    `json:"number"`
}

type recognizeResponse struct {
	Number int `json:"number"`
}

type errorResponse struct {
	Error   cistercian.Kind `json:"error"`
	Message string          `json:"message"`
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	if err := h.limitBody(w, r); err != nil {
		h.writeError(w, r, err)
		return
	}

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, bodyError(err))
		return
	}
	n, err := cistercian.ParseNumber(req.Number)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	img, err := h.encoder.Encode(n)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	uri, err := imaging.EncodeDataURI(img)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{Image: uri, Number: n})
}

func (h *Handler) recognize(w http.ResponseWriter, r *http.Request) {
	if err := h.limitBody(w, r); err != nil {
		h.writeError(w, r, err)
		return
	}

	img, err := h.readImage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	n, err := h.decoder.Decode(img)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recognizeResponse{Number: n})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// limitBody rejects bodies that declare a length over the limit and caps
// the rest while they are read.
func (h *Handler) limitBody(w http.ResponseWriter, r *http.Request) error {
	if h.maxUpload <= 0 {
		return nil
	}
	if r.ContentLength > h.maxUpload {
		return fmt.Errorf("%w: %d bytes, limit %d", errTooLarge, r.ContentLength, h.maxUpload)
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	return nil
}

// readImage takes the picture from a multipart "file" part or from the
// "imageData" form field.
func (h *Handler) readImage(r *http.Request) (image.Image, error) {
	memory := h.maxUpload
	if memory <= 0 {
		memory = 32 << 20
	}
	if err := r.ParseMultipartForm(memory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, bodyError(err)
	}

	if r.MultipartForm != nil && len(r.MultipartForm.File["file"]) > 0 {
		fh := r.MultipartForm.File["file"][0]
		if fh.Filename == "" {
			return nil, fmt.Errorf("no file selected: %w", cistercian.ErrInvalidRequest)
		}
		if ext := strings.ToLower(filepath.Ext(fh.Filename)); !uploadExtensions[ext] {
			return nil, fmt.Errorf("unsupported file type %q: %w", ext, cistercian.ErrInvalidRequest)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
		img, _, err := imaging.DecodeBytes(data)
		return img, err
	}

	if payload := r.FormValue("imageData"); payload != "" {
		img, _, err := imaging.DecodeBase64(payload)
		return img, err
	}
	return nil, fmt.Errorf("no file or image data provided: %w", cistercian.ErrInvalidRequest)
}

// bodyError classifies a failure to read or parse the request body.
func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit %d", errTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("malformed body: %w: %v", cistercian.ErrInvalidRequest, err)
}

// statusOf maps an error to its HTTP status and error kind.
func statusOf(err error) (int, cistercian.Kind) {
	if errors.Is(err, errTooLarge) {
		return http.StatusRequestEntityTooLarge, cistercian.KindInvalidRequest
	}
	kind := cistercian.KindOf(err)
	switch {
	case kind.IsInputError():
		return http.StatusBadRequest, kind
	case kind.IsRecognitionError():
		return http.StatusUnprocessableEntity, kind
	default:
		return http.StatusInternalServerError, kind
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusOf(err)
	entry := h.log.WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"status": status,
		"kind":   kind,
	}).WithError(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
		msg = "internal error"
	} else {
		entry.Info("request rejected")
	}
	writeJSON(w, status, errorResponse{Error: kind, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
