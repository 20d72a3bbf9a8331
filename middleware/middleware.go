// Package middleware reindents HTML responses of a net/http handler.
package middleware

import (
	"bytes"
	"log"
	"net/http"

	"github.com/rtts/djhtml"
)

// ContentType is the only response type that gets reindented.
const ContentType = "text/html; charset=utf-8"

// Handler buffers the response of the wrapped handler and reindents its
// body. A response that cannot be reindented is served unchanged.
type Handler struct {
	next      http.Handler
	formatter *djhtml.Formatter
	logger    *log.Logger
}

// New wraps next with tabWidth spaces per level.
func New(next http.Handler, tabWidth int) *Handler {
	config := djhtml.DefaultConfig()
	config.TabWidth = tabWidth
	return &Handler{
		next:      next,
		formatter: djhtml.New(config),
		logger:    log.Default(),
	}
}

// SetLogger replaces the logger that reports responses served unchanged.
func (h *Handler) SetLogger(logger *log.Logger) {
	h.logger = logger
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &recorder{header: make(http.Header), status: http.StatusOK}
	h.next.ServeHTTP(rec, r)

	body := rec.body.Bytes()
	if rec.header.Get("Content-Type") == ContentType {
		body = h.reindent(r, rec.header, body)
	}

	dst := w.Header()
	for key, values := range rec.header {
		dst[key] = values
	}
	w.WriteHeader(rec.status)
	if _, err := w.Write(body); err != nil {
		h.logger.Printf("djhtml: writing response for %s: %v", r.URL.Path, err)
	}
}

func (h *Handler) reindent(r *http.Request, header http.Header, body []byte) []byte {
	// The reindented body has a different length.
	if header.Get("Content-Length") != "" {
		h.logger.Printf("djhtml: response for %s sets Content-Length; install the middleware before the handler that sets it", r.URL.Path)
		return body
	}

	out, err := h.formatter.Indent(string(body))
	if err != nil {
		h.logger.Printf("djhtml: %s: %v", r.URL.Path, err)
		return body
	}
	return []byte(out)
}

// recorder captures a response so it can be rewritten before it is sent.
type recorder struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (r *recorder) Header() http.Header {
	return r.header
}

func (r *recorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
}

func (r *recorder) Write(p []byte) (int, error) {
	r.WriteHeader(http.StatusOK)
	return r.body.Write(p)
}
