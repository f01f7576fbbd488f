// Package httpsource reads package files from HTTP servers with range
// requests, so an archive can decode a remote file without downloading it.
//
// Wrap the source in a cache.BlockCache before handing it to an archive;
// archives issue many small reads.
package httpsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/opencontainers/go-digest"
)

var (
	// ErrRangeUnsupported is returned when the server ignores Range headers.
	ErrRangeUnsupported = errors.New("httpsource: range requests not supported")

	// ErrSizeMismatch is returned when HEAD and the range probe disagree on
	// the content length.
	ErrSizeMismatch = errors.New("httpsource: content size mismatch")
)

// Source implements random access reads via HTTP range requests.
// It satisfies source.ByteSource and cache.RangeReader.
type Source struct {
	url          string
	client       *http.Client
	headers      http.Header
	logger       *slog.Logger
	size         int64
	etag         string
	lastModified string
	sourceID     string
	conditional  bool
}

// Option configures a Source.
type Option func(*Source)

// WithClient sets the HTTP client used for requests.
func WithClient(client *http.Client) Option {
	return func(s *Source) {
		s.client = client
	}
}

// WithHeader sets a header on every request.
func WithHeader(key, value string) Option {
	return func(s *Source) {
		if s.headers == nil {
			s.headers = make(http.Header)
		}
		s.headers.Set(key, value)
	}
}

// WithSourceID overrides the identifier used as the cache key.
func WithSourceID(id string) Option {
	return func(s *Source) {
		s.sourceID = id
	}
}

// WithConditionalHeaders makes range reads conditional on the ETag or
// Last-Modified seen when the source was opened. A server answering 412 is
// retried once without the conditions.
func WithConditionalHeaders() Option {
	return func(s *Source) {
		s.conditional = true
	}
}

// WithLogger sets the logger for request diagnostics.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// NewSource probes url for its size and validators and returns a Source
// reading it with range requests.
func NewSource(ctx context.Context, url string, opts ...Option) (*Source, error) {
	s := &Source{url: url}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = http.DefaultClient
	}
	if err := s.probe(ctx); err != nil {
		return nil, fmt.Errorf("httpsource: open %s: %w", url, err)
	}
	if s.sourceID == "" {
		s.sourceID = s.defaultSourceID()
	}
	s.log().Debug("http source opened", "url", url, "size", s.size, "source_id", s.sourceID)
	return s, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (s *Source) log() *slog.Logger {
	if s.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.logger
}

// Size returns the total size of the remote content.
func (s *Source) Size() int64 { return s.size }

// SourceID returns a digest of the URL and the validators seen at open.
func (s *Source) SourceID() string { return s.sourceID }

// URL returns the remote location.
func (s *Source) URL() string { return s.url }

// ReadRange returns a reader for [off, off+length). The caller must close it
// to release the connection. An offset at or past the end yields io.EOF.
func (s *Source) ReadRange(off, length int64) (io.ReadCloser, error) {
	if length < 0 {
		return nil, fmt.Errorf("read range length %d: negative length", length)
	}
	if length == 0 {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	if off < 0 {
		return nil, fmt.Errorf("read range %d: negative offset", off)
	}
	if off >= s.size {
		return io.NopCloser(bytes.NewReader(nil)), io.EOF
	}
	length = min(length, s.size-off)

	body, err := s.get(context.Background(), off, off+length-1)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.NopCloser(bytes.NewReader(nil)), io.EOF
		}
		return nil, err
	}
	return &rangeBody{body: body, r: io.LimitReader(body, length)}, nil
}

// ReadAt implements io.ReaderAt with one range request per call.
func (s *Source) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 {
		return 0, fmt.Errorf("read at %d: negative offset", off)
	}
	if off >= s.size {
		return 0, io.EOF
	}
	want := int(min(int64(len(p)), s.size-off))

	body, err := s.get(context.Background(), off, off+int64(want)-1)
	if err != nil {
		return 0, err
	}
	defer drain(body)

	n, err := io.ReadFull(body, p[:want])
	if err != nil {
		return n, err
	}
	if want < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// get issues a range GET for [off, end] and returns the 206 body.
// A 416 answer is reported as io.EOF.
func (s *Source) get(ctx context.Context, off, end int64) (io.ReadCloser, error) {
	resp, err := s.rangeRequest(ctx, off, end, s.hasConditions())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusPreconditionFailed && s.hasConditions() {
		drain(resp.Body)
		s.log().Debug("conditional range rejected, retrying", "url", s.url, "off", off)
		resp, err = s.rangeRequest(ctx, off, end, false)
		if err != nil {
			return nil, err
		}
	}
	switch resp.StatusCode {
	case http.StatusPartialContent:
		return resp.Body, nil
	case http.StatusRequestedRangeNotSatisfiable:
		drain(resp.Body)
		return nil, io.EOF
	case http.StatusOK:
		drain(resp.Body)
		return nil, ErrRangeUnsupported
	default:
		drain(resp.Body)
		return nil, fmt.Errorf("httpsource: range request failed: %s", resp.Status)
	}
}

// probe learns the size from HEAD and confirms it with a one-byte range
// request, which also proves the server honors ranges.
func (s *Source) probe(ctx context.Context) error {
	headSize := int64(-1)
	if resp, err := s.do(ctx, http.MethodHead, "", false); err == nil {
		if resp.StatusCode == http.StatusOK {
			headSize = resp.ContentLength
			s.etag = resp.Header.Get("ETag")
			s.lastModified = resp.Header.Get("Last-Modified")
		}
		drain(resp.Body)
	}

	resp, err := s.do(ctx, http.MethodGet, "bytes=0-0", false)
	if err != nil {
		return err
	}
	defer drain(resp.Body)

	switch resp.StatusCode {
	case http.StatusPartialContent:
	case http.StatusRequestedRangeNotSatisfiable:
		// An empty object cannot satisfy bytes=0-0 and reports "bytes */0".
		if size, err := parseContentRange(resp.Header.Get("Content-Range")); err != nil || size != 0 {
			return fmt.Errorf("range probe failed: %s", resp.Status)
		}
	case http.StatusOK:
		return ErrRangeUnsupported
	default:
		return fmt.Errorf("range probe failed: %s", resp.Status)
	}
	size, err := parseContentRange(resp.Header.Get("Content-Range"))
	if err != nil {
		return err
	}
	if headSize > 0 && headSize != size {
		return fmt.Errorf("%w: head=%d range=%d", ErrSizeMismatch, headSize, size)
	}
	s.size = size
	if s.etag == "" {
		s.etag = resp.Header.Get("ETag")
	}
	if s.lastModified == "" {
		s.lastModified = resp.Header.Get("Last-Modified")
	}
	return nil
}

func (s *Source) rangeRequest(ctx context.Context, off, end int64, conditional bool) (*http.Response, error) {
	return s.do(ctx, http.MethodGet, "bytes="+strconv.FormatInt(off, 10)+"-"+strconv.FormatInt(end, 10), conditional)
}

func (s *Source) do(ctx context.Context, method, byteRange string, conditional bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.url, http.NoBody)
	if err != nil {
		return nil, err
	}
	for key, values := range s.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", "identity")
	}
	if byteRange != "" {
		req.Header.Set("Range", byteRange)
	}
	if conditional {
		if s.etag != "" {
			req.Header.Set("If-Match", s.etag)
		}
		if s.lastModified != "" {
			req.Header.Set("If-Unmodified-Since", s.lastModified)
		}
	}
	return s.client.Do(req)
}

func (s *Source) hasConditions() bool {
	return s.conditional && (s.etag != "" || s.lastModified != "")
}

func (s *Source) defaultSourceID() string {
	key := fmt.Sprintf("%s|size:%d", s.url, s.size)
	switch {
	case s.etag != "":
		key = s.url + "|etag:" + s.etag
	case s.lastModified != "":
		key += "|mod:" + s.lastModified
	}
	return "http:" + digest.FromString(key).String()
}

// rangeBody limits a response body and drains it on Close so the connection
// can be reused.
type rangeBody struct {
	body io.ReadCloser
	r    io.Reader
}

func (b *rangeBody) Read(p []byte) (int, error) { return b.r.Read(p) }

func (b *rangeBody) Close() error {
	_, _ = io.Copy(io.Discard, b.body) //nolint:errcheck // best-effort drain for connection reuse
	return b.body.Close()
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body) //nolint:errcheck // best-effort drain for connection reuse
	_ = body.Close()
}

// parseContentRange returns the complete length from a Content-Range value
// of the form "bytes start-end/size".
func parseContentRange(value string) (int64, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), "bytes ")
	if !ok {
		return 0, fmt.Errorf("invalid Content-Range %q", value)
	}
	_, total, ok := strings.Cut(rest, "/")
	if !ok || total == "*" {
		return 0, fmt.Errorf("invalid Content-Range %q", value)
	}
	size, err := strconv.ParseInt(total, 10, 64)
	if err != nil || size < 0 {
		return 0, fmt.Errorf("invalid Content-Range %q", value)
	}
	return size, nil
}
