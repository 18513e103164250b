package httpcodec

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"
)

// maxFrame bounds a single streamed frame read by LineFrames.
const maxFrame = 1 << 20

// RequestParts converts an incoming request into message parts. The body is
// read in full; an empty body becomes an absent one. The request's header
// map is cloned so later mutation of either side is safe.
func RequestParts(r *http.Request) (*Parts, error) {
	p := &Parts{
		Method: r.Method,
		Path:   splitPath(r.URL.Path),
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	}
	if p.Query == nil {
		p.Query = url.Values{}
	}
	if p.Header == nil {
		p.Header = http.Header{}
	}
	if r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		if len(body) > 0 {
			p.Body = body
		}
	}
	return p, nil
}

// ResponseParts converts a received response into message parts. The body is
// read in full but not closed; closing remains the caller's responsibility.
func ResponseParts(r *http.Response) (*Parts, error) {
	p := &Parts{
		Status: r.StatusCode,
		Query:  url.Values{},
		Header: r.Header.Clone(),
	}
	if p.Header == nil {
		p.Header = http.Header{}
	}
	if r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		if len(body) > 0 {
			p.Body = body
		}
	}
	return p, nil
}

// Request assembles an outgoing request from the parts. The path segments
// are escaped and joined onto the base URL's path, the query string is
// encoded from Query, and headers are copied over. Method defaults to GET.
// A streaming body is sent as newline-delimited frames.
func (p *Parts) Request(ctx context.Context, base string) (*http.Request, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if len(p.Path) > 0 {
		escaped := make([]string, len(p.Path))
		for i, seg := range p.Path {
			escaped[i] = url.PathEscape(seg)
		}
		u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(escaped, "/")
	}
	if len(p.Query) > 0 {
		u.RawQuery = p.Query.Encode()
	}

	method := p.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	switch {
	case p.Body != nil:
		body = bytes.NewReader(p.Body)
	case p.BodyStream != nil:
		body = newFrameReader(p.BodyStream)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for name, values := range p.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	return req, nil
}

// WriteResponse writes the parts as a response: headers first, then the
// status line (defaulting to 200), then the body. A streaming body is
// written as newline-delimited frames, flushed after each frame when the
// writer supports flushing.
func (p *Parts) WriteResponse(w http.ResponseWriter) error {
	for name, values := range p.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if p.Body != nil {
		_, err := w.Write(p.Body)
		return err
	}
	if p.BodyStream != nil {
		flusher, _ := w.(http.Flusher)
		for frame, err := range p.BodyStream {
			if err != nil {
				return err
			}
			if _, err := w.Write(append(frame, '\n')); err != nil {
				return err
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
	return nil
}

// LineFrames reads newline-delimited frames from r. Each yielded frame is a
// copy without its trailing newline; a read failure is yielded in-band and
// ends the sequence.
func LineFrames(r io.Reader) FrameStream {
	return func(yield func([]byte, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxFrame)
		for sc.Scan() {
			frame := append([]byte(nil), sc.Bytes()...)
			if !yield(frame, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// splitPath breaks a URL path into its segments. The root path has none.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// frameReader adapts a FrameStream into an io.ReadCloser emitting
// newline-delimited frames, for use as an outgoing request body.
type frameReader struct {
	next func() ([]byte, error, bool)
	stop func()
	buf  []byte
	err  error
}

func newFrameReader(frames FrameStream) *frameReader {
	next, stop := iter.Pull2(frames)
	return &frameReader{next: next, stop: stop}
}

func (r *frameReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		frame, err, ok := r.next()
		if !ok {
			r.err = io.EOF
			return 0, io.EOF
		}
		if err != nil {
			r.stop()
			r.err = err
			return 0, err
		}
		r.buf = append(append(r.buf[:0], frame...), '\n')
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (r *frameReader) Close() error {
	r.stop()
	if r.err == nil {
		r.err = io.EOF
	}
	return nil
}
