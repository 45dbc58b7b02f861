package greptime

import (
	"context"
	"sync"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/metadata"
)

// DefaultStreamBufferSize is the queue capacity of a StreamInserter.
const DefaultStreamBufferSize = 1024

// insertStream is the slice of the generated client stream the pipeline
// needs. The generated GreptimeDatabase_HandleRequestsClient satisfies it.
type insertStream interface {
	Send(*gpb.GreptimeRequest) error
	CloseAndRecv() (*gpb.GreptimeResponse, error)
	Trailer() metadata.MD
}

// StreamInserter is one open streaming session: a bounded queue of request
// envelopes and a background goroutine that forwards them, in order, onto a
// single long-lived request stream. The server answers with one aggregate
// response for the whole session, surfaced by Finish.
//
// Producers may call Insert and RowInsert concurrently; each session is
// owned by its callers and never shared with other sessions.
type StreamInserter struct {
	header   *gpb.RequestHeader
	requests chan *gpb.GreptimeRequest
	done     chan struct{}

	mu     sync.RWMutex
	closed bool

	// written by the forwarding goroutine before done is closed
	resp *gpb.GreptimeResponse
	err  *Error
}

func newStreamInserter(open func() (insertStream, error), header *gpb.RequestHeader, capacity int) *StreamInserter {
	s := &StreamInserter{
		header:   header,
		requests: make(chan *gpb.GreptimeRequest, capacity),
		done:     make(chan struct{}),
	}
	go s.run(open)
	return s
}

// run opens the stream, drains the queue onto it and captures the terminal
// response. It is the only consumer of s.requests.
func (s *StreamInserter) run(open func() (insertStream, error)) {
	defer close(s.done)
	defer func() {
		if r := recover(); r != nil {
			s.err = errorf(KindStreaming, "stream forwarding panicked: %v", r)
		}
	}()

	stream, err := open()
	if err != nil {
		s.err = wrapError(KindConnection, "open request stream", err)
		return
	}

	for req := range s.requests {
		if err := stream.Send(req); err != nil {
			// A broken stream reports io.EOF here; the concrete status
			// comes out of CloseAndRecv below.
			logrus.Warnf("stream send failed, closing session: %v", err)
			break
		}
	}

	resp, err := stream.CloseAndRecv()
	if err != nil {
		st := statusOf(err)
		s.err = &Error{
			Kind:   KindStreaming,
			Msg:    diagnosticMessage(st, stream.Trailer()),
			Status: st,
			cause:  err,
		}
		return
	}
	s.resp = resp
}

// Insert enqueues column-oriented batches onto the stream.
func (s *StreamInserter) Insert(ctx context.Context, requests []*gpb.InsertRequest) error {
	return s.send(ctx, &gpb.GreptimeRequest{
		Header:  s.header,
		Request: &gpb.GreptimeRequest_Inserts{Inserts: &gpb.InsertRequests{Inserts: requests}},
	})
}

// RowInsert enqueues row-oriented batches onto the stream.
func (s *StreamInserter) RowInsert(ctx context.Context, requests []*gpb.RowInsertRequest) error {
	return s.send(ctx, &gpb.GreptimeRequest{
		Header:  s.header,
		Request: &gpb.GreptimeRequest_RowInserts{RowInserts: &gpb.RowInsertRequests{Inserts: requests}},
	})
}

// send blocks while the queue is full. It fails immediately once the
// forwarding goroutine has terminated, and never panics when racing Finish.
func (s *StreamInserter) send(ctx context.Context, req *gpb.GreptimeRequest) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return newError(KindStreaming, "stream inserter is already finished")
	}

	select {
	case <-s.done:
		return s.terminalError()
	default:
	}

	select {
	case s.requests <- req:
		return nil
	case <-s.done:
		return s.terminalError()
	case <-ctx.Done():
		return wrapError(KindStreaming, "send canceled", ctx.Err())
	}
}

// terminalError must only be called after done is closed.
func (s *StreamInserter) terminalError() *Error {
	if s.err != nil {
		return wrapError(KindStreaming, "stream already terminated", s.err)
	}
	return newError(KindStreaming, "stream already terminated")
}

// Finish closes the producer side, waits for the forwarding goroutine and
// returns the aggregate affected-row count from the one terminal response.
// If the session failed at any point (open, send or close), Finish returns
// the classified error instead; it never synthesizes a partial count.
// Finish is single-use: a second call reports an already-finished error.
func (s *StreamInserter) Finish() (uint32, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, newError(KindStreaming, "stream inserter is already finished")
	}
	s.closed = true
	close(s.requests)
	s.mu.Unlock()

	<-s.done
	if s.err != nil {
		return 0, s.err
	}
	return affectedRows(s.resp)
}
