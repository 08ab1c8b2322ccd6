// Package remote is the inbound command boundary: JSON requests to
// open a player window.
package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"golang.org/x/sync/semaphore"
)

// WindowID is the id of the only window a service can have open.
const WindowID = 1

var (
	ErrWindowOpen = errors.New("a window is already open")
	ErrRequest    = errors.New("invalid request")
)

type Request struct {
	URL string `json:"url"`
}

type Result struct {
	ID int `json:"id"`
}

// Response carries exactly one of Err and Ok; the other is null.
type Response struct {
	Err *string `json:"err"`
	Ok  *Result `json:"ok"`
}

func failure(err error) Response {
	msg := err.Error()
	return Response{Err: &msg}
}

// Opener builds a window playing url and returns once it is built.
// closed must be called when the window is gone.
type Opener func(ctx context.Context, url string, closed func()) error

type Service struct {
	open Opener
	sem  *semaphore.Weighted
}

func NewService(open Opener) *Service {
	return &Service{open: open, sem: semaphore.NewWeighted(1)}
}

func (s *Service) CreateWindow(ctx context.Context, req Request) Response {
	if req.URL == "" {
		return failure(fmt.Errorf("%w: url is required", ErrRequest))
	}
	if !s.sem.TryAcquire(1) {
		return failure(ErrWindowOpen)
	}

	var once sync.Once
	release := func() {
		once.Do(func() { s.sem.Release(1) })
	}
	if err := s.open(ctx, req.URL, release); err != nil {
		release()
		log.Printf("Failed to create window for %s: %v\n", req.URL, err)
		return failure(err)
	}
	return Response{Ok: &Result{ID: WindowID}}
}

// Handle decodes one request and encodes its response.
func (s *Service) Handle(ctx context.Context, data []byte) []byte {
	var req Request
	var resp Response
	if err := json.Unmarshal(data, &req); err != nil {
		resp = failure(fmt.Errorf("%w: %v", ErrRequest, err))
	} else {
		resp = s.CreateWindow(ctx, req)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		// Response only holds strings and ints
		panic(err)
	}
	return out
}

// Serve answers newline-delimited requests from r on w until r is
// exhausted or ctx is done.
func (s *Service) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		out := s.Handle(ctx, line)
		if _, err := w.Write(append(out, '\n')); err != nil {
			return err
		}
	}
	return sc.Err()
}
