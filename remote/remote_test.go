package remote

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpener struct {
	urls   []string
	err    error
	closed []func()
}

func (f *fakeOpener) open(ctx context.Context, url string, closed func()) error {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return f.err
	}
	f.closed = append(f.closed, closed)
	return nil
}

func TestHandleSuccess(t *testing.T) {
	o := &fakeOpener{}
	s := NewService(o.open)

	out := s.Handle(context.Background(), []byte(`{"url":"https://example.com/a.mkv"}`))
	assert.JSONEq(t, `{"err":null,"ok":{"id":1}}`, string(out))
	assert.Equal(t, []string{"https://example.com/a.mkv"}, o.urls)
}

func TestHandleFailure(t *testing.T) {
	o := &fakeOpener{err: errors.New("file/stream could not be loaded: nope.mkv")}
	s := NewService(o.open)

	out := s.Handle(context.Background(), []byte(`{"url":"nope.mkv"}`))
	assert.JSONEq(t, `{"err":"file/stream could not be loaded: nope.mkv","ok":null}`, string(out))

	o.err = nil
	out = s.Handle(context.Background(), []byte(`{"url":"ok.mkv"}`))
	assert.JSONEq(t, `{"err":null,"ok":{"id":1}}`, string(out), "failed open frees the slot")
}

func TestHandleBadRequest(t *testing.T) {
	o := &fakeOpener{}
	s := NewService(o.open)

	for _, in := range []string{`{"url":`, `{}`, `{"url":""}`} {
		out := s.Handle(context.Background(), []byte(in))
		assert.Contains(t, string(out), ErrRequest.Error(), in)
		assert.Contains(t, string(out), `"ok":null`, in)
	}
	assert.Empty(t, o.urls)
}

func TestSingleWindow(t *testing.T) {
	o := &fakeOpener{}
	s := NewService(o.open)
	ctx := context.Background()

	r := s.CreateWindow(ctx, Request{URL: "a.mkv"})
	require.NotNil(t, r.Ok)
	assert.Equal(t, WindowID, r.Ok.ID)

	r = s.CreateWindow(ctx, Request{URL: "b.mkv"})
	require.NotNil(t, r.Err)
	assert.Nil(t, r.Ok)
	assert.Equal(t, "a window is already open", *r.Err)

	o.closed[0]()
	o.closed[0]()
	r = s.CreateWindow(ctx, Request{URL: "c.mkv"})
	require.NotNil(t, r.Ok)
	assert.Equal(t, []string{"a.mkv", "c.mkv"}, o.urls)
}

func TestServe(t *testing.T) {
	o := &fakeOpener{}
	s := NewService(o.open)

	in := strings.NewReader("{\"url\":\"a.mkv\"}\n\n{\"url\":\"b.mkv\"}\n")
	var out bytes.Buffer
	require.NoError(t, s.Serve(context.Background(), in, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"err":null,"ok":{"id":1}}`, lines[0])
	assert.JSONEq(t, `{"err":"a window is already open","ok":null}`, lines[1])
}

func TestServeCancelled(t *testing.T) {
	o := &fakeOpener{}
	s := NewService(o.open)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := s.Serve(ctx, strings.NewReader("{\"url\":\"a.mkv\"}\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, o.urls)
}
