package host

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreams_When_SwapReturnsDisplacedPair(t *testing.T) {
	t.Parallel()

	var out, errOut, tee bytes.Buffer
	s := NewStreams(&out, &errOut)

	prevOut, prevErr := s.Swap(&tee, &tee)

	assert.Same(t, &out, prevOut.(*bytes.Buffer))
	assert.Same(t, &errOut, prevErr.(*bytes.Buffer))
	assert.Same(t, &tee, s.Stdout().(*bytes.Buffer))
	assert.Same(t, &tee, s.Stderr().(*bytes.Buffer))
}

func TestStreams_When_NilTargetsDefaultToDiscard(t *testing.T) {
	t.Parallel()

	s := NewStreams(nil, nil)

	n, err := s.Out().Write([]byte("dropped"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = s.ErrOut().Write([]byte("dropped"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestStreamsOut_When_HandleFollowsCurrentTarget(t *testing.T) {
	t.Parallel()

	var first, second bytes.Buffer
	s := NewStreams(&first, &first)
	view := s.Out()

	_, err := view.Write([]byte("one"))
	require.NoError(t, err)

	s.Swap(&second, &second)

	_, err = view.Write([]byte("two"))
	require.NoError(t, err)

	assert.Equal(t, "one", first.String())
	assert.Equal(t, "two", second.String())
}

func TestStreams_When_SwapWithNilInstallsDiscard(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s := NewStreams(&out, &out)

	s.Swap(nil, nil)
	_, err := s.Out().Write([]byte("gone"))
	require.NoError(t, err)

	assert.Empty(t, out.String())
}
