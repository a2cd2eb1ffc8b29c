package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(StoreIO, "ctx", nil))
}

func TestWrapPreservesUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := Wrap(StoreIO, "annotations.jsonl", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "store-io")
	assert.Contains(t, err.Error(), "annotations.jsonl")
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "store-io", StoreIO.String())
	assert.Equal(t, "store-format", StoreFormat.String())
	assert.Equal(t, "repo-boundary", RepoBoundary.String())
	assert.Equal(t, "diff-producer", DiffProducer.String())
}

func TestWrapIfUntaggedNilReturnsNil(t *testing.T) {
	assert.NoError(t, WrapIfUntagged(StoreIO, "ctx", nil))
}

func TestWrapIfUntaggedTagsPlainError(t *testing.T) {
	inner := errors.New("disk full")
	err := WrapIfUntagged(StoreIO, "annotations.jsonl", inner)

	var tagged *Error
	require.ErrorAs(t, err, &tagged)
	assert.Equal(t, StoreIO, tagged.Kind)
}

func TestWrapIfUntaggedPreservesExistingKind(t *testing.T) {
	original := Wrap(StoreFormat, "annotations.jsonl line 3", errors.New("invalid json"))
	rewrapped := WrapIfUntagged(StoreIO, "load annotations", original)

	var tagged *Error
	require.ErrorAs(t, rewrapped, &tagged)
	assert.Equal(t, StoreFormat, tagged.Kind)
	assert.Same(t, original, rewrapped)
}
