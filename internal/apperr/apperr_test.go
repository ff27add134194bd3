package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindValidation, KindOf(Validation("bad input")))
	require.Equal(t, KindForbidden, KindOf(Forbidden("no")))
	require.Equal(t, Kind(""), KindOf(errors.New("plain")))
	require.Equal(t, Kind(""), KindOf(nil))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("task not found"))
	require.Equal(t, KindNotFound, KindOf(err))
	require.True(t, IsKind(err, KindNotFound))
	require.False(t, IsKind(err, KindForbidden))
}

func TestWrapKeepsKindAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(Authentication("invalid session"), cause)

	require.Equal(t, KindAuthentication, KindOf(err))
	require.Equal(t, "invalid session", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestIsMatchesByKind(t *testing.T) {
	err := Forbidden("only admins can create tasks")
	require.ErrorIs(t, err, &Error{Kind: KindForbidden})
	require.NotErrorIs(t, err, &Error{Kind: KindNotFound})
}

func TestMessageFormatting(t *testing.T) {
	err := Validation("field %q is required", "title")
	require.Equal(t, `field "title" is required`, err.Error())
}
