package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozymandias/internal/apperr"
)

func TestError_MessageIncludesCause(t *testing.T) {
	err := apperr.NewStorageError("retrieve", errors.New("disk on fire"))
	assert.Equal(t, `storage operation "retrieve" failed: disk on fire`, err.Error())
}

func TestNotFound_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("show: %w", apperr.NewNotFoundError("document abc"))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, apperr.ExitStorage, apperr.ExitCode(err))
}

func TestValidation_NotFoundSentinelDoesNotMatch(t *testing.T) {
	err := apperr.NewValidationError("bad input")
	assert.False(t, errors.Is(err, apperr.ErrNotFound))
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, apperr.ExitOK},
		{"plain", errors.New("boom"), apperr.ExitCommand},
		{"command", apperr.NewCommandError("x"), apperr.ExitCommand},
		{"validation", apperr.NewValidationError("x"), apperr.ExitValidation},
		{"config", apperr.NewConfigError("x"), apperr.ExitConfig},
		{"storage", apperr.NewStorageError("op", nil), apperr.ExitStorage},
		{"wrapped config", fmt.Errorf("load: %w", apperr.NewConfigError("x")), apperr.ExitConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperr.ExitCode(tc.err))
		})
	}
}

func TestIsKind_WalksCauses(t *testing.T) {
	inner := apperr.NewValidationError("too large")
	outer := apperr.NewCommandError("ingest failed").WithCause(inner)

	assert.Equal(t, apperr.KindCommand, apperr.KindOf(outer))
	assert.True(t, apperr.IsKind(outer, apperr.KindValidation))
	assert.False(t, apperr.IsKind(outer, apperr.KindConfig))
}

func TestWithDetail(t *testing.T) {
	err := apperr.NewValidationError("file too large").
		WithDetail("size", 10).
		WithDetail("max", 5)
	require.Len(t, err.Details, 2)
	assert.Equal(t, 10, err.Details["size"])
}
