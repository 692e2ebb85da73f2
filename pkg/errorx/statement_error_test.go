package errorx_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/marcodd23/go-micro-sqlite/pkg/errorx"
)

// TestStatementError_KindMatching checks every kind matches its own sentinel only, through wrapping.
func TestStatementError_KindMatching(t *testing.T) {
	sentinels := map[errorx.StatementErrorKind]error{
		errorx.KindCompilation: errorx.ErrCompilation,
		errorx.KindBind:        errorx.ErrBind,
		errorx.KindStep:        errorx.ErrStep,
		errorx.KindFinalize:    errorx.ErrFinalize,
		errorx.KindUsage:       errorx.ErrUsage,
	}

	for kind, sentinel := range sentinels {
		err := errors.Wrap(errorx.NewStatementError(kind, 1, "boom", "SELECT 1"), "context")

		for other, otherSentinel := range sentinels {
			assert.Equal(t, kind == other, errors.Is(err, otherSentinel), "%s vs %s", kind, other)
		}

		assert.True(t, errorx.IsStatementErrorKind(err, kind))
		assert.True(t, errors.Is(err, sentinel))
	}
}

func TestStatementError_Fields(t *testing.T) {
	cause := errors.New("no row loaded")
	err := errorx.NewStatementErrorWrapper(cause, errorx.KindUsage, 21, "no row loaded", "SELECT 1 WHERE 0")

	assert.Equal(t, `UsageError [21]: no row loaded (sql: "SELECT 1 WHERE 0")`, err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, 21, err.PrimaryCode())

	extended := errorx.NewStatementError(errorx.KindStep, 2067, "UNIQUE constraint failed: t.id", "INSERT")
	assert.Equal(t, 19, extended.PrimaryCode())
	assert.Nil(t, extended.Unwrap())

	_, ok := errorx.AsStatementError(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, "StatementErrorKind(9)", errorx.StatementErrorKind(9).String())
}

func TestDatabaseError(t *testing.T) {
	err := errorx.NewEngineDatabaseError(14, "unable to open database file", "Error opening database '%s'", "/nope.db")

	assert.Equal(t, 14, err.Code)
	assert.Contains(t, err.Error(), "Error opening database '/nope.db'")
	assert.Contains(t, err.Error(), "engine error [14]: unable to open database file")

	wrapped := errorx.NewDatabaseErrorWrapper(errorx.ErrUsage, "wrapped")
	assert.True(t, errors.Is(wrapped, errorx.ErrUsage))

	general := errorx.NewGeneralErrorWrapper(wrapped, "general %d", 1)
	assert.True(t, errors.Is(general, errorx.ErrUsage))
	assert.Equal(t, "general 1", errorx.NewGeneralError("general %d", 1).Error())
}
