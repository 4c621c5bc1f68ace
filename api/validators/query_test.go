package validators

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
)

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=10", nil)
	value, err := ParseQueryInt(r, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, value)

	r = httptest.NewRequest("GET", "/", nil)
	value, err = ParseQueryInt(r, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 25, value)

	r = httptest.NewRequest("GET", "/?limit=9000", nil)
	_, err = ParseQueryInt(r, "limit", 25, 1, 100)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestParseQueryTime(t *testing.T) {
	fallback := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	r := httptest.NewRequest("GET", "/?from=2026-04-01", nil)
	value, err := ParseQueryTime(r, "from", fallback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), value)

	r = httptest.NewRequest("GET", "/?from=2026-04-01T15:04:05Z", nil)
	value, err = ParseQueryTime(r, "from", fallback)
	require.NoError(t, err)
	assert.Equal(t, 15, value.Hour())

	r = httptest.NewRequest("GET", "/", nil)
	value, err = ParseQueryTime(r, "from", fallback)
	require.NoError(t, err)
	assert.True(t, value.Equal(fallback))

	r = httptest.NewRequest("GET", "/?from=tomorrow", nil)
	_, err = ParseQueryTime(r, "from", fallback)
	require.Error(t, err)
}

func TestParseUUID(t *testing.T) {
	_, err := ParseUUID("not-a-uuid", "restaurantId")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	id, err := ParseUUID("7b0d8c2e-45a9-4c19-b1de-57ffb2df8b3b", "restaurantId")
	require.NoError(t, err)
	assert.Equal(t, "7b0d8c2e-45a9-4c19-b1de-57ffb2df8b3b", id.String())
}
