package months_test

import (
	"testing"
	"time"

	"github.com/casafin/casafin_backend/internal/utils/months"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	in := time.Date(2025, time.March, 17, 15, 4, 5, 0, time.UTC)
	got := months.Normalize(in)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestWindow(t *testing.T) {
	start, end := months.Window(time.Date(2025, time.January, 20, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestWindowDecember(t *testing.T) {
	start, end := months.Window(time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestParse(t *testing.T) {
	got, err := months.Parse("2025-07")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = months.Parse("07/2025")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "2025-07", months.Format(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
}
