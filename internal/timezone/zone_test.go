package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	location, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default, location.String())

	_, err = Load("Nowhere/Atlantis")
	assert.Error(t, err)

	assert.Panics(t, func() { MustLoad("Nowhere/Atlantis") })
}

func TestStartOfWeek(t *testing.T) {
	location := MustLoad("America/Toronto")
	for _, day := range []string{"2024-09-02", "2024-09-04", "2024-09-08"} {
		d, err := time.Parse(time.DateOnly, day)
		require.NoError(t, err)
		monday := StartOfWeek(d, location)
		assert.Equal(t, "2024-09-02 00:00", monday.Format("2006-01-02 15:04"), day)
		assert.Equal(t, time.Monday, monday.Weekday())
		assert.Equal(t, location, monday.Location())
	}
}

func TestAt(t *testing.T) {
	location := MustLoad("America/Toronto")
	monday := StartOfWeek(time.Date(2024, time.September, 3, 0, 0, 0, 0, time.UTC), location)

	start := At(monday, 8*60+35)
	assert.Equal(t, "2024-09-02T08:35:00-04:00", start.Format(time.RFC3339))
	assert.Equal(t, "2024-09-02T12:35:00Z", start.UTC().Format(time.RFC3339))
}

func TestIn(t *testing.T) {
	location := MustLoad("Europe/Stockholm")
	in := In(time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC), location)
	assert.Equal(t, "2024-01-01T10:00:00+01:00", in.Format(time.RFC3339))
}
