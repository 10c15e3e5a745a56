package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	at := time.Date(2023, time.November, 4, 9, 5, 7, 0, time.UTC)

	tests := []struct {
		tag  string
		want string
	}{
		{"es-ES", "4/11/2023, 9:05:07"},
		{"en-US", "11/4/2023, 9:05:07 AM"},
		{"de-DE", "4.11.2023, 09:05:07"},
		{"ja-JP", "2023-11-04 09:05:07"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			f, err := New(tt.tag, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.FormatTime(at))
		})
	}
}

func TestFormatTime_UsesZone(t *testing.T) {
	madrid := time.FixedZone("CET", 3600)
	f := MustNew("es-ES", madrid)
	at := time.Date(2024, time.January, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "1/2/2024, 0:30:00", f.FormatTime(at))
}

func TestFormatTime_SpanishHourUnpadded(t *testing.T) {
	f := MustNew("es-ES", time.UTC)
	assert.Equal(t, "14/11/2023, 23:13:20", f.FormatTime(time.Date(2023, time.November, 14, 23, 13, 20, 0, time.UTC)))
	assert.Equal(t, "14/11/2023, 10:00:09", f.FormatTime(time.Date(2023, time.November, 14, 10, 0, 9, 0, time.UTC)))
	assert.Equal(t, "1/1/2024, 7:01:02", f.FormatTime(time.Date(2024, time.January, 1, 7, 1, 2, 0, time.UTC)))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12.345 €", MustNew("es-ES", nil).FormatAmount(12345))
	assert.Equal(t, "12,345 €", MustNew("en-US", nil).FormatAmount(12345))
	assert.Equal(t, "90 €", MustNew("es-ES", nil).FormatAmount(90))
}

func TestNew_RejectsGarbage(t *testing.T) {
	_, err := New("not a tag!!", nil)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNew("not a tag!!", nil) })
}
