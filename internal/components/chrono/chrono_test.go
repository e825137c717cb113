package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardImplLocation(t *testing.T) {
	now := StandardImpl{}.Now()
	require.Equal(t, "Asia/Shanghai", now.Location().String())

	_, offset := now.Zone()
	require.Equal(t, 8*60*60, offset)
}

func TestFixed(t *testing.T) {
	instant := time.Date(2024, 9, 2, 8, 30, 0, 0, Campus())
	clock := Fixed(instant)
	require.True(t, instant.Equal(clock.Now()))
	require.True(t, instant.Equal(clock.Now()))
}
