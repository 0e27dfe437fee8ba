package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileTime_Time(t *testing.T) {
	// 2021-01-01 00:00:00 UTC in FILETIME, computed independently via the
	// well-known epoch offset of 116444736000000000 (100ns units).
	unix := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	ft := FileTime(uint64(unix)*10000000 + filetimeEpochOffset)

	got := ft.Time()
	assert.Equal(t, int64(2021), int64(got.Year()))
	assert.True(t, got.Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFileTime_ZeroIsEpoch(t *testing.T) {
	got := FileTime(0).Time()
	assert.Equal(t, time.Unix(0, 0).UTC(), got)
}
