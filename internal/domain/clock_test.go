package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestToday(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.June, 1, 18, 45, 0, 0, time.UTC)))
	defer SetClock(nil)

	assert.Equal(t, june1, Today())
	assert.Equal(t, time.Date(2024, time.June, 1, 18, 45, 0, 0, time.UTC), Now())
}
