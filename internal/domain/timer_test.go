package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerState_Status(t *testing.T) {
	start := testNow
	cases := []struct {
		name  string
		state TimerState
		want  TimerStatus
	}{
		{"idle", NewIdleTimer(testNow), TimerIdle},
		{"running", TimerState{TaskID: "t", IsRunning: true, StartTime: &start}, TimerRunning},
		{"paused", TimerState{TaskID: "t", TotalElapsed: time.Minute}, TimerPaused},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.state.Status())
			assert.True(t, tc.state.Consistent())
		})
	}
}

func TestTimerState_Consistent(t *testing.T) {
	assert.False(t, TimerState{IsRunning: true}.Consistent(), "running without task or start")
	assert.False(t, TimerState{IsRunning: true, TaskID: "t"}.Consistent(), "running without start")
}

func TestEntryPatch_Apply(t *testing.T) {
	e := &TimeEntry{Description: "old", Category: "Testing", UpdatedAt: testNow.Add(-time.Hour)}
	desc := "new"
	EntryPatch{Description: &desc}.Apply(e, testNow)

	assert.Equal(t, "new", e.Description)
	assert.Equal(t, "Testing", e.Category, "nil fields are left untouched")
	assert.Equal(t, testNow, e.UpdatedAt)
	assert.True(t, EntryPatch{}.IsEmpty())
}

func TestTimeEntry_CategoryOrDefault(t *testing.T) {
	assert.Equal(t, UncategorizedLabel, (&TimeEntry{}).CategoryOrDefault())
	assert.Equal(t, "Review", (&TimeEntry{Category: "Review"}).CategoryOrDefault())
}
