package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusCreated, StatusPending, true},
		{StatusCreated, StatusPaid, true},
		{StatusCreated, StatusFailed, true},
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusCanceled, true},

		// failed/canceled can only be overtaken by paid or refunded
		{StatusFailed, StatusPaid, true},
		{StatusCanceled, StatusPaid, true},
		{StatusFailed, StatusRefunded, true},
		{StatusFailed, StatusCanceled, false},
		{StatusCanceled, StatusFailed, false},
		{StatusFailed, StatusPending, false},

		// paid is settled: only refunded may follow
		{StatusPaid, StatusRefunded, true},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusFailed, false},
		{StatusPaid, StatusCanceled, false},
		{StatusPaid, StatusCreated, false},

		// refunded is final
		{StatusRefunded, StatusPaid, false},
		{StatusRefunded, StatusPending, false},

		// duplicates are no-ops
		{StatusPending, StatusPending, false},
		{StatusPaid, StatusPaid, false},

		// regressions never apply
		{StatusPending, StatusCreated, false},

		// unknown statuses never apply
		{StatusPending, Status("approved"), false},
		{Status(""), StatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusCreated, StatusPending, StatusPaid, StatusFailed, StatusCanceled, StatusRefunded} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("approved").Valid())
	assert.False(t, Status("").Valid())
}
