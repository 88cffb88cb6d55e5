package sqlxrepos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/registration"
	"github.com/trezcool/courseportal/core/schedule"
)

func Test_cartRow(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	t.Run("draft cart stores NULL timestamps", func(t *testing.T) {
		row, err := newCartRow(registration.Cart{StudentID: "s1", Status: registration.StatusDraft, UpdatedAt: now})
		require.NoError(t, err)
		assert.Equal(t, "[]", string(row.Sections))
		assert.False(t, row.SubmittedAt.Valid)
		assert.False(t, row.ReviewedAt.Valid)

		cart, err := row.cart()
		require.NoError(t, err)
		assert.NotNil(t, cart.Sections)
		assert.Nil(t, cart.SubmittedAt)
	})

	t.Run("pending cart keeps its sections", func(t *testing.T) {
		sel := schedule.Selection{{ID: "c1", Code: "CS301", Day: schedule.Mon, StartMinute: 540, EndMinute: 630, Credits: 4}}
		orig := registration.Cart{
			StudentID:   "s2",
			Sections:    sel,
			Status:      registration.StatusPending,
			Reference:   "ref",
			SubmittedAt: &now,
			UpdatedAt:   now,
		}
		row, err := newCartRow(orig)
		require.NoError(t, err)
		assert.True(t, row.SubmittedAt.Valid)

		cart, err := row.cart()
		require.NoError(t, err)
		assert.Equal(t, orig, cart)
	})

	t.Run("corrupt sections", func(t *testing.T) {
		_, err := cartRow{StudentID: "s3", Sections: []byte("{")}.cart()
		require.Error(t, err)
		assert.True(t, core.IsShutdown(err))
	})
}
