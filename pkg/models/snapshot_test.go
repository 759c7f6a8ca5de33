package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batteryField(s *Snapshot) **Battery { return &s.Battery }

func TestFillOnce(t *testing.T) {
	s := NewSnapshot(Kernel{Name: "Linux"})
	require.NoError(t, Fill(s, batteryField, &Battery{Capacity: 80}))
	assert.ErrorIs(t, Fill(s, batteryField, &Battery{Capacity: 10}), ErrSlotFilled)
	assert.Equal(t, 80, s.Battery.Capacity)
}

func TestFillAfterFreeze(t *testing.T) {
	s := NewSnapshot(Kernel{Name: "Linux"})
	s.Freeze()
	assert.True(t, s.Frozen())
	assert.ErrorIs(t, Fill(s, batteryField, &Battery{}), ErrSnapshotFrozen)
	assert.Nil(t, s.Battery)
}

func TestCommandRecorder(t *testing.T) {
	var r CommandRecorder
	args := []string{"-mm"}
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r.Log("id-1", "lspci", args, start, start.Add(1500*time.Microsecond), 0, nil, "", "")
	args[0] = "mutated"

	entries := r.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"-mm"}, entries[0].Arguments)
	assert.Equal(t, "1.5ms", entries[0].Duration)
	assert.Empty(t, entries[0].ErrorMessage)
}
