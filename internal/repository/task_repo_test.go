package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskhub/internal/model"
)

func TestAssembleStats(t *testing.T) {
	// Five tasks: two done, three pending, one of the pending overdue.
	stats := assembleStats(5, 2, 1, []priorityCount{
		{priority: model.PriorityLow, count: 1},
		{priority: model.PriorityNormal, count: 2},
		{priority: model.PriorityHigh, count: 2},
	})

	assert.Equal(t, &model.TaskStats{
		Total:     5,
		Completed: 2,
		Pending:   3,
		Overdue:   1,
		ByPriority: model.PriorityBreakdown{
			Low:    1,
			Normal: 2,
			High:   2,
		},
	}, stats)
}

func TestAssembleStatsIgnoresUnknownPriorities(t *testing.T) {
	stats := assembleStats(3, 0, 0, []priorityCount{
		{priority: model.PriorityHigh, count: 2},
		{priority: 7, count: 1},
	})

	// The stray priority stays in the total but not in the breakdown.
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, model.PriorityBreakdown{High: 2}, stats.ByPriority)
}

func TestAssembleStatsEmpty(t *testing.T) {
	stats := assembleStats(0, 0, 0, nil)

	assert.Equal(t, &model.TaskStats{}, stats)
}
