package types_test

import (
	"testing"

	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestParsePriority(t *testing.T) {
	for _, p := range types.AllPriorities() {
		parsed, err := types.ParsePriority(p.String())
		gt.NoError(t, err).Required()
		gt.Value(t, parsed).Equal(p)
	}

	_, err := types.ParsePriority("URGENT")
	gt.Error(t, err)
}

func TestPriority_Normalize(t *testing.T) {
	gt.Value(t, types.Priority("").Normalize()).Equal(types.PriorityMedium)
	gt.Value(t, types.PriorityHigh.Normalize()).Equal(types.PriorityHigh)
}

func TestParseTodoStatus(t *testing.T) {
	for _, s := range types.AllTodoStatuses() {
		parsed, err := types.ParseTodoStatus(s.String())
		gt.NoError(t, err).Required()
		gt.Value(t, parsed).Equal(s)
	}

	_, err := types.ParseTodoStatus("not_started")
	gt.Error(t, err)
}
