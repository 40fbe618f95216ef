package dashboard

import (
	"strings"

	"github.com/turtacn/ProjectPulse/internal/domain/board"
	"github.com/turtacn/ProjectPulse/pkg/errors"
	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

// BoardQuery is a project board request as it arrives from a transport:
// every field is the raw user-supplied string.
type BoardQuery struct {
	Search     string `json:"search,omitempty" validate:"max=200"`
	ProjectID  string `json:"project_id,omitempty" validate:"max=128"`
	Employee   string `json:"employee,omitempty" validate:"max=128"`
	Status     string `json:"status,omitempty" validate:"max=64"`
	Completion string `json:"completion,omitempty" validate:"max=16"`
	Priority   string `json:"priority,omitempty" validate:"max=16"`
	Sort       string `json:"sort,omitempty" validate:"max=32"`
	Order      string `json:"order,omitempty" validate:"max=8"`
}

// TaskQuery is a member's task board request.
type TaskQuery struct {
	BoardQuery
	AssigneeID string `json:"assignee,omitempty" validate:"max=128"`
}

func (q BoardQuery) criteria() board.Criteria {
	return board.Criteria{
		Search:            strings.TrimSpace(q.Search),
		ProjectID:         strings.TrimSpace(q.ProjectID),
		EmployeeSubstring: strings.TrimSpace(q.Employee),
		Status:            strings.TrimSpace(q.Status),
		CompletionBucket:  strings.TrimSpace(q.Completion),
		Priority:          strings.ToLower(strings.TrimSpace(q.Priority)),
	}
}

// resolve turns q into an engine query, falling back to the given defaults
// for blank sort settings.
func (q BoardQuery) resolve(defField board.SortField, defOrder common.SortOrder) (board.Query, error) {
	field, err := board.ParseSortField(q.Sort, defField)
	if err != nil {
		return board.Query{}, errors.Wrap(err, errors.ErrCodeSortFieldInvalid, "unsupported sort field").
			WithDetail("sort must be one of: completion, deadline")
	}
	order, err := common.ParseSortOrder(q.Order, defOrder)
	if err != nil {
		return board.Query{}, errors.Wrap(err, errors.ErrCodeSortOrderInvalid, "unsupported sort order").
			WithDetail("order must be one of: asc, desc")
	}
	return board.Query{Criteria: q.criteria(), SortField: field, SortOrder: order}, nil
}

//Personal.AI order the ending
