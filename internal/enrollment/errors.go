package enrollment

import (
	"fmt"
	"strings"
)

// ErrNotEnrolled is returned when a user acts on a project they have not
// enrolled in.
type ErrNotEnrolled struct {
	UserID    int64
	ProjectID int64
}

func (e *ErrNotEnrolled) Error() string {
	return fmt.Sprintf("user %d is not enrolled in project %d", e.UserID, e.ProjectID)
}

// ErrTaskLocked is returned when a task with incomplete prerequisites is
// submitted or completed.
type ErrTaskLocked struct {
	TaskID  int64
	Pending []int64 // incomplete direct prerequisites
}

func (e *ErrTaskLocked) Error() string {
	ids := make([]string, len(e.Pending))
	for i, id := range e.Pending {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("task %d is locked: waiting on prerequisites %s", e.TaskID, strings.Join(ids, ", "))
}
