package notify

import (
	"context"
	"errors"
	"strings"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

type Notifier interface {
	Notify(ctx context.Context, run *models.RunRecord) error
}

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, run *models.RunRecord) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// status maps a run's terminal state onto the notification status.
func status(run *models.RunRecord) string {
	switch run.State {
	case models.StateDone:
		if run.ExternalPostID == "" {
			return "dry_run"
		}
		return "success"
	case models.StateRejected:
		return "rejected"
	default:
		return "failed"
	}
}

func subject(run *models.RunRecord) string {
	switch status(run) {
	case "success":
		return "LinkedIn Post Successful"
	case "rejected":
		return "LinkedIn Post Rejected"
	case "dry_run":
		return "LinkedIn Post Dry Run"
	default:
		return "LinkedIn Post Failed"
	}
}

// postText renders the run's post the way it was (or would have been) shared.
func postText(run *models.RunRecord) string {
	if len(run.Hashtags) == 0 {
		return run.Body
	}
	return run.Body + "\n\n" + strings.Join(run.Hashtags, " ")
}
