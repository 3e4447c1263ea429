package ports

import "context"

// PostCountReconciler repairs a board's denormalised post_count. It returns
// the drift that was corrected (stored minus actual).
type PostCountReconciler interface {
	Reconcile(ctx context.Context, boardID int64) (drift int64, err error)
}
