package worker

import (
	"context"
	"log"
	"time"

	"gatehouse/internal/model"
	"gatehouse/internal/queue"
	"gatehouse/internal/repository"
)

// ApprovalWorker drains the approval queue on a fixed interval and applies
// decisions to the user store. It must be the queue's only consumer: peek,
// process and dequeue are separate steps with no claim protocol.
type ApprovalWorker struct {
	userRepo  repository.UserRepository
	queue     queue.ApprovalQueue
	interval  time.Duration
	batchSize int
}

// New creates an approval worker.
func New(userRepo repository.UserRepository, q queue.ApprovalQueue, interval time.Duration, batchSize int) *ApprovalWorker {
	return &ApprovalWorker{
		userRepo:  userRepo,
		queue:     q,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run polls the queue until the context is cancelled.
func (w *ApprovalWorker) Run(ctx context.Context) {
	log.Printf("approval worker started, polling %s every %s", queue.ApprovalQueueKey, w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("approval worker shutting down")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch peeks up to batchSize entries and applies them head to tail.
// An entry is popped only after its decision was applied; a failed entry is
// left on the queue and retried on a later tick, without bound.
func (w *ApprovalWorker) ProcessBatch(ctx context.Context) {
	entries, err := w.queue.PeekBatch(ctx, w.batchSize)
	if err != nil {
		log.Printf("queue processing error: %v", err)
		return
	}

	for _, entry := range entries {
		if err := w.apply(ctx, entry); err != nil {
			log.Printf("error processing entry for user %d: %v", entry.UserID, err)
			continue
		}

		if err := w.queue.DequeueHead(ctx); err != nil {
			log.Printf("dequeue error: %v", err)
			return
		}
	}
}

// apply re-applies the decision to the store. There is no precondition on
// the current status: a decision already applied synchronously lands on the
// same terminal state (last write wins).
func (w *ApprovalWorker) apply(ctx context.Context, entry queue.Entry) error {
	switch entry.Action {
	case queue.ActionApprove:
		if _, err := w.userRepo.UpdateStatus(ctx, entry.UserID, model.StatusApproved, entry.ApprovedBy); err != nil {
			return err
		}
		log.Printf("approved user %d", entry.UserID)
	case queue.ActionReject:
		if _, err := w.userRepo.UpdateStatus(ctx, entry.UserID, model.StatusRejected, entry.ApprovedBy); err != nil {
			return err
		}
		log.Printf("rejected user %d", entry.UserID)
	default:
		// Unknown actions are dropped rather than retried forever.
		log.Printf("unknown action %q for user %d, discarding", entry.Action, entry.UserID)
	}
	return nil
}
