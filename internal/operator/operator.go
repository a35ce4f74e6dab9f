package operator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/phatch9/Financial-Cloud-Management/internal/operator/actions"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage *storage.Storage
	queue   chan ActionItem
}

func NewOperator(s *storage.Storage, queue chan ActionItem) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	// The caller already gave up; nothing would read the result.
	if err := item.ctx.Err(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		item.response <- ActionItemResponse{err: fmt.Errorf("storage.Write: %w", err)}
		return
	}

	err = perform(item.ctx, item.action, writer)
	if err != nil {
		if rbErr := writer.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).WithField("action", fmt.Sprintf("%T", item.action)).Error("Operator.Rollback")
		}
		item.response <- ActionItemResponse{err: err}
		return
	}

	if err = writer.Commit(); err != nil {
		item.response <- ActionItemResponse{err: fmt.Errorf("writer.Commit: %w", err)}
		return
	}

	item.response <- ActionItemResponse{}
}

// perform turns a panicking action into an error so the worker and the
// open store transaction both survive it.
func perform(ctx context.Context, action actions.IAction, writer *storage.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action %T panicked: %v", action, r)
		}
	}()
	return action.Perform(ctx, writer)
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
