package service

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/dealerhub/outflow/internal/domain"
	"github.com/dealerhub/outflow/internal/logger"
)

// executionJob is one workflow execution queued for a record mutation.
type executionJob struct {
	workflow domain.WorkflowConfig
	record   domain.RecordSnapshot
}

// executeFunc runs one workflow execution to completion.
type executeFunc func(ctx context.Context, wf *domain.WorkflowConfig, record domain.RecordSnapshot)

// dispatchQueue decouples delivery from the record-mutation request path.
// Jobs are sharded by workflow ID onto per-worker channels, so executions of
// the same workflow are consumed serially while different workflows run
// concurrently.
type dispatchQueue struct {
	shards  []chan executionJob
	execute executeFunc
	wg      sync.WaitGroup
	once    sync.Once
}

// newDispatchQueue creates a queue with the given worker count and per-shard
// buffer size.
func newDispatchQueue(workers, queueSize int, execute executeFunc) *dispatchQueue {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	shards := make([]chan executionJob, workers)
	for i := range shards {
		shards[i] = make(chan executionJob, queueSize)
	}
	return &dispatchQueue{shards: shards, execute: execute}
}

// Start launches one worker goroutine per shard. Workers drain their shard
// until Stop closes it; ctx bounds the execution of individual jobs.
func (q *dispatchQueue) Start(ctx context.Context) {
	for i := range q.shards {
		q.wg.Add(1)
		go func(shard <-chan executionJob) {
			defer q.wg.Done()
			for job := range shard {
				q.execute(ctx, &job.workflow, job.record)
			}
		}(q.shards[i])
	}
}

// Stop closes all shards and waits for in-flight jobs to finish.
func (q *dispatchQueue) Stop() {
	q.once.Do(func() {
		for _, shard := range q.shards {
			close(shard)
		}
	})
	q.wg.Wait()
}

// Enqueue routes the job to its workflow's shard. Enqueueing never blocks
// the caller: when the shard is full the job is dropped with a warning
// (dispatch is best-effort by contract).
func (q *dispatchQueue) Enqueue(ctx context.Context, job executionJob) bool {
	shard := q.shards[shardIndex(job.workflow.ID, len(q.shards))]
	select {
	case shard <- job:
		return true
	default:
		logger.CtxWarn(ctx, "dispatch queue full, dropping execution for workflow %s", job.workflow.ID)
		return false
	}
}

func shardIndex(workflowID string, shards int) int {
	h := fnv.New32a()
	h.Write([]byte(workflowID))
	return int(h.Sum32() % uint32(shards))
}
