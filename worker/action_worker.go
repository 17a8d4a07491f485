package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"dropin-checkout-api/queue"
)

const requestTimeout = 30 * time.Second

// ExecutionTracker observes the on-submit action's executing flag. The
// lifecycle bridge uses the transitions to keep the progress indicator
// visible for exactly as long as the host action runs.
type ExecutionTracker interface {
	ActionStarted(sessionID, hook string)
	ActionFinished(sessionID, hook string)
}

// Worker delivers host action hook jobs as webhook POSTs to the callback
// URLs configured on each checkout session.
type Worker struct {
	queue     *queue.Queue
	tracker   ExecutionTracker
	client    *http.Client
	shutdown  chan struct{}
	isRunning bool
}

func NewWorker(q *queue.Queue, tracker ExecutionTracker) *Worker {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Worker{
		queue:   q,
		tracker: tracker,
		client: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
		shutdown: make(chan struct{}),
	}
}

// Start begins processing jobs.
func (w *Worker) Start(concurrency int) {
	w.isRunning = true

	for i := 0; i < concurrency; i++ {
		go w.processJobs(i)
	}
	go w.promoteDelayedJobs()

	log.Printf("Started %d worker goroutines", concurrency)
}

// Stop signals the worker to stop processing jobs.
func (w *Worker) Stop() {
	if !w.isRunning {
		return
	}

	log.Println("Stopping worker...")
	close(w.shutdown)
	w.isRunning = false
}

// processJobs continuously processes jobs from the queue.
func (w *Worker) processJobs(workerID int) {
	log.Printf("Worker %d starting", workerID)

	for {
		select {
		case <-w.shutdown:
			log.Printf("Worker %d shutting down", workerID)
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			job, err := w.queue.Dequeue(ctx, 5*time.Second)
			cancel()

			if err != nil {
				log.Printf("Worker %d: Error dequeuing job: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}

			if job == nil {
				time.Sleep(100 * time.Millisecond)
				continue
			}

			log.Printf("Worker %d processing job %s of type %s", workerID, job.ID, job.Type)

			jobErr := w.processJob(job)
			if jobErr != nil {
				log.Printf("Worker %d: Error processing job %s: %v", workerID, job.ID, jobErr)

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				failErr := w.queue.FailJob(ctx, job, jobErr)
				cancel()

				if failErr != nil {
					log.Printf("Worker %d: Error marking job %s as failed: %v", workerID, job.ID, failErr)
				}

				time.Sleep(time.Second)
				continue
			}

			ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			completeErr := w.queue.CompleteJob(ctx, job)
			cancel()

			if completeErr != nil {
				log.Printf("Worker %d: Error marking job %s as complete: %v", workerID, job.ID, completeErr)
			}
		}
	}
}

// promoteDelayedJobs periodically moves due retries back onto the main
// queue.
func (w *Worker) promoteDelayedJobs() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := w.queue.ProcessDelayedJobs(ctx); err != nil {
				log.Printf("Error promoting delayed jobs: %v", err)
			}
			cancel()
		}
	}
}

func (w *Worker) processJob(job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeActionHook:
		return w.processActionHook(job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// processActionHook POSTs the hook payload to the host callback URL. Any
// non-2xx response counts as a failed delivery and goes through the retry
// path.
func (w *Worker) processActionHook(job *queue.Job) error {
	sessionID, ok := job.Data["session_id"].(string)
	if !ok || sessionID == "" {
		return fmt.Errorf("invalid session_id in job data")
	}
	hook, ok := job.Data["hook"].(string)
	if !ok || hook == "" {
		return fmt.Errorf("invalid hook in job data")
	}
	url, ok := job.Data["url"].(string)
	if !ok || url == "" {
		return fmt.Errorf("invalid url in job data")
	}

	if w.tracker != nil {
		w.tracker.ActionStarted(sessionID, hook)
		defer w.tracker.ActionFinished(sessionID, hook)
	}

	body := map[string]interface{}{
		"sessionId": sessionID,
		"hook":      hook,
	}
	if payload, ok := job.Data["payload"]; ok {
		body["payload"] = payload
	}

	jsonPayload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshaling hook payload: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("error creating hook request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("error delivering hook %s for session %s: %v", hook, sessionID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("hook %s for session %s returned status %d", hook, sessionID, resp.StatusCode)
	}

	log.Printf("Delivered hook %s for session %s", hook, sessionID)
	return nil
}
