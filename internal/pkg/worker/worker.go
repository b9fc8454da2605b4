package worker

import (
	"log"
	"time"

	"senpai_store/internal/pkg/mailer"
)

// EmailTask is one queued transactional email. Mail never blocks the request
// path; order creation and webhook handling enqueue and move on.
type EmailTask struct {
	To      string
	Subject string
	Body    string
	OrderID string
	Retry   int
}

// WorkerPool drains the email queue with bounded concurrency and a retry
// queue for transient SendGrid failures.
type WorkerPool struct {
	TaskQueue  chan EmailTask
	RetryQueue chan EmailTask
	Mailer     mailer.Mailer
	WorkerNum  int
	MaxRetry   int
}

func NewWorkerPool(m mailer.Mailer, workerNum int, bufferSize int) *WorkerPool {
	return &WorkerPool{
		TaskQueue:  make(chan EmailTask, bufferSize),
		RetryQueue: make(chan EmailTask, bufferSize/2),
		Mailer:     m,
		WorkerNum:  workerNum,
		MaxRetry:   3,
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	go p.retryWorker()
	log.Printf("Email worker pool started with %d workers", p.WorkerNum)
}

func (p *WorkerPool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.Mailer.Send(task.To, task.Subject, task.Body); err != nil {
			log.Printf("[Worker %d] Failed to send email (Order: %s, To: %s): %v",
				id, task.OrderID, task.To, err)

			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
					log.Printf("[Worker %d] Email re-queued (attempt %d/%d)",
						id, task.Retry, p.MaxRetry)
				default:
					log.Printf("[Worker %d] Retry queue full, email dropped: %+v", id, task)
					p.logFailedTask(task, err)
				}
			} else {
				log.Printf("[Worker %d] Email exceeded max retries, dropped: %+v", id, task)
				p.logFailedTask(task, err)
			}
		}
	}
}

func (p *WorkerPool) retryWorker() {
	for task := range p.RetryQueue {
		// Back off before re-queueing.
		time.Sleep(time.Duration(task.Retry) * time.Second)

		select {
		case p.TaskQueue <- task:
			log.Printf("[RetryWorker] Email re-queued (attempt %d/%d)", task.Retry, p.MaxRetry)
		default:
			log.Printf("[RetryWorker] Main queue full, email dropped: %+v", task)
			p.logFailedTask(task, nil)
		}
	}
}

func (p *WorkerPool) logFailedTask(task EmailTask, err error) {
	// A dropped confirmation mail is an annoyance, not a data-loss event, so
	// a log line is the dead-letter store.
	log.Printf("[DeadLetter] Email failed permanently: Order=%s, To=%s, Error=%v",
		task.OrderID, task.To, err)
}

// GlobalPool is set at startup when mail is configured; callers must
// nil-check before enqueueing.
var GlobalPool *WorkerPool

func (p *WorkerPool) AddTask(task EmailTask) {
	select {
	case p.TaskQueue <- task:
	default:
		log.Printf("Email queue full, dropping task: %+v", task)
		p.logFailedTask(task, nil)
	}
}
