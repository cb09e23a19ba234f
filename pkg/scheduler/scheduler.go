package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"loft-shop/pkg/logger"
)

// EventScheduler รันงานเก็บกวาดตาม cron (cart sweeper)
type EventScheduler interface {
	Start()
	Stop()
	AddJob(id, cronExpr string, task func()) error
	IsRunning() bool
}

type GocronScheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*gocron.Job
	mu        sync.Mutex
	running   bool
}

func NewEventScheduler() EventScheduler {
	scheduler := gocron.NewScheduler(time.UTC)
	// งานเดิมยังไม่จบ รอบถัดไปข้าม
	scheduler.SingletonModeAll()

	return &GocronScheduler{
		scheduler: scheduler,
		jobs:      make(map[string]*gocron.Job),
	}
}

func (s *GocronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		logger.Warn("Scheduler is already running")
		return
	}

	s.scheduler.StartAsync()
	s.running = true
	logger.Info("Event scheduler started", "jobs", len(s.jobs))
}

func (s *GocronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.scheduler.Stop()
	s.running = false
	logger.Info("Event scheduler stopped")
}

func (s *GocronScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// AddJob ลงทะเบียนงาน id ซ้ำหรือ cron ผิดรูปแบบคืน error
func (s *GocronScheduler) AddJob(id, cronExpr string, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job with ID %s already exists", id)
	}

	job, err := s.scheduler.Cron(cronExpr).Tag(id).Do(func() {
		runJob(id, task)
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression for job %s: %w", id, err)
	}
	s.jobs[id] = job

	logger.Info("Job added", "job_id", id, "cron", cronExpr, "next_run", job.NextRun().Format(time.RFC3339))
	return nil
}

// runJob panic ในงานหนึ่งไม่ทำให้ scheduler ล้ม
func runJob(id string, task func()) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job_id", id, "panic", r)
			return
		}
		logger.Debug("Job finished", "job_id", id, "duration", time.Since(started))
	}()
	task()
}
