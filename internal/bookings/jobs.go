package bookings

import (
	"context"
	"log"
	"time"
)

// FlightCompleter closes out flights whose departure has passed. Implemented
// by the flights service and injected so the job settles both sides of the
// ledger on each tick.
type FlightCompleter interface {
	CompleteDepartedFlights(now time.Time) (int, error)
}

// JobProcessor runs the booking reconciliation job: confirmed bookings on
// flights that have already departed are promoted to COMPLETED, and the
// departed flights themselves are closed out.
type JobProcessor struct {
	service         Service
	flightCompleter FlightCompleter
	config          *JobConfig
	done            chan struct{}
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	CompletionInterval time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		CompletionInterval: 10 * time.Minute,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		service: service,
		config:  config,
		done:    make(chan struct{}),
	}
}

// SetFlightCompleter injects the flight-side completion step
func (jp *JobProcessor) SetFlightCompleter(completer FlightCompleter) {
	jp.flightCompleter = completer
}

// Start starts all background jobs
func (jp *JobProcessor) Start(ctx context.Context) {
	log.Println("Starting booking background jobs...")
	go jp.startCompletionProcessor(ctx)
	log.Println("Booking background jobs started")
}

// Stop stops all background jobs
func (jp *JobProcessor) Stop() {
	log.Println("Stopping booking background jobs...")
	close(jp.done)
	log.Println("Booking background jobs stopped")
}

// startCompletionProcessor periodically reconciles bookings on departed flights
func (jp *JobProcessor) startCompletionProcessor(ctx context.Context) {
	ticker := time.NewTicker(jp.config.CompletionInterval)
	defer ticker.Stop()

	log.Printf("Started booking completion processor with %v interval", jp.config.CompletionInterval)

	// Run immediately on startup
	jp.runCompletionPass(ctx)

	for {
		select {
		case <-ticker.C:
			jp.runCompletionPass(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// runCompletionPass settles bookings first so a flight is only closed out
// after its confirmed bookings were promoted.
func (jp *JobProcessor) runCompletionPass(ctx context.Context) {
	jp.completeDepartedBookings(ctx)
	jp.completeDepartedFlights()
}

func (jp *JobProcessor) completeDepartedBookings(ctx context.Context) {
	completed, err := jp.service.CompleteDepartedBookings(ctx)
	if err != nil {
		log.Printf("Error completing departed bookings: %v", err)
		return
	}

	if completed > 0 {
		log.Printf("Completed %d bookings on departed flights", completed)
	}
}

func (jp *JobProcessor) completeDepartedFlights() {
	if jp.flightCompleter == nil {
		return
	}

	completed, err := jp.flightCompleter.CompleteDepartedFlights(time.Now())
	if err != nil {
		log.Printf("Error completing departed flights: %v", err)
		return
	}

	if completed > 0 {
		log.Printf("Marked %d departed flights as completed", completed)
	}
}

// GetJobStatus returns the status of background jobs
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	return map[string]interface{}{
		"completion_interval": jp.config.CompletionInterval.String(),
		"status":              "running",
	}
}
