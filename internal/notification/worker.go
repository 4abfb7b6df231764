package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"apnagate-backend/internal/realtime"
	"apnagate-backend/internal/store"
)

// VisitorArrival is one fan-out job: a PIN was generated for a visitor and
// the resident must be told. The visitor log row is already committed by
// the time a job is dispatched; nothing here can roll it back.
type VisitorArrival struct {
	FlatNumber         string
	VisitorPhoneNumber string
	PinCode            string
}

// PushSender delivers a push message to a resident's device token.
type PushSender interface {
	Send(ctx context.Context, destinationToken, title, body string) error
}

// WebPushSender delivers a browser web push notification.
type WebPushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// webPushSender is the real implementation using the webpush library.
type webPushSender struct{}

func (webPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Broadcaster fans an event out to all connected realtime clients.
type Broadcaster interface {
	Broadcast(event string, data any)
}

// WorkerPool manages a pool of workers delivering visitor notifications.
// Every delivery leg is best effort: failures are logged, never surfaced.
type WorkerPool struct {
	size        int
	jobs        chan VisitorArrival
	store       store.Store
	push        PushSender
	webPush     WebPushSender
	webPushOpts *webpush.Options
	broadcaster Broadcaster
}

// NewWorkerPool creates a worker pool with a bounded job queue.
func NewWorkerPool(size, queueSize int, s store.Store, push PushSender, webPushOpts *webpush.Options, b Broadcaster) *WorkerPool {
	return &WorkerPool{
		size:        size,
		jobs:        make(chan VisitorArrival, queueSize),
		store:       s,
		push:        push,
		webPush:     webPushSender{},
		webPushOpts: webPushOpts,
		broadcaster: b,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.process(ctx, job)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a job without blocking the caller. When the queue is full
// the job is dropped and logged; the PIN itself is already committed.
func (wp *WorkerPool) Dispatch(job VisitorArrival) {
	select {
	case wp.jobs <- job:
	default:
		log.Printf("notification queue full, dropping alert for flat %s", job.FlatNumber)
	}
}

// process performs the fan-out for one visitor arrival: device push, browser
// push, and the realtime broadcast. Each leg is independent.
func (wp *WorkerPool) process(ctx context.Context, job VisitorArrival) {
	title := "Visitor at the Gate!"
	body := fmt.Sprintf("A visitor is at the gate. The PIN is %s.", job.PinCode)

	resident, err := wp.store.ResidentByFlat(ctx, job.FlatNumber)
	if err != nil {
		log.Printf("notification: fetch resident for flat %s: %v", job.FlatNumber, err)
	} else if resident.FCMToken != "" {
		if err := wp.push.Send(ctx, resident.FCMToken, title, body); err != nil {
			log.Printf("notification: push to flat %s: %v", job.FlatNumber, err)
		}
	}

	wp.sendWebPush(ctx, job.FlatNumber, []byte(body))

	if wp.broadcaster != nil {
		wp.broadcaster.Broadcast(realtime.EventNewVisitorAlert, realtime.VisitorAlert{
			FlatNumber:         job.FlatNumber,
			VisitorPhoneNumber: job.VisitorPhoneNumber,
			PinCode:            job.PinCode,
		})
	}
}

// sendWebPush notifies every browser subscription registered for the flat,
// deleting subscriptions the push service reports as gone.
func (wp *WorkerPool) sendWebPush(ctx context.Context, flatNumber string, payload []byte) {
	if wp.webPushOpts == nil || wp.webPushOpts.VAPIDPrivateKey == "" {
		return
	}

	subs, err := wp.store.PushSubscriptionsByFlat(ctx, flatNumber)
	if err != nil {
		log.Printf("notification: fetch subscriptions for flat %s: %v", flatNumber, err)
		return
	}

	for _, sub := range subs {
		wpSub := &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256DH,
				Auth:   sub.Auth,
			},
		}

		resp, err := wp.webPush.Send(payload, wpSub, wp.webPushOpts)
		if err != nil {
			log.Printf("notification: web push to %s: %v", sub.Endpoint, err)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusGone {
			log.Printf("notification: subscription %s expired, deleting", sub.Endpoint)
			if err := wp.store.DeletePushSubscription(ctx, sub.Endpoint); err != nil {
				log.Printf("notification: delete expired subscription %s: %v", sub.Endpoint, err)
			}
		}
	}
}
