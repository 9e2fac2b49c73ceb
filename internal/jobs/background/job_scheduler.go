package background

import (
	"context"
	"log"
	"time"

	"bookmart/internal/jobs"
	"bookmart/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// How far ahead the reminder job looks for expiring subscriptions.
const renewalReminderWindow = 3 * 24 * time.Hour

// JobScheduler runs periodic maintenance for the store: currently a daily
// sweep that enqueues renewal reminders for subscriptions about to lapse.
type JobScheduler struct {
	scheduler        gocron.Scheduler
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	enqueuer         *jobs.AsynqEnqueuer
}

func NewJobScheduler(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	enqueuer *jobs.AsynqEnqueuer,
) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:        scheduler,
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		enqueuer:         enqueuer,
	}

	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	_, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(8, 0, 0))),
		gocron.NewTask(js.sendRenewalReminders, context.Background()),
		gocron.WithName("subscription-renewal-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

func (js *JobScheduler) sendRenewalReminders(ctx context.Context) {
	cutoff := time.Now().Add(renewalReminderWindow)
	expiring, err := js.subscriptionRepo.ListExpiringBefore(ctx, cutoff)
	if err != nil {
		log.Printf("renewal reminder sweep failed: %v", err)
		return
	}

	for _, subscription := range expiring {
		user, err := js.userRepo.GetByID(ctx, subscription.UserID)
		if err != nil {
			log.Printf("renewal reminder: failed to load user %s: %v", subscription.UserID, err)
			continue
		}
		if user == nil {
			log.Printf("renewal reminder: user %s no longer exists", subscription.UserID)
			continue
		}

		payload := jobs.RenewalEmailPayload{
			Email:    user.Email,
			Username: user.Username,
			EndDate:  subscription.EndDate,
		}
		if err := js.enqueuer.EnqueueRenewalReminder(ctx, payload); err != nil {
			log.Printf("renewal reminder: failed to enqueue for %s: %v", user.Email, err)
		}
	}

	log.Printf("renewal reminder sweep finished: %d subscriptions expiring before %s", len(expiring), cutoff.Format(time.RFC3339))
}
