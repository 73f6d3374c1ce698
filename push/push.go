package push

import (
	"context"
	"encoding/json"

	"github.com/Luismorlan/newsreader/model"
	"github.com/Luismorlan/newsreader/store"
	. "github.com/Luismorlan/newsreader/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSubject = "mailto:example@example.com"
	DefaultTTL     = 30

	defaultTitle = "Breaking News"
	defaultBody  = "Tap to read"
	defaultURL   = "/"

	maxConcurrentSends = 16
)

var (
	ErrNotConfigured       = errors.New("Push not configured")
	ErrInvalidSubscription = errors.New("Invalid subscription")
)

type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subject    string
	TTLSeconds int
}

// Notification is the payload the service worker renders.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

func (n Notification) withDefaults() Notification {
	if n.Title == "" {
		n.Title = defaultTitle
	}
	if n.Body == "" {
		n.Body = defaultBody
	}
	if n.URL == "" {
		n.URL = defaultURL
	}
	return n
}

// Service manages subscriptions and relays broadcasts to them.
type Service struct {
	store  store.Store
	sender Sender
	vapid  VAPIDConfig
}

func NewService(s store.Store, sender Sender, vapid VAPIDConfig) *Service {
	if vapid.Subject == "" {
		vapid.Subject = DefaultSubject
	}
	if vapid.TTLSeconds <= 0 {
		vapid.TTLSeconds = DefaultTTL
	}
	return &Service{store: s, sender: sender, vapid: vapid}
}

func (s *Service) PublicKey() (string, error) {
	if s.vapid.PublicKey == "" {
		return "", ErrNotConfigured
	}
	return s.vapid.PublicKey, nil
}

func (s *Service) Subscribe(ctx context.Context, sub *model.PushSubscription) error {
	if sub == nil || sub.Endpoint == "" {
		return ErrInvalidSubscription
	}
	return s.store.SavePushSubscription(ctx, sub)
}

func (s *Service) Unsubscribe(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return nil
	}
	return s.store.DeletePushSubscription(ctx, endpoint)
}

// Broadcast sends n to every subscription concurrently and returns how many
// deliveries succeeded. A failed delivery never fails the broadcast.
// Subscriptions the push service reports as gone are removed.
func (s *Service) Broadcast(ctx context.Context, n Notification) (int, error) {
	if s.vapid.PublicKey == "" || s.vapid.PrivateKey == "" {
		return 0, ErrNotConfigured
	}

	payload, err := json.Marshal(n.withDefaults())
	if err != nil {
		return 0, errors.Wrap(err, "fail to encode notification")
	}

	subs, err := s.store.ListPushSubscriptions(ctx)
	if err != nil {
		return 0, err
	}

	results := make([]error, len(subs))
	var g errgroup.Group
	g.SetLimit(maxConcurrentSends)
	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			results[i] = s.sender.Send(ctx, sub, payload)
			return nil
		})
	}
	g.Wait()

	sent := 0
	for i, sendErr := range results {
		if sendErr == nil {
			sent++
			continue
		}
		logger := Log.WithError(sendErr).WithFields(logrus.Fields{"endpoint": subs[i].Endpoint})
		if !IsGone(sendErr) {
			logger.Warn("push delivery failed")
			continue
		}
		logger.Info("push subscription gone, removing")
		if err := s.store.DeletePushSubscription(ctx, subs[i].Endpoint); err != nil {
			logger.WithError(err).Error("fail to remove gone push subscription")
		}
	}
	return sent, nil
}
