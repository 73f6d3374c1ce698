package push

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Luismorlan/newsreader/model"
	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/pkg/errors"
)

// Sender delivers one encrypted payload to one subscription.
type Sender interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload []byte) error
}

// DeliveryError is returned when the push service rejects a message.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("push service responded %d: %s", e.StatusCode, e.Body)
}

// IsGone reports whether err means the subscription no longer exists and
// should be forgotten.
func IsGone(err error) bool {
	var deliveryErr *DeliveryError
	return errors.As(err, &deliveryErr) && deliveryErr.StatusCode == http.StatusGone
}

// WebPushSender signs requests with the server's VAPID keys.
type WebPushSender struct {
	vapid      VAPIDConfig
	httpClient *http.Client
}

func NewWebPushSender(vapid VAPIDConfig, httpClient *http.Client) *WebPushSender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if vapid.Subject == "" {
		vapid.Subject = DefaultSubject
	}
	if vapid.TTLSeconds <= 0 {
		vapid.TTLSeconds = DefaultTTL
	}
	return &WebPushSender{vapid: vapid, httpClient: httpClient}
}

func (s *WebPushSender) Send(ctx context.Context, sub *model.PushSubscription, payload []byte) error {
	res, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.httpClient,
		// The library adds the mailto: scheme to non-https subscribers.
		Subscriber:      strings.TrimPrefix(s.vapid.Subject, "mailto:"),
		VAPIDPublicKey:  s.vapid.PublicKey,
		VAPIDPrivateKey: s.vapid.PrivateKey,
		TTL:             s.vapid.TTLSeconds,
	})
	if err != nil {
		return errors.Wrap(err, "fail to send push notification")
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return &DeliveryError{StatusCode: res.StatusCode, Body: string(body)}
	}
	return nil
}
