/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

// ErrWebhookStatus is returned when a webhook endpoint answers with a
// non-2xx status.
var ErrWebhookStatus = errors.New("webhook returned error status")

// WebhookSender POSTs the notification message as JSON to every configured
// operator endpoint. Endpoint failures are independent; the joined error
// reports all of them.
type WebhookSender struct {
	client  *resty.Client
	targets []models.WebhookTarget
	logger  logger.Logger
}

var _ Sender = (*WebhookSender)(nil)

// NewWebhookSender creates the webhook channel from config.
func NewWebhookSender(config models.NotifyConfig, log logger.Logger) *WebhookSender {
	config.Normalize()

	client := resty.New().
		SetTimeout(time.Duration(config.ChannelTimeout)).
		SetHeader("Content-Type", "application/json")

	return &WebhookSender{
		client:  client,
		targets: config.Webhooks,
		logger:  log,
	}
}

func (s *WebhookSender) Channel() models.Channel { return models.ChannelWebhook }

func (s *WebhookSender) Send(ctx context.Context, msg *models.NotificationMessage) error {
	var errs []error

	for _, target := range s.targets {
		req := s.client.R().
			SetContext(ctx).
			SetBody(msg)

		for k, v := range target.Headers {
			req.SetHeader(k, v)
		}

		resp, err := req.Post(target.URL)
		if err != nil {
			errs = append(errs, fmt.Errorf("webhook %s: %w", target.URL, err))
			continue
		}

		if resp.IsError() {
			errs = append(errs, fmt.Errorf("webhook %s answered %s: %w", target.URL, resp.Status(), ErrWebhookStatus))
			continue
		}

		s.logger.Debug().
			Str("url", target.URL).
			Str("message_id", msg.ID).
			Msg("Webhook delivered")
	}

	return errors.Join(errs...)
}
