package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/quantlab/feargreed/internal/contracts"
	"github.com/quantlab/feargreed/pkg/httputil"
	"github.com/quantlab/feargreed/pkg/logger"
)

// FeishuNotifier pushes interactive-card messages to a Feishu bot webhook.
// An empty webhook URL disables delivery entirely.
type FeishuNotifier struct {
	webhookURL string
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewFeishuNotifier creates a webhook notifier
func NewFeishuNotifier(webhookURL string, httpClient *httputil.Client, log *logger.Logger) *FeishuNotifier {
	return &FeishuNotifier{
		webhookURL: webhookURL,
		// Notification delivery is fire-and-forget; a failed push is
		// logged by the caller, never retried.
		httpClient: httpClient.DisableRetry(),
		logger:     log.WithComponent("notify"),
	}
}

// Send delivers one notification as an interactive card.
func (n *FeishuNotifier) Send(ctx context.Context, msg contracts.Notification) error {
	if n.webhookURL == "" {
		n.logger.Debug("webhook not configured, skipping notification")
		return nil
	}

	template := msg.Template
	if template == "" {
		template = "purple"
	}

	elements := []map[string]interface{}{
		{
			"tag":  "div",
			"text": map[string]string{"tag": "lark_md", "content": msg.Body},
		},
	}
	if msg.Note != "" {
		elements = append(elements,
			map[string]interface{}{"tag": "hr"},
			map[string]interface{}{
				"tag": "note",
				"elements": []map[string]string{
					{"tag": "plain_text", "content": msg.Note},
				},
			},
		)
	}

	payload := map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"header": map[string]interface{}{
				"title":    map[string]string{"tag": "plain_text", "content": msg.Title},
				"template": template,
			},
			"elements": elements,
		},
	}

	resp, err := n.httpClient.PostJSON(ctx, n.webhookURL, payload)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.WithField("title", msg.Title).Info("notification delivered")
	return nil
}
