package telegram

import (
	"testing"
	"time"

	coreconfig "officebot/core/config"

	tele "gopkg.in/telebot.v4"
)

func TestBuildPollerDefaultsToLongPoll(t *testing.T) {
	p := BuildPoller(&coreconfig.Config{})
	lp, ok := p.(*tele.LongPoller)
	if !ok {
		t.Fatalf("poller = %T, want *tele.LongPoller", p)
	}
	if lp.Timeout != defaultLongPollTimeout {
		t.Errorf("timeout = %v", lp.Timeout)
	}
}

func TestBuildPollerLongPollTimeout(t *testing.T) {
	cfg := &coreconfig.Config{}
	cfg.Telegram.RunMode = coreconfig.RunModeLongpoll
	cfg.Telegram.LongPollTimeoutSeconds = 25
	p := BuildPoller(cfg)
	lp, ok := p.(*tele.LongPoller)
	if !ok {
		t.Fatalf("poller = %T, want *tele.LongPoller", p)
	}
	if lp.Timeout != 25*time.Second {
		t.Errorf("timeout = %v", lp.Timeout)
	}
}

func TestBuildPollerWebhook(t *testing.T) {
	cfg := &coreconfig.Config{}
	cfg.Telegram.RunMode = coreconfig.RunModeWebhook
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	cfg.Webhook.URL = "https://bot.invalid/hook"
	p := BuildPoller(cfg)
	wh, ok := p.(*tele.Webhook)
	if !ok {
		t.Fatalf("poller = %T, want *tele.Webhook", p)
	}
	if wh.Listen != "0.0.0.0:8443" {
		t.Errorf("listen = %q", wh.Listen)
	}
	if wh.Endpoint == nil || wh.Endpoint.PublicURL != "https://bot.invalid/hook" {
		t.Errorf("endpoint = %+v", wh.Endpoint)
	}
}
