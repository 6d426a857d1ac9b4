package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// ConsentSource - выбор пользователя в баннере cookie.
type ConsentSource interface {
	AnalyticsAllowed() bool
}

// Analytics отправляет pageview, только если пользователь согласился.
type Analytics struct {
	endpoint string
	id       string
	consent  ConsentSource
	http     *http.Client
}

func NewAnalytics(endpoint, measurementID string, consent ConsentSource) *Analytics {
	return &Analytics{
		endpoint: endpoint,
		id:       measurementID,
		consent:  consent,
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Pageview возвращает true, если beacon был отправлен.
// Ошибки сети не всплывают: аналитика не должна мешать работе.
func (a *Analytics) Pageview(ctx context.Context, page string) bool {
	if a == nil || a.endpoint == "" || a.consent == nil || !a.consent.AnalyticsAllowed() {
		return false
	}

	v := url.Values{}
	v.Set("tid", a.id)
	v.Set("t", "pageview")
	v.Set("dp", page)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"?"+v.Encode(), nil)
	if err != nil {
		return false
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}
