package api

import (
	"context"
	"net/http"
)

// List retrieves all registered webhooks.
func (s WebhooksService) List(ctx context.Context, apiKey string) ([]Webhook, error) {
	return listWebhooks(ctx, s, apiKey)
}

func listWebhooks(ctx context.Context, r Requester, apiKey string) ([]Webhook, error) {
	var result PageResponse[Webhook]
	if err := r.do(ctx, http.MethodGet, r.resourceURL("/webhooks", nil), apiKey, nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Get retrieves a single webhook by ID.
func (s WebhooksService) Get(ctx context.Context, apiKey, id string) (*Webhook, error) {
	return getWebhook(ctx, s, apiKey, id)
}

func getWebhook(ctx context.Context, r Requester, apiKey, id string) (*Webhook, error) {
	var result Webhook
	if err := r.do(ctx, http.MethodGet, r.resourceURL("/webhooks/"+id, nil), apiKey, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create registers a notification target for an event. Custom headers, when
// given, are sent along with every delivery.
func (s WebhooksService) Create(ctx context.Context, apiKey, url string, event WebhookEvent, headers map[string]string) (*Webhook, error) {
	return createWebhook(ctx, s, apiKey, url, event, headers)
}

func createWebhook(ctx context.Context, r Requester, apiKey, url string, event WebhookEvent, headers map[string]string) (*Webhook, error) {
	body := CreateWebhookRequest{
		Event:   event,
		URL:     url,
		Headers: headers,
	}
	var result Webhook
	if err := r.do(ctx, http.MethodPost, r.resourceURL("/webhooks", nil), apiKey, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update mutates an existing webhook. Nil request fields are left untouched.
func (s WebhooksService) Update(ctx context.Context, apiKey, id string, req UpdateWebhookRequest) (*Webhook, error) {
	return updateWebhook(ctx, s, apiKey, id, req)
}

func updateWebhook(ctx context.Context, r Requester, apiKey, id string, req UpdateWebhookRequest) (*Webhook, error) {
	var result Webhook
	if err := r.do(ctx, http.MethodPatch, r.resourceURL("/webhooks/"+id, nil), apiKey, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a webhook registration.
func (s WebhooksService) Delete(ctx context.Context, apiKey, id string) error {
	return deleteWebhook(ctx, s, apiKey, id)
}

func deleteWebhook(ctx context.Context, r Requester, apiKey, id string) error {
	return r.do(ctx, http.MethodDelete, r.resourceURL("/webhooks/"+id, nil), apiKey, nil, nil)
}
