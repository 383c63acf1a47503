package api

import (
	"context"
	"fmt"
	"net/http"
)

// Get retrieves a single item by ID. Polling this (or Update) is the only
// way to observe server-side execution progress.
func (s ItemsService) Get(ctx context.Context, apiKey, id string) (*Item, error) {
	return getItem(ctx, s, apiKey, id)
}

func getItem(ctx context.Context, r Requester, apiKey, id string) (*Item, error) {
	var result Item
	if err := r.do(ctx, http.MethodGet, r.resourceURL("/items/"+id, nil), apiKey, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create links a new account: the server starts an asynchronous execution
// against the connector with the supplied credential parameters.
func (s ItemsService) Create(ctx context.Context, apiKey string, req CreateItemRequest) (*Item, error) {
	return createItem(ctx, s, apiKey, req)
}

func createItem(ctx context.Context, r Requester, apiKey string, req CreateItemRequest) (*Item, error) {
	var result Item
	if err := r.do(ctx, http.MethodPost, r.resourceURL("/items", nil), apiKey, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update replaces the item's stored credential parameters and triggers a new
// sync. Only the parameters travel; the item itself is never sent back.
func (s ItemsService) Update(ctx context.Context, apiKey, id string, parameters map[string]string) (*Item, error) {
	return updateItem(ctx, s, apiKey, id, parameters)
}

func updateItem(ctx context.Context, r Requester, apiKey, id string, parameters map[string]string) (*Item, error) {
	body := UpdateItemRequest{Parameters: parameters}
	var result Item
	if err := r.do(ctx, http.MethodPatch, r.resourceURL("/items/"+id, nil), apiKey, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateMFA answers a pending multi-factor challenge with the requested
// parameters. The endpoint takes the raw parameter map.
func (s ItemsService) UpdateMFA(ctx context.Context, apiKey, id string, parameters map[string]string) (*Item, error) {
	return updateItemMFA(ctx, s, apiKey, id, parameters)
}

func updateItemMFA(ctx context.Context, r Requester, apiKey, id string, parameters map[string]string) (*Item, error) {
	var result Item
	target := r.resourceURL(fmt.Sprintf("/items/%s/mfa", id), nil)
	if err := r.do(ctx, http.MethodPatch, target, apiKey, parameters, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes an item and the data synced for it.
func (s ItemsService) Delete(ctx context.Context, apiKey, id string) error {
	return deleteItem(ctx, s, apiKey, id)
}

func deleteItem(ctx context.Context, r Requester, apiKey, id string) error {
	return r.do(ctx, http.MethodDelete, r.resourceURL("/items/"+id, nil), apiKey, nil, nil)
}
