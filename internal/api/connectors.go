package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// List retrieves all connectors. When sandbox is true the result includes
// sandbox-only connectors useful for testing flows end to end.
func (s ConnectorsService) List(ctx context.Context, apiKey string, sandbox bool) ([]Connector, error) {
	return listConnectors(ctx, s, apiKey, sandbox)
}

func listConnectors(ctx context.Context, r Requester, apiKey string, sandbox bool) ([]Connector, error) {
	var query url.Values
	if sandbox {
		query = url.Values{"sandbox": {"true"}}
	}
	var result PageResponse[Connector]
	if err := r.do(ctx, http.MethodGet, r.resourceURL("/connectors", query), apiKey, nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Get retrieves a single connector by ID.
func (s ConnectorsService) Get(ctx context.Context, apiKey string, id int) (*Connector, error) {
	return getConnector(ctx, s, apiKey, id)
}

func getConnector(ctx context.Context, r Requester, apiKey string, id int) (*Connector, error) {
	var result Connector
	if err := r.do(ctx, http.MethodGet, r.resourceURL(fmt.Sprintf("/connectors/%d", id), nil), apiKey, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateParameters dry-runs a credential map against a connector without
// creating an item. The response echoes the parameters and lists any
// rejected ones.
func (s ConnectorsService) ValidateParameters(ctx context.Context, apiKey string, id int, parameters map[string]string) (*ValidationResult, error) {
	return validateParameters(ctx, s, apiKey, id, parameters)
}

func validateParameters(ctx context.Context, r Requester, apiKey string, id int, parameters map[string]string) (*ValidationResult, error) {
	var result ValidationResult
	target := r.resourceURL(fmt.Sprintf("/connectors/%d/validate", id), nil)
	if err := r.do(ctx, http.MethodPost, target, apiKey, parameters, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
