package api

import (
	"context"
	"net/http"
)

// List retrieves the full category taxonomy.
func (s CategoriesService) List(ctx context.Context, apiKey string) ([]Category, error) {
	return listCategories(ctx, s, apiKey)
}

func listCategories(ctx context.Context, r Requester, apiKey string) ([]Category, error) {
	var result PageResponse[Category]
	if err := r.do(ctx, http.MethodGet, r.resourceURL("/categories", nil), apiKey, nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Get retrieves a single category by ID.
func (s CategoriesService) Get(ctx context.Context, apiKey, id string) (*Category, error) {
	return getCategory(ctx, s, apiKey, id)
}

func getCategory(ctx context.Context, r Requester, apiKey, id string) (*Category, error) {
	var result Category
	if err := r.do(ctx, http.MethodGet, r.resourceURL("/categories/"+id, nil), apiKey, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
