package api

// Service accessors group Client methods by resource family.
// Each service embeds *Client; constructing one is free.

type ConnectorsService struct{ *Client }

type ItemsService struct{ *Client }

type CategoriesService struct{ *Client }

type WebhooksService struct{ *Client }

func (c *Client) Connectors() ConnectorsService {
	return ConnectorsService{c}
}

func (c *Client) Items() ItemsService {
	return ItemsService{c}
}

func (c *Client) Categories() CategoriesService {
	return CategoriesService{c}
}

func (c *Client) Webhooks() WebhooksService {
	return WebhooksService{c}
}
