package api

import "time"

// Connector describes a financial institution integration: how it is
// presented, what credentials it asks for, and which data products it
// supports. Optional fields are pointers because the API omits them for
// connectors that do not support the feature.
type Connector struct {
	ID               int                   `json:"id"`
	Name             string                `json:"name"`
	InstitutionURL   string                `json:"institutionUrl"`
	ImageURL         string                `json:"imageUrl"`
	PrimaryColor     string                `json:"primaryColor"`
	Type             ConnectorType         `json:"type"`
	Country          Country               `json:"country"`
	Credentials      []ConnectorCredential `json:"credentials"`
	HasMFA           bool                  `json:"hasMFA"`
	OAuth            *bool                 `json:"oauth,omitempty"`
	OAuthURL         *string               `json:"oauthUrl,omitempty"`
	Health           *ConnectorHealth      `json:"health,omitempty"`
	ResetPasswordURL *string               `json:"resetPasswordUrl,omitempty"`
	Products         []ProductType         `json:"products"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// ConnectorCredential describes one input field a connector requires.
type ConnectorCredential struct {
	Label             string                   `json:"label"`
	Name              string                   `json:"name"`
	Type              *CredentialType          `json:"type,omitempty"`
	MFA               *bool                    `json:"mfa,omitempty"`
	Data              *string                  `json:"data,omitempty"`
	AssistiveText     *string                  `json:"assistiveText,omitempty"`
	Options           []CredentialSelectOption `json:"options,omitempty"`
	Validation        *string                  `json:"validation,omitempty"`
	ValidationMessage *string                  `json:"validationMessage,omitempty"`
	Placeholder       *string                  `json:"placeholder,omitempty"`
	Optional          *bool                    `json:"optional,omitempty"`
	Instructions      *string                  `json:"instructions,omitempty"`
	ExpiresAt         *string                  `json:"expiresAt,omitempty"`
}

// CredentialSelectOption is one choice of a select-typed credential.
type CredentialSelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ConnectorHealth reports a connector's operational status. Present only for
// connectors that expose health information.
type ConnectorHealth struct {
	Status ConnectorStatus `json:"status"`
	Stage  *ConnectorStage `json:"stage,omitempty"`
}

// Item is one end-user's linked account under a connector. The server mutates
// it through asynchronous execution phases; this client only observes.
type Item struct {
	ID              string                    `json:"id"`
	Connector       Connector                 `json:"connector"`
	Status          ItemStatus                `json:"status"`
	StatusDetail    *ItemProductsStatusDetail `json:"statusDetail,omitempty"`
	Error           *ExecutionErrorResult     `json:"error,omitempty"`
	ExecutionStatus ExecutionStatus           `json:"executionStatus"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
	LastUpdatedAt   *time.Time                `json:"lastUpdatedAt,omitempty"`
	Parameter       *ConnectorCredential      `json:"parameter,omitempty"`
	WebhookURL      *string                   `json:"webhookUrl,omitempty"`
	ClientUserID    *string                   `json:"clientUserId,omitempty"`
	// UserAction is present only while the item waits on the user for a
	// multi-factor or manual step.
	UserAction                     *UserAction `json:"userAction,omitempty"`
	ConsecutiveFailedLoginAttempts int         `json:"consecutiveFailedLoginAttempts"`
}

// ItemProductsStatusDetail breaks the item status down per data product.
type ItemProductsStatusDetail struct {
	Accounts     ItemProductState `json:"accounts"`
	CreditCards  ItemProductState `json:"creditCards"`
	Transactions ItemProductState `json:"transactions"`
	Investments  ItemProductState `json:"investments"`
	Identity     ItemProductState `json:"identity"`
	PaymentData  ItemProductState `json:"paymentData"`
}

// ItemProductState is the sync state of a single data product.
type ItemProductState struct {
	IsUpdated     bool       `json:"isUpdated"`
	LastUpdatedAt *time.Time `json:"lastUpdatedAt,omitempty"`
}

// UserAction carries the instructions for a pending multi-factor or manual
// step, with an optional deadline.
type UserAction struct {
	Instructions string            `json:"instructions"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	ExpiresAt    *time.Time        `json:"expiresAt,omitempty"`
}

// ExecutionErrorResult describes why an item's execution failed.
type ExecutionErrorResult struct {
	Code            ExecutionErrorCode `json:"code"`
	Message         string             `json:"message"`
	ProviderMessage *string            `json:"providerMessage,omitempty"`
	Attributes      map[string]string  `json:"attributes,omitempty"`
}

// Category is a read-only taxonomy node for transaction classification.
type Category struct {
	ID                string  `json:"id"`
	Description       string  `json:"description"`
	ParentID          *string `json:"parentId,omitempty"`
	ParentDescription *string `json:"parentDescription,omitempty"`
}

// Webhook is a registered notification target.
type Webhook struct {
	ID         string       `json:"id"`
	URL        string       `json:"url"`
	Event      WebhookEvent `json:"event"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	DisabledAt *time.Time   `json:"disabledAt,omitempty"`
}

// ValidationResult is the outcome of a dry-run credential check against a
// connector, performed before item creation.
type ValidationResult struct {
	Parameters map[string]string `json:"parameters"`
	Errors     []ValidationError `json:"errors"`
}

// ValidationError is one rejected parameter from a validation run.
type ValidationError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Parameter string `json:"parameter"`
}

// CreateItemRequest is the payload for creating an item. Only the fields the
// API accepts are serialized; the embedded connector is never sent back.
type CreateItemRequest struct {
	ConnectorID  int               `json:"connectorId"`
	Parameters   map[string]string `json:"parameters"`
	WebhookURL   *string           `json:"webhookUrl,omitempty"`
	ClientUserID *string           `json:"clientUserId,omitempty"`
}

// UpdateItemRequest is the payload for updating an item's stored credentials.
type UpdateItemRequest struct {
	Parameters map[string]string `json:"parameters"`
}

// CreateWebhookRequest is the payload for registering a webhook.
type CreateWebhookRequest struct {
	Event   WebhookEvent      `json:"event"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// UpdateWebhookRequest is the payload for mutating a webhook. Nil fields are
// left untouched server-side.
type UpdateWebhookRequest struct {
	Event   *WebhookEvent     `json:"event,omitempty"`
	URL     *string           `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Enabled *bool             `json:"enabled,omitempty"`
}

// PageResponse is the envelope every list endpoint returns. List operations
// surface only Results; one call fetches one page and the caller loops.
type PageResponse[T any] struct {
	Results    []T `json:"results"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}
