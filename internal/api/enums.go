package api

import (
	"encoding/json"
	"fmt"
	"slices"
)

// The remote API documents closed value sets for every enum-valued field.
// Decoding rejects anything outside the set so schema drift fails loudly at
// the call site instead of being silently accepted as an unknown.
func decodeEnum[T ~string](data []byte, name string, valid []T) (T, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	v := T(s)
	if !slices.Contains(valid, v) {
		return "", fmt.Errorf("unknown %s %q", name, s)
	}
	return v, nil
}

// ConnectorType classifies the institution behind a connector.
type ConnectorType string

const (
	ConnectorTypePersonalBank   ConnectorType = "PERSONAL_BANK"
	ConnectorTypeBusinessBank   ConnectorType = "BUSINESS_BANK"
	ConnectorTypeInvoice        ConnectorType = "INVOICE"
	ConnectorTypeInvestment     ConnectorType = "INVESTMENT"
	ConnectorTypeTelecom        ConnectorType = "TELECOMMUNICATION"
	ConnectorTypeDigitalEconomy ConnectorType = "DIGITAL_ECONOMY"
	ConnectorTypePaymentAccount ConnectorType = "PAYMENT_ACCOUNT"
	ConnectorTypeOther          ConnectorType = "OTHER"
)

var connectorTypes = []ConnectorType{
	ConnectorTypePersonalBank,
	ConnectorTypeBusinessBank,
	ConnectorTypeInvoice,
	ConnectorTypeInvestment,
	ConnectorTypeTelecom,
	ConnectorTypeDigitalEconomy,
	ConnectorTypePaymentAccount,
	ConnectorTypeOther,
}

func (t *ConnectorType) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "connector type", connectorTypes)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Country is the ISO country code of the market a connector serves.
type Country string

const (
	CountryAR Country = "AR"
	CountryBR Country = "BR"
)

var countries = []Country{CountryAR, CountryBR}

func (c *Country) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "country", countries)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// CredentialType describes the input widget a connector credential expects.
type CredentialType string

const (
	CredentialTypeNumber   CredentialType = "number"
	CredentialTypePassword CredentialType = "password"
	CredentialTypeText     CredentialType = "text"
	CredentialTypeImage    CredentialType = "image"
	CredentialTypeSelect   CredentialType = "select"
	// The API spells this one without a separator.
	CredentialTypeEthAddress CredentialType = "ethaddress"
)

var credentialTypes = []CredentialType{
	CredentialTypeNumber,
	CredentialTypePassword,
	CredentialTypeText,
	CredentialTypeImage,
	CredentialTypeSelect,
	CredentialTypeEthAddress,
}

func (t *CredentialType) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "credential type", credentialTypes)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ConnectorStatus is the reported health of a connector.
type ConnectorStatus string

const (
	ConnectorStatusOnline   ConnectorStatus = "ONLINE"
	ConnectorStatusOffline  ConnectorStatus = "OFFLINE"
	ConnectorStatusUnstable ConnectorStatus = "UNSTABLE"
)

var connectorStatuses = []ConnectorStatus{
	ConnectorStatusOnline,
	ConnectorStatusOffline,
	ConnectorStatusUnstable,
}

func (s *ConnectorStatus) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "connector status", connectorStatuses)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ConnectorStage marks a connector's release stage when it is not generally
// available.
type ConnectorStage string

const ConnectorStageBeta ConnectorStage = "BETA"

var connectorStages = []ConnectorStage{ConnectorStageBeta}

func (s *ConnectorStage) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "connector stage", connectorStages)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ProductType names a data product a connector can supply.
type ProductType string

const (
	ProductTypeAccounts                ProductType = "ACCOUNTS"
	ProductTypeCreditCards             ProductType = "CREDIT_CARDS"
	ProductTypeTransactions            ProductType = "TRANSACTIONS"
	ProductTypePaymentData             ProductType = "PAYMENT_DATA"
	ProductTypeInvestments             ProductType = "INVESTMENTS"
	ProductTypeInvestmentsTransactions ProductType = "INVESTMENTS_TRANSACTIONS"
	ProductTypeIdentity                ProductType = "IDENTITY"
	ProductTypeBrokerageNote           ProductType = "BROKERAGE_NOTE"
	ProductTypeOpportunities           ProductType = "OPPORTUNITIES"
	ProductTypePortfolio               ProductType = "PORTFOLIO"
	ProductTypeIncomeReports           ProductType = "INCOME_REPORTS"
)

var productTypes = []ProductType{
	ProductTypeAccounts,
	ProductTypeCreditCards,
	ProductTypeTransactions,
	ProductTypePaymentData,
	ProductTypeInvestments,
	ProductTypeInvestmentsTransactions,
	ProductTypeIdentity,
	ProductTypeBrokerageNote,
	ProductTypeOpportunities,
	ProductTypePortfolio,
	ProductTypeIncomeReports,
}

func (p *ProductType) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "product type", productTypes)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ItemStatus is the coarse state of an item's connection.
type ItemStatus string

const (
	ItemStatusUpdated          ItemStatus = "UPDATED"
	ItemStatusUpdating         ItemStatus = "UPDATING"
	ItemStatusWaitingUserInput ItemStatus = "WAITING_USER_INPUT"
	ItemStatusLoginError       ItemStatus = "LOGIN_ERROR"
	ItemStatusOutdated         ItemStatus = "OUTDATED"
)

var itemStatuses = []ItemStatus{
	ItemStatusUpdated,
	ItemStatusUpdating,
	ItemStatusWaitingUserInput,
	ItemStatusLoginError,
	ItemStatusOutdated,
}

func (s *ItemStatus) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "item status", itemStatuses)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ExecutionStatus is the fine-grained phase of an item's server-side data
// sync. This client only observes these values; it never drives transitions.
type ExecutionStatus string

const (
	ExecutionStatusLoginInProgress                   ExecutionStatus = "LOGIN_IN_PROGRESS"
	ExecutionStatusWaitingUserInput                  ExecutionStatus = "WAITING_USER_INPUT"
	ExecutionStatusWaitingUserAction                 ExecutionStatus = "WAITING_USER_ACTION"
	ExecutionStatusLoginMFAInProgress                ExecutionStatus = "LOGIN_MFA_IN_PROGRESS"
	ExecutionStatusAccountsInProgress                ExecutionStatus = "ACCOUNTS_IN_PROGRESS"
	ExecutionStatusTransactionsInProgress            ExecutionStatus = "TRANSACTIONS_IN_PROGRESS"
	ExecutionStatusPaymentDataInProgress             ExecutionStatus = "PAYMENT_DATA_IN_PROGRESS"
	ExecutionStatusCreditCardsInProgress             ExecutionStatus = "CREDITCARDS_IN_PROGRESS"
	ExecutionStatusInvestmentsInProgress             ExecutionStatus = "INVESTMENTS_IN_PROGRESS"
	ExecutionStatusInvestmentsTransactionsInProgress ExecutionStatus = "INVESTMENTS_TRANSACTIONS_IN_PROGRESS"
	ExecutionStatusOpportunitiesInProgress           ExecutionStatus = "OPPORTUNITIES_IN_PROGRESS"
	ExecutionStatusIdentityInProgress                ExecutionStatus = "IDENTITY_IN_PROGRESS"
	ExecutionStatusMergeError                        ExecutionStatus = "MERGE_ERROR"
	ExecutionStatusError                             ExecutionStatus = "ERROR"
	ExecutionStatusSuccess                           ExecutionStatus = "SUCCESS"
	ExecutionStatusPartialSuccess                    ExecutionStatus = "PARTIAL_SUCCESS"
	ExecutionStatusCreating                          ExecutionStatus = "CREATING"
	ExecutionStatusCreateError                       ExecutionStatus = "CREATE_ERROR"
	ExecutionStatusCreated                           ExecutionStatus = "CREATED"
)

var executionStatuses = []ExecutionStatus{
	ExecutionStatusLoginInProgress,
	ExecutionStatusWaitingUserInput,
	ExecutionStatusWaitingUserAction,
	ExecutionStatusLoginMFAInProgress,
	ExecutionStatusAccountsInProgress,
	ExecutionStatusTransactionsInProgress,
	ExecutionStatusPaymentDataInProgress,
	ExecutionStatusCreditCardsInProgress,
	ExecutionStatusInvestmentsInProgress,
	ExecutionStatusInvestmentsTransactionsInProgress,
	ExecutionStatusOpportunitiesInProgress,
	ExecutionStatusIdentityInProgress,
	ExecutionStatusMergeError,
	ExecutionStatusError,
	ExecutionStatusSuccess,
	ExecutionStatusPartialSuccess,
	ExecutionStatusCreating,
	ExecutionStatusCreateError,
	ExecutionStatusCreated,
}

func (s *ExecutionStatus) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "execution status", executionStatuses)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// IsTerminal reports whether the execution has reached a final state.
// Useful for callers polling an item until its sync settles.
func (s ExecutionStatus) IsTerminal() bool {
	switch s {
	case ExecutionStatusSuccess, ExecutionStatusPartialSuccess,
		ExecutionStatusError, ExecutionStatusMergeError,
		ExecutionStatusCreateError:
		return true
	default:
		return false
	}
}

// ExecutionErrorCode identifies why an item's execution failed.
type ExecutionErrorCode string

const (
	ExecutionErrorInvalidCredentials          ExecutionErrorCode = "INVALID_CREDENTIALS"
	ExecutionErrorAlreadyLoggedIn             ExecutionErrorCode = "ALREADY_LOGGED_IN"
	ExecutionErrorUnexpected                  ExecutionErrorCode = "UNEXPECTED_ERROR"
	ExecutionErrorInvalidCredentialsMFA       ExecutionErrorCode = "INVALID_CREDENTIALS_MFA"
	ExecutionErrorSiteNotAvailable            ExecutionErrorCode = "SITE_NOT_AVAILABLE"
	ExecutionErrorAccountLocked               ExecutionErrorCode = "ACCOUNT_LOCKED"
	ExecutionErrorAccountCredentialsReset     ExecutionErrorCode = "ACCOUNT_CREDENTIALS_RESET"
	ExecutionErrorConnection                  ExecutionErrorCode = "CONNECTION_ERROR"
	ExecutionErrorAccountNeedsAction          ExecutionErrorCode = "ACCOUNT_NEEDS_ACTION"
	ExecutionErrorUserAuthorizationPending    ExecutionErrorCode = "USER_AUTHORIZATION_PENDING"
	ExecutionErrorUserAuthorizationNotGranted ExecutionErrorCode = "USER_AUTHORIZATION_NOT_GRANTED"
	ExecutionErrorUserInputTimeout            ExecutionErrorCode = "USER_INPUT_TIMEOUT"
)

var executionErrorCodes = []ExecutionErrorCode{
	ExecutionErrorInvalidCredentials,
	ExecutionErrorAlreadyLoggedIn,
	ExecutionErrorUnexpected,
	ExecutionErrorInvalidCredentialsMFA,
	ExecutionErrorSiteNotAvailable,
	ExecutionErrorAccountLocked,
	ExecutionErrorAccountCredentialsReset,
	ExecutionErrorConnection,
	ExecutionErrorAccountNeedsAction,
	ExecutionErrorUserAuthorizationPending,
	ExecutionErrorUserAuthorizationNotGranted,
	ExecutionErrorUserInputTimeout,
}

func (c *ExecutionErrorCode) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "execution error code", executionErrorCodes)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// WebhookEvent is the notification a webhook subscribes to.
type WebhookEvent string

const (
	WebhookEventItemCreated            WebhookEvent = "item/created"
	WebhookEventItemUpdated            WebhookEvent = "item/updated"
	WebhookEventItemError              WebhookEvent = "item/error"
	WebhookEventItemDeleted            WebhookEvent = "item/deleted"
	WebhookEventItemWaitingUserInput   WebhookEvent = "item/waiting_user_input"
	WebhookEventItemLoginSucceeded     WebhookEvent = "item/login_succeeded"
	WebhookEventConnectorStatusUpdated WebhookEvent = "connector/status_updated"
	WebhookEventTransactionsDeleted    WebhookEvent = "transactions/deleted"
	WebhookEventAll                    WebhookEvent = "all"
)

// WebhookEvents lists every subscribable event.
var WebhookEvents = []WebhookEvent{
	WebhookEventItemCreated,
	WebhookEventItemUpdated,
	WebhookEventItemError,
	WebhookEventItemDeleted,
	WebhookEventItemWaitingUserInput,
	WebhookEventItemLoginSucceeded,
	WebhookEventConnectorStatusUpdated,
	WebhookEventTransactionsDeleted,
	WebhookEventAll,
}

func (e *WebhookEvent) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "webhook event", WebhookEvents)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ParseWebhookEvent validates a user-supplied event name.
func ParseWebhookEvent(s string) (WebhookEvent, error) {
	v := WebhookEvent(s)
	if !slices.Contains(WebhookEvents, v) {
		return "", fmt.Errorf("unknown webhook event %q", s)
	}
	return v, nil
}
