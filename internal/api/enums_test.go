package api

import (
	"encoding/json"
	"testing"
)

func TestEnumDecodeRejectsUnknownValues(t *testing.T) {
	cases := []struct {
		name string
		data string
		dst  json.Unmarshaler
	}{
		{"connector type", `"SPACE_BANK"`, new(ConnectorType)},
		{"country", `"XX"`, new(Country)},
		{"credential type", `"retina-scan"`, new(CredentialType)},
		{"connector status", `"FLAKY"`, new(ConnectorStatus)},
		{"connector stage", `"ALPHA"`, new(ConnectorStage)},
		{"product type", `"LOTTERY"`, new(ProductType)},
		{"item status", `"EXPLODED"`, new(ItemStatus)},
		{"execution status", `"NAPPING"`, new(ExecutionStatus)},
		{"execution error code", `"GREMLINS"`, new(ExecutionErrorCode)},
		{"webhook event", `"item/combusted"`, new(WebhookEvent)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.dst.UnmarshalJSON([]byte(tc.data)); err == nil {
				t.Errorf("Expected unknown %s %s to be rejected", tc.name, tc.data)
			}
		})
	}
}

func TestEnumDecodeRejectsWrongJSONType(t *testing.T) {
	var ct ConnectorType
	if err := json.Unmarshal([]byte(`42`), &ct); err == nil {
		t.Error("Expected numeric connector type to be rejected")
	}
	var ev WebhookEvent
	if err := json.Unmarshal([]byte(`["all"]`), &ev); err == nil {
		t.Error("Expected array webhook event to be rejected")
	}
}

func TestEnumDecodeAcceptsDocumentedValues(t *testing.T) {
	var ct ConnectorType
	if err := json.Unmarshal([]byte(`"DIGITAL_ECONOMY"`), &ct); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if ct != ConnectorTypeDigitalEconomy {
		t.Errorf("Expected DIGITAL_ECONOMY, got %s", ct)
	}

	// the one lower-snake set with an irregular rename
	var cred CredentialType
	if err := json.Unmarshal([]byte(`"ethaddress"`), &cred); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if cred != CredentialTypeEthAddress {
		t.Errorf("Expected ethaddress, got %s", cred)
	}

	var ev WebhookEvent
	if err := json.Unmarshal([]byte(`"connector/status_updated"`), &ev); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if ev != WebhookEventConnectorStatusUpdated {
		t.Errorf("Expected connector/status_updated, got %s", ev)
	}
}

func TestWebhookEventEncodesVerbatim(t *testing.T) {
	data, err := json.Marshal(WebhookEventItemWaitingUserInput)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != `"item/waiting_user_input"` {
		t.Errorf("Expected verbatim event value, got %s", data)
	}
}

func TestParseWebhookEvent(t *testing.T) {
	ev, err := ParseWebhookEvent("item/deleted")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ev != WebhookEventItemDeleted {
		t.Errorf("Expected item/deleted, got %s", ev)
	}

	if _, err := ParseWebhookEvent("item/unknown"); err == nil {
		t.Error("Expected unknown event to be rejected")
	}
}

func TestExecutionStatusIsTerminal(t *testing.T) {
	terminal := []ExecutionStatus{
		ExecutionStatusSuccess,
		ExecutionStatusPartialSuccess,
		ExecutionStatusError,
		ExecutionStatusMergeError,
		ExecutionStatusCreateError,
	}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("Expected %s to be terminal", s)
		}
	}

	inFlight := []ExecutionStatus{
		ExecutionStatusCreating,
		ExecutionStatusLoginInProgress,
		ExecutionStatusWaitingUserInput,
		ExecutionStatusTransactionsInProgress,
	}
	for _, s := range inFlight {
		if s.IsTerminal() {
			t.Errorf("Expected %s not to be terminal", s)
		}
	}
}

func TestPageResponseDecodesStructurally(t *testing.T) {
	var page PageResponse[Category]
	err := json.Unmarshal([]byte(`{
		"results": [{"id": "01000000", "description": "Income"}],
		"page": 2,
		"totalPages": 7,
		"total": 130
	}`), &page)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].ID != "01000000" {
		t.Errorf("Unexpected results: %+v", page.Results)
	}
	if page.Page != 2 || page.TotalPages != 7 || page.Total != 130 {
		t.Errorf("Unexpected pagination metadata: %+v", page)
	}
}
