package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func itemJSON(id, status, executionStatus string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"connector": {
			"id": 2,
			"name": "Pluggy Bank BR",
			"institutionUrl": "https://pluggy.ai",
			"imageUrl": "https://cdn.pluggy.ai/2.svg",
			"primaryColor": "ef294b",
			"type": "PERSONAL_BANK",
			"country": "BR",
			"credentials": [],
			"hasMFA": false,
			"products": ["ACCOUNTS"],
			"createdAt": "2020-09-21T15:00:00.000Z"
		},
		"status": %q,
		"executionStatus": %q,
		"createdAt": "2021-03-05T10:00:00.000Z",
		"updatedAt": "2021-03-05T10:01:00.000Z",
		"consecutiveFailedLoginAttempts": 0
	}`, id, status, executionStatus)
}

func TestItemsGet(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/items/abc-123", jsonResponse(200, itemJSON("abc-123", "UPDATED", "SUCCESS")))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"items", "get", "abc-123"}); err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	if !strings.Contains(output, "abc-123") || !strings.Contains(output, "UPDATED") {
		t.Errorf("unexpected output:\n%s", output)
	}
	if !strings.Contains(output, "Pluggy Bank BR") {
		t.Errorf("expected connector name, got:\n%s", output)
	}
}

func TestItemsGetMultiple(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/items/aaa", jsonResponse(200, itemJSON("aaa", "UPDATED", "SUCCESS"))).
		On("GET", "/items/bbb", jsonResponse(200, itemJSON("bbb", "UPDATING", "CREATED")))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"items", "get", "aaa", "bbb", "-o", "json"}); err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	var items []map[string]any
	if err := json.Unmarshal([]byte(output), &items); err != nil {
		t.Fatalf("expected JSON array output: %v\n%s", err, output)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// Output preserves argument order regardless of fetch completion order.
	if items[0]["id"] != "aaa" || items[1]["id"] != "bbb" {
		t.Errorf("expected argument order preserved, got %v then %v", items[0]["id"], items[1]["id"])
	}
}

func TestItemsGetMultipleOneFails(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/items/aaa", jsonResponse(200, itemJSON("aaa", "UPDATED", "SUCCESS"))).
		On("GET", "/items/bad", jsonResponse(404, `{"message": "item not found", "code": 404}`))
	setupTestEnvWithHandler(t, handler)

	captureStderr(t, func() {
		err := Execute(context.Background(), []string{"items", "get", "aaa", "bad"})
		if err == nil {
			t.Error("expected error when one item fetch fails")
		}
	})
}

func TestItemsCreate(t *testing.T) {
	var body map[string]any
	handler := newRouteHandler().
		On("POST", "/items", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&body)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(itemJSON("new-item", "UPDATING", "CREATED")))
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"items", "create",
			"--connector", "2",
			"--param", "user=user-ok",
			"--param", "password=password-ok",
			"--client-user-id", "my-user",
		})
		if err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	if body["connectorId"] != float64(2) {
		t.Errorf("expected connectorId 2 in body, got %v", body["connectorId"])
	}
	params, _ := body["parameters"].(map[string]any)
	if params["user"] != "user-ok" || params["password"] != "password-ok" {
		t.Errorf("unexpected parameters: %v", params)
	}
	if body["clientUserId"] != "my-user" {
		t.Errorf("expected clientUserId, got %v", body["clientUserId"])
	}
	if _, ok := body["webhookUrl"]; ok {
		t.Error("webhookUrl should be omitted when not set")
	}
	if !strings.Contains(output, "Created item new-item") {
		t.Errorf("expected creation notice, got:\n%s", output)
	}
}

func TestItemsCreateRequiresConnector(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	captureStderr(t, func() {
		err := Execute(context.Background(), []string{"items", "create", "--param", "user=x"})
		if err == nil || !strings.Contains(err.Error(), "--connector") {
			t.Errorf("expected usage error about --connector, got %v", err)
		}
	})
}

func TestItemsCreateRejectsHTTPWebhook(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	captureStderr(t, func() {
		err := Execute(context.Background(), []string{
			"items", "create", "--connector", "2", "--param", "user=x",
			"--webhook-url", "http://insecure.example.com",
		})
		if err == nil || !strings.Contains(err.Error(), "https") {
			t.Errorf("expected https requirement error, got %v", err)
		}
	})
}

func TestItemsUpdate(t *testing.T) {
	var body map[string]any
	handler := newRouteHandler().
		On("PATCH", "/items/abc-123", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&body)
			jsonResponse(200, itemJSON("abc-123", "UPDATING", "CREATED"))(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	captureStdout(t, func() {
		err := Execute(context.Background(), []string{"items", "update", "abc-123", "--param", "password=new-secret"})
		if err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	params, _ := body["parameters"].(map[string]any)
	if params["password"] != "new-secret" {
		t.Errorf("expected updated parameter in body, got %v", body)
	}
}

func TestItemsMFA(t *testing.T) {
	var body map[string]any
	handler := newRouteHandler().
		On("PATCH", "/items/abc-123/mfa", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&body)
			jsonResponse(200, itemJSON("abc-123", "UPDATING", "LOGIN_MFA_IN_PROGRESS"))(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	captureStdout(t, func() {
		err := Execute(context.Background(), []string{"items", "mfa", "abc-123", "--param", "token=123456"})
		if err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	if body["token"] != "123456" {
		t.Errorf("expected MFA parameter sent as flat body, got %v", body)
	}
}

func TestItemsMFARequiresParams(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	captureStderr(t, func() {
		err := Execute(context.Background(), []string{"items", "mfa", "abc-123"})
		if err == nil || !strings.Contains(err.Error(), "--param") {
			t.Errorf("expected usage error about --param, got %v", err)
		}
	})
}

func TestItemsDeleteWithYes(t *testing.T) {
	deleted := false
	handler := newRouteHandler().
		On("DELETE", "/items/abc-123", func(w http.ResponseWriter, r *http.Request) {
			deleted = true
			jsonResponse(200, `{}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"items", "delete", "abc-123", "--yes"}); err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	if !deleted {
		t.Error("expected DELETE request")
	}
	if !strings.Contains(output, "Deleted item abc-123") {
		t.Errorf("expected deletion notice, got:\n%s", output)
	}
}

func TestItemsDeleteNoInputRefuses(t *testing.T) {
	deleted := false
	handler := newRouteHandler().
		On("DELETE", "/items/abc-123", func(w http.ResponseWriter, r *http.Request) {
			deleted = true
			jsonResponse(200, `{}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	captureStderr(t, func() {
		err := Execute(context.Background(), []string{"items", "delete", "abc-123", "--no-input"})
		if err == nil || !strings.Contains(err.Error(), "--yes") {
			t.Errorf("expected confirmation-required error, got %v", err)
		}
	})
	if deleted {
		t.Error("item must not be deleted without confirmation")
	}
}

func TestItemsDeleteNotFound(t *testing.T) {
	handler := newRouteHandler().
		On("DELETE", "/items/missing", jsonResponse(404, `{"message": "item not found", "code": 404}`))
	setupTestEnvWithHandler(t, handler)

	captureStderr(t, func() {
		err := Execute(context.Background(), []string{"items", "delete", "missing", "--yes"})
		if err == nil {
			t.Fatal("expected error for missing item")
		}
		if code := ExitCode(err); code != exitNotFound {
			t.Errorf("expected exit code %d, got %d", exitNotFound, code)
		}
	})
}
