package utils

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestLogErrorCarriesStructuredFields(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	LogError("registration_failed", errors.New("boom"), map[string]interface{}{
		"email": "ana@example.com",
	})

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no log entry recorded")
	}
	if entry.Level != logrus.ErrorLevel {
		t.Errorf("level = %v, want error", entry.Level)
	}
	if entry.Data["error_type"] != "registration_failed" {
		t.Errorf("error_type = %v", entry.Data["error_type"])
	}
	if entry.Data["error"] != "boom" {
		t.Errorf("error = %v", entry.Data["error"])
	}
	if entry.Data["email"] != "ana@example.com" {
		t.Errorf("email = %v", entry.Data["email"])
	}
}

func TestLogEventCarriesStructuredFields(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	LogEvent("context_set", map[string]interface{}{
		"manager_id": uint(7),
		"artist_id":  uint(9),
	})

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no log entry recorded")
	}
	if entry.Level != logrus.InfoLevel {
		t.Errorf("level = %v, want info", entry.Level)
	}
	if entry.Data["event_type"] != "context_set" {
		t.Errorf("event_type = %v", entry.Data["event_type"])
	}
	if entry.Data["manager_id"] != uint(7) {
		t.Errorf("manager_id = %v", entry.Data["manager_id"])
	}
}
