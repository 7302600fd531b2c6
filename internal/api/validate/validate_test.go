package validate

import (
	"testing"

	"github.com/vibegen/mission-control/internal/model"
)

func TestNonEmpty(t *testing.T) {
	if err := NonEmpty("title", "ok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range []string{"", "  ", "\t"} {
		if err := NonEmpty("title", v); err == nil {
			t.Fatalf("NonEmpty(%q) accepted", v)
		}
	}
}

func TestEnumChecks(t *testing.T) {
	if err := ActivityStatus(model.ActivitySuccess); err != nil {
		t.Fatalf("valid status rejected: %v", err)
	}
	if err := ActivityStatus("done"); err == nil {
		t.Fatalf("unknown activity status accepted")
	}
	if err := TaskStatus("started"); err == nil {
		t.Fatalf("unknown task status accepted")
	}
	if err := Level("priority", "urgent"); err == nil {
		t.Fatalf("unknown level accepted")
	}
}

func TestCreateActivity(t *testing.T) {
	if err := CreateActivity("deploy", "restarted api", model.ActivitySuccess); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if err := CreateActivity("", "restarted api", model.ActivitySuccess); err == nil {
		t.Fatalf("missing actionType accepted")
	}
	if err := CreateActivity("deploy", " ", model.ActivitySuccess); err == nil {
		t.Fatalf("blank description accepted")
	}
}

func TestCreateTask(t *testing.T) {
	if err := CreateTask("write brief", model.TaskScheduled, model.LevelMedium); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if err := CreateTask("", model.TaskScheduled, model.LevelMedium); err == nil {
		t.Fatalf("missing title accepted")
	}
	if err := CreateTask("write brief", "paused", model.LevelMedium); err == nil {
		t.Fatalf("invalid status accepted")
	}
}

func TestTaskPatch(t *testing.T) {
	if err := TaskPatch(model.TaskPatch{}); err != nil {
		t.Fatalf("empty patch rejected: %v", err)
	}

	blank := ""
	if err := TaskPatch(model.TaskPatch{Title: &blank}); err == nil {
		t.Fatalf("blank title patch accepted")
	}

	bad := model.TaskStatus("paused")
	if err := TaskPatch(model.TaskPatch{Status: &bad}); err == nil {
		t.Fatalf("invalid status patch accepted")
	}
}

func TestCreateDocument(t *testing.T) {
	if err := CreateDocument("brief", "body", "document"); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if err := CreateDocument("brief", "body", ""); err == nil {
		t.Fatalf("missing type accepted")
	}
}

func TestCreateMemory(t *testing.T) {
	if err := CreateMemory("remember this", model.LevelLow); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if err := CreateMemory("", model.LevelLow); err == nil {
		t.Fatalf("empty content accepted")
	}
	if err := CreateMemory("x", "critical"); err == nil {
		t.Fatalf("invalid importance accepted")
	}
}
