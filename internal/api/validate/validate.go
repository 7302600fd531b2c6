package validate

import (
	"fmt"
	"strings"

	"github.com/vibegen/mission-control/internal/model"
)

// NonEmpty rejects empty or whitespace-only required text fields.
func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// Enum checks keep the closed sets closed at the write boundary; no value
// outside the declared set may persist.

func ActivityStatus(s model.ActivityStatus) error {
	if !s.Valid() {
		return fmt.Errorf("invalid activity status %q", s)
	}
	return nil
}

func TaskStatus(s model.TaskStatus) error {
	if !s.Valid() {
		return fmt.Errorf("invalid task status %q", s)
	}
	return nil
}

func Level(field string, l model.Level) error {
	if !l.Valid() {
		return fmt.Errorf("invalid %s %q", field, l)
	}
	return nil
}

// -------- Request specific helpers ----------

func CreateActivity(actionType, description string, status model.ActivityStatus) error {
	if err := NonEmpty("actionType", actionType); err != nil {
		return err
	}
	if err := NonEmpty("description", description); err != nil {
		return err
	}
	return ActivityStatus(status)
}

func CreateTask(title string, status model.TaskStatus, priority model.Level) error {
	if err := NonEmpty("title", title); err != nil {
		return err
	}
	if err := TaskStatus(status); err != nil {
		return err
	}
	return Level("priority", priority)
}

func TaskPatch(p model.TaskPatch) error {
	if p.Title != nil {
		if err := NonEmpty("title", *p.Title); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if err := TaskStatus(*p.Status); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if err := Level("priority", *p.Priority); err != nil {
			return err
		}
	}
	return nil
}

func CreateDocument(title, content, docType string) error {
	if err := NonEmpty("title", title); err != nil {
		return err
	}
	if err := NonEmpty("content", content); err != nil {
		return err
	}
	return NonEmpty("type", docType)
}

func DocumentPatch(p model.DocumentPatch) error {
	if p.Title != nil {
		if err := NonEmpty("title", *p.Title); err != nil {
			return err
		}
	}
	if p.Type != nil {
		if err := NonEmpty("type", *p.Type); err != nil {
			return err
		}
	}
	return nil
}

func CreateMemory(content string, importance model.Level) error {
	if err := NonEmpty("content", content); err != nil {
		return err
	}
	return Level("importance", importance)
}
