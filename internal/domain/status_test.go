package domain_test

import (
	"testing"

	"github.com/taskwell/taskwell-api/internal/domain"
)

func TestIsRecognizedStatus(t *testing.T) {
	t.Parallel()

	for _, s := range domain.KnownStatuses() {
		if !domain.IsRecognizedStatus(string(s)) {
			t.Errorf("Expected %q to be recognized", s)
		}
	}

	for _, s := range []string{"", "waiting", "done", "Blocked"} {
		if domain.IsRecognizedStatus(s) {
			t.Errorf("Expected %q to not be recognized", s)
		}
	}
}
