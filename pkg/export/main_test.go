package export

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// ExportAll fans out goroutines; none may survive a test.
	goleak.VerifyTestMain(m)
}
