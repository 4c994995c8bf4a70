package content

import (
	"testing"

	"go.uber.org/goleak"
)

// The watcher owns fsnotify goroutines; every test must stop it.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
