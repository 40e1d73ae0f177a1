package booking

import (
	"os"
	"testing"

	"appointly/utils"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	utils.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}
