package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/user"
)

func TestRollbarLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewRollbarLogger(log.New(buf, "", 0), &core.Config{Env: "TEST"})
	usr := user.User{ID: "1", Name: "Alice Student", Email: "student@edu.com"}

	logger.Info("hello", usr)
	logger.Error("boom", errors.New("kaput"), &usr, map[string]interface{}{"k": "v"})

	out := buf.String()
	assert.Contains(t, out, "INFO: hello")
	assert.Contains(t, out, "ERROR: boom")
	assert.Contains(t, out, "kaput")
	assert.NotContains(t, out, "student@edu.com")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := RollbarLogger{}
	usr := user.User{ID: "1"}

	args := logger.prepare("msg", []interface{}{usr, "extra", &usr})
	assert.Equal(t, []interface{}{"msg", "extra"}, args)
}
