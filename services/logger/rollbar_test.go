package logsvc

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/courseportal/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(&buf, &core.Config{AppName: "CoursePortal", Env: "TEST"})

	logger.Debug("hidden") // below info level when not in debug mode
	logger.Error("saving cart", errors.New("boom"), map[string]interface{}{"section": "CS301"}, core.Person{ID: "s1"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "saving cart", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "CS301", entry["section"])
	assert.Equal(t, "s1", entry["person_id"])
	assert.Equal(t, "CoursePortal", entry["app"])
	assert.Equal(t, "TEST", entry["env"])
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewRollbarLogger(&bytes.Buffer{}, &core.Config{})
	err := errors.New("boom")

	args := logger.prepare("msg", []interface{}{err, core.Person{ID: "a"}, core.Person{ID: "b"}})
	assert.Equal(t, []interface{}{"msg", err}, args)
}
