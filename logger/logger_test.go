package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/alecthomas/assert"
	"github.com/sirupsen/logrus"
)

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "todo", "debug")
	assert.Equal(t, logrus.DebugLevel, log.Logger.GetLevel())

	log.WithField("op", "insert").Info("snapshot saved")

	var line map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "todo", line["service"])
	assert.Equal(t, "insert", line["op"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "snapshot saved", line["message"])
	assert.NotEqual(t, nil, line["ts"])
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	log := NewWithOutput(&bytes.Buffer{}, "todo", "loud")
	assert.Equal(t, logrus.InfoLevel, log.Logger.GetLevel())
}
