package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestSharedLogger(t *testing.T) {
	hook := test.NewLocal(Logger())
	defer hook.Reset()

	SetLevel(logrus.DebugLevel)
	defer SetLevel(logrus.InfoLevel)

	WithFields(Fields{"module": "test"}).Debug("hello")

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, "hello", entry.Message)
		assert.Equal(t, "test", entry.Data["module"])
	}
	assert.Same(t, logrus.StandardLogger(), Logger())
}
