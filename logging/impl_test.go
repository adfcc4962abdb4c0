package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

func newBufferLogger(level Level) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := &impl{"impl", NewAtomicLevelAt(level), true, []Appender{NewWriterAppender(buf)}}
	return logger, buf
}

func TestConsoleOutputFormat(t *testing.T) {
	logger, buf := newBufferLogger(DEBUG)

	logger.Infow("information")
	line, err := buf.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	parts := strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	test.That(t, parts, test.ShouldHaveLength, 5)
	test.That(t, parts[1], test.ShouldEqual, "INFO")
	test.That(t, parts[2], test.ShouldEqual, "impl")
	test.That(t, parts[3], test.ShouldStartWith, "logging/impl_test.go:")
	test.That(t, parts[4], test.ShouldEqual, "information")

	logger.Debugw("resolved", "token", "cancoder_can", "id", 3)
	line, err = buf.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	parts = strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	test.That(t, parts, test.ShouldHaveLength, 6)
	test.That(t, parts[4], test.ShouldEqual, "resolved")
	test.That(t, parts[5], test.ShouldEqual, `{"token":"cancoder_can","id":3}`)
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(WARN)
	logger.Debugw("dropped")
	logger.Infow("dropped")
	test.That(t, buf.Len(), test.ShouldEqual, 0)

	logger.Warnw("kept", "n", 1)
	test.That(t, buf.String(), test.ShouldContainSubstring, "kept")
	test.That(t, buf.String(), test.ShouldContainSubstring, `{"n":1}`)

	buf.Reset()
	logger.SetLevel(DEBUG)
	logger.Debugw("now shown")
	test.That(t, buf.String(), test.ShouldContainSubstring, "now shown")

	logger.SetLevel(ERROR)
	test.That(t, logger.GetLevel(), test.ShouldEqual, ERROR)
}

func TestSubloggerNaming(t *testing.T) {
	logger, buf := newBufferLogger(INFO)
	sub := logger.Sublogger("ctre")
	sub.Infow("opened")
	test.That(t, buf.String(), test.ShouldContainSubstring, "\timpl.ctre\t")
}

func TestUnpairedKey(t *testing.T) {
	logger, buf := newBufferLogger(INFO)
	logger.Infow("oops", "dangling")
	test.That(t, buf.String(), test.ShouldContainSubstring, "unpaired log key")
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Warnw("vendor library disabled", "vendor", "redux")
	test.That(t, logs.FilterMessage("vendor library disabled").Len(), test.ShouldEqual, 1)
	test.That(t, logs.All()[0].ContextMap()["vendor"], test.ShouldEqual, "redux")
}

func TestGlobalFallback(t *testing.T) {
	previous := Global()
	defer ReplaceGlobal(previous)

	logger, _ := newBufferLogger(INFO)
	ReplaceGlobal(logger)
	test.That(t, OrGlobal(nil), test.ShouldEqual, logger)
	other := NewBlankLogger("other")
	test.That(t, OrGlobal(other), test.ShouldEqual, other)
}

func TestLevelFromString(t *testing.T) {
	for in, expected := range map[string]Level{"DEBUG": DEBUG, "info": INFO, "Warn": WARN, "error": ERROR} {
		level, err := LevelFromString(in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, expected)
	}
	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFileAppender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swerve.log")
	appender := NewFileAppender(path, 1)
	logger := &impl{"file", NewAtomicLevelAt(INFO), true, []Appender{appender}}
	logger.Infow("opened", "bus", "canivore")
	test.That(t, appender.Close(), test.ShouldBeNil)

	contents, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(contents), test.ShouldContainSubstring, "opened")
	test.That(t, string(contents), test.ShouldContainSubstring, `{"bus":"canivore"}`)
}
