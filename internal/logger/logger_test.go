package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	original := Level()
	t.Cleanup(func() { level.SetLevel(original) })

	if err := SetLevel("warn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Level() != zapcore.WarnLevel {
		t.Errorf("expected warn, got %s", Level())
	}

	if err := SetLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
	if Level() != zapcore.WarnLevel {
		t.Errorf("expected level unchanged after a bad name, got %s", Level())
	}
}

func TestGetNeverNil(t *testing.T) {
	if Get() == nil {
		t.Fatal("expected a logger")
	}
}
