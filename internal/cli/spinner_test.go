package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func quietSpinner(ctx context.Context, label string) (*spinner, *bytes.Buffer) {
	s := newSpinner(ctx, label)
	buf := &bytes.Buffer{}
	s.w = buf
	return s, buf
}

func TestSpinnerStop(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Generating layout...")
	s.start()
	time.Sleep(100 * time.Millisecond)
	s.stop()
	s.stop()

	if s.interrupted() {
		t.Error("stopped spinner reported as interrupted")
	}
	out := buf.String()
	if !strings.Contains(out, "Generating layout...") {
		t.Errorf("output %q missing label", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q should end by erasing the line", out)
	}
}

func TestSpinnerInterrupted(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s, _ := quietSpinner(ctx, "Analysing plots...")
	s.start()
	time.Sleep(100 * time.Millisecond)

	if !s.interrupted() {
		t.Error("spinner should be interrupted after its context expires")
	}
	s.stop()
}

func TestSpin(t *testing.T) {
	got, err := spin(context.Background(), "Working...", func() (int, error) { return 42, nil })
	if err != nil || got != 42 {
		t.Errorf("spin() = %d, %v; want 42, nil", got, err)
	}

	boom := errors.New("boom")
	if _, err := spin(context.Background(), "Failing...", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("spin() error = %v, want %v", err, boom)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := spin(ctx, "Cancelled...", func() (int, error) { return 1, nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("spin() on cancelled context error = %v, want context.Canceled", err)
	}
}
