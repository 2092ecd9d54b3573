package tui_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regexrunner/internal/presentation/tui"
	"github.com/aretw0/regexrunner/internal/runtime"
	"github.com/aretw0/regexrunner/pkg/domain"
)

func TestPlayer_Play(t *testing.T) {
	def := domain.EvenOnes().DFA
	res := runtime.Run(&def, "0110")

	var buf bytes.Buffer
	p := tui.NewPlayer(&buf, tui.WithDelay(0))
	require.NoError(t, p.Play(context.Background(), &def, "0110", res))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6, out)
	assert.Contains(t, lines[0], "▶")
	assert.Contains(t, lines[0], "(Even 1s)")
	assert.Contains(t, lines[2], "─1→")
	assert.Contains(t, lines[2], "(Odd 1s)")
	assert.Contains(t, lines[5], "Accepted • Trace: q0 → q0 → q1 → q0 → q0")
}

func TestPlayer_PlayFailure(t *testing.T) {
	def := domain.EvenOnes().DFA
	res := runtime.Run(&def, "1a0")

	var buf bytes.Buffer
	p := tui.NewPlayer(&buf, tui.WithDelay(0))
	require.NoError(t, p.Play(context.Background(), &def, "1a0", res))

	assert.Contains(t, buf.String(), `stopped at symbol 2 "a"`)
	assert.Contains(t, buf.String(), "Invalid symbol: a • Trace: q0 → q1")
}

func TestPlayer_Cancel(t *testing.T) {
	def := domain.EvenOnes().DFA
	res := runtime.Run(&def, "0101")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	p := tui.NewPlayer(&buf, tui.WithDelay(time.Hour))
	err := p.Play(ctx, &def, "0101", res)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, buf.String(), "Accepted")
}

func TestVerdict(t *testing.T) {
	out := termenv.NewOutput(&bytes.Buffer{}, termenv.WithProfile(termenv.Ascii))

	got := tui.Verdict(out, domain.Result{Accepted: true, Trace: []string{"q0"}, Message: domain.MessageAccepted})
	assert.Equal(t, "Accepted • Trace: q0", got)

	got = tui.Verdict(out, domain.Result{Trace: []string{"q0", "q1"}, Message: domain.MessageRejected})
	assert.Equal(t, "Rejected • Trace: q0 → q1", got)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "DFA simulator v1.2.3")
}

func TestPlainRenderer(t *testing.T) {
	got, err := tui.PlainRenderer("  # Title  \n")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", got)
}
