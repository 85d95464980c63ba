package stdlogger_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guit-county/guit-portal/internal/logger"
	"github.com/guit-county/guit-portal/internal/logger/adapter/stdlogger"
)

func TestAdapter(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       logger.Log
		wantLines int
	}{
		{
			name:      "no logger enabled",
			cfg:       logger.Log{LogLevel: "", ServiceName: "test", AppName: "test"},
			wantLines: 0,
		},
		{
			name: "info level hides debug",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true},
			},
			wantLines: 4,
		},
		{
			name: "debug level shows all",
			cfg: logger.Log{
				LogLevel: "debug", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true},
			},
			wantLines: 5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := capture(t, tc.cfg, func() {
				l := stdlogger.New()
				l.Debugf("stdlogger %s", "debug")
				l.Infof("stdlogger %s", "info")
				l.Warningf("stdlogger %s", "warning")
				l.Errorf("stdlogger %s", "error")
				l.Printf("\nstdlogger %s", "printf")
			})

			assert.Len(t, lines(out), tc.wantLines)
		})
	}
}

func TestPrintfComponent(t *testing.T) {
	out := capture(t, logger.Log{
		LogLevel: "info", ServiceName: "test", AppName: "test",
		Console: logger.Console{Enabled: true},
	}, func() {
		stdlogger.NewComponent("gorm", zerolog.WarnLevel).Printf("\r\nslow sql %dms", 420)
	})

	got := lines(out)
	require.Len(t, got, 1)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(got[0]), &decoded))
	assert.Equal(t, "gorm", decoded["component"])
	assert.Equal(t, "warn", decoded["level"])
	assert.Equal(t, "slow sql 420ms", decoded["message"])
}

func lines(out string) []string {
	var res []string

	for _, l := range strings.Split(out, "\n") {
		if l != "" {
			res = append(res, l)
		}
	}

	return res
}

func capture(t *testing.T, cfg logger.Log, fn func()) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	require.NoError(t, logger.Init(cfg))

	fn()

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC
}
