package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConf(t *testing.T) {
	conf := SetDefaults()

	assert.Equal(t, "stdout", conf.Output)
	assert.Equal(t, "INFO", conf.Level)
	assert.Equal(t, 7, conf.KeepHours)
	assert.Equal(t, "pomelox.log", conf.Filename)
}

func TestConf_Validate(t *testing.T) {
	tests := []struct {
		name    string
		conf    *Conf
		wantErr bool
	}{
		{
			name:    "valid stdout config",
			conf:    &Conf{Output: "stdout", Level: "INFO"},
			wantErr: false,
		},
		{
			name: "valid file config",
			conf: &Conf{
				Output:     "file",
				Path:       "/tmp/logs",
				Level:      "DEBUG",
				KeepHours:  7,
				RotateSize: 100,
				RotateNum:  10,
			},
			wantErr: false,
		},
		{
			name:    "file config missing path",
			conf:    &Conf{Output: "file", Level: "INFO"},
			wantErr: true,
		},
		{
			// 未设置 KeepHours, RotateSize, RotateNum
			name:    "file config auto-corrected",
			conf:    &Conf{Output: "file", Path: "/tmp/logs", Level: "INFO"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.conf.Output == "file" {
				assert.Positive(t, tt.conf.RotateSize)
				assert.Positive(t, tt.conf.RotateNum)
				assert.Positive(t, tt.conf.KeepHours)
			}
		})
	}
}

func TestNewLog_File(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewLog(&Conf{
		Output:     "file",
		Path:       tmpDir,
		Filename:   "test.log",
		Level:      "INFO",
		KeepHours:  1,
		RotateSize: 1,
		RotateNum:  3,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("test message 1")
	logger.Warn("test message 2")
	_ = logger.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "test message 1")

	// restore stdout logger for the remaining tests
	require.NoError(t, Init(SetDefaults()))
}

func TestGlobalLogFunctions(t *testing.T) {
	require.NoError(t, Init(SetDefaults()))

	Infow("structured info", "key1", "value1", "key2", 123)
	Debugw("structured debug", "user", "alice")
	Warnw("structured warn", "count", 5)
	Errorw("structured error", "error", "something went wrong")
	GetLogger().With("component", "test").Info("with fields")

	assert.NotNil(t, GetLogger())
}

func TestSync(t *testing.T) {
	require.NoError(t, Init(SetDefaults()))
	Info("test message")
	assert.NoError(t, Sync())
}

func TestConcurrentLogging(t *testing.T) {
	require.NoError(t, Init(SetDefaults()))

	done := make(chan struct{}, 50)
	for i := 0; i < 50; i++ {
		n := i
		go func() {
			Infow("concurrent message", "number", n)
			done <- struct{}{}
		}()
	}
	for range 50 {
		<-done
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"WARNING", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"FATAL", zapcore.FatalLevel},
		{"INVALID", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func BenchmarkInfow(b *testing.B) {
	_ = Init(SetDefaults())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Infow("benchmark message", "number", i)
	}
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, Init(&Conf{Output: "stdout", Level: "INFO"}))
	assert.Equal(t, "INFO", GetLevel())

	SetLevel("debug")
	assert.Equal(t, "DEBUG", GetLevel())
	assert.True(t, GetLogger().Desugar().Core().Enabled(zapcore.DebugLevel))

	SetLevel("bogus")
	assert.Equal(t, "INFO", GetLevel())
}
