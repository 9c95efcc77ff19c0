package logger

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

func TestNewZapLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkout.log")

	logger, err := NewZapLogger(Config{Level: "warn", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", zap.String("step", "load_config"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warn", entry["log.level"])
	assert.Equal(t, "load_config", entry["step"])
	assert.Contains(t, entry, "@timestamp")
}

func TestNewZapLogger_UnknownLevel(t *testing.T) {
	logger, err := NewZapLogger(Config{Level: "loud", Output: "stderr"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewZapLogger_BadFile(t *testing.T) {
	_, err := NewZapLogger(Config{Output: "file", FilePath: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.ErrorContains(t, err, "failed to open log file")
}

func TestGrpcUnaryServerInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 4242}})
	ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("x-request-id", "req-77"))

	tests := []struct {
		name    string
		err     error
		level   zapcore.Level
		message string
	}{
		{"ok", nil, zapcore.DebugLevel, "gRPC request completed"},
		{"unavailable", status.Error(codes.Unavailable, "db down"), zapcore.WarnLevel, "gRPC request failed"},
		{"internal", status.Error(codes.Internal, "boom"), zapcore.ErrorLevel, "gRPC request error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			interceptor := NewGrpcUnaryServerInterceptor(zap.New(core))

			resp, err := interceptor(ctx, "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return "resp", tt.err
			})

			assert.Equal(t, "resp", resp)
			assert.Equal(t, tt.err, err)
			require.Equal(t, 1, logs.Len())

			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, tt.message, entry.Message)

			fields := entry.ContextMap()
			assert.Equal(t, "grpc.health.v1.Health", fields["grpc.service"])
			assert.Equal(t, "Check", fields["grpc.method"])
			assert.Equal(t, "10.0.0.7:4242", fields["peer.address"])
			assert.Equal(t, "req-77", fields["request_id"])
		})
	}
}
