package email

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/textproto"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_HeadersAndAttachment(t *testing.T) {
	s := &Sender{From: "reports@example.com", FromName: "Acme Rentals"}

	m := s.build(Message{
		To:      "owner@example.com",
		Subject: "Monthly Report: 2024-02-01 to 2024-02-29",
		HTML:    "<h1>Report</h1>",
		Attachments: []Attachment{{
			Filename:    "payments-2024-02.csv",
			ContentType: "text/csv",
			Content:     []byte("Unit Number,Tenant Name\n"),
		}},
	})

	assert.Equal(t, []string{"owner@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Monthly Report: 2024-02-01 to 2024-02-29"}, m.GetHeader("Subject"))
	require.Len(t, m.GetHeader("From"), 1)
	assert.Contains(t, m.GetHeader("From")[0], "Acme Rentals")
	assert.Contains(t, m.GetHeader("From")[0], "<reports@example.com>")

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.True(t, strings.Contains(raw, `filename="payments-2024-02.csv"`))
	assert.True(t, strings.Contains(raw, "Content-Type: text/csv"))
}

func TestSend_CancelledContext(t *testing.T) {
	s := &Sender{Host: "127.0.0.1", Port: 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, Message{To: "owner@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

// greetingServer accepts SMTP connections, answers each with greeting and
// hangs up. It returns the sender pointed at it and the connection count.
func greetingServer(t *testing.T, greeting string) (*Sender, *atomic.Int32) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	var conns atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns.Add(1)
			conn.Write([]byte(greeting + "\r\n"))
			conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return &Sender{Host: "127.0.0.1", Port: addr.Port, From: "reports@example.com"}, &conns
}

func TestSendWithRetry_StopsAfterRetries(t *testing.T) {
	tests := []struct {
		name    string
		retries int
		want    int32
	}{
		{"no retries", 0, 1},
		{"two retries", 2, 3},
		{"negative treated as none", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, conns := greetingServer(t, "421 service not available")

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()

			err := s.SendWithRetry(ctx, Message{To: "owner@example.com"}, tt.retries)

			require.Error(t, err)
			assert.NotErrorIs(t, err, context.DeadlineExceeded)
			assert.Equal(t, tt.want, conns.Load())
		})
	}
}

func TestSendWithRetry_PermanentRejectionNotRetried(t *testing.T) {
	s, conns := greetingServer(t, "554 no SMTP service here")

	err := s.SendWithRetry(context.Background(), Message{To: "owner@example.com"}, 3)

	var reply *textproto.Error
	require.True(t, errors.As(err, &reply))
	assert.Equal(t, 554, reply.Code)
	assert.Equal(t, int32(1), conns.Load())
}

func TestSendWithRetry_RefusedPortReturns(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	s := &Sender{Host: "127.0.0.1", Port: port, From: "reports@example.com"}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	start := time.Now()
	err = s.SendWithRetry(ctx, Message{To: "owner@example.com"}, 0)

	require.Error(t, err)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
