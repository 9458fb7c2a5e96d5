package smtp

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/moment-a/internal/config"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
)

func TestTransport_From(t *testing.T) {
	assert.Equal(t, "robot@example.com", NewTransport(config.SMTP{SMTPHost: "mail.example.com", SMTPUser: "robot@example.com"}, sl.Discard()).GetSMTPUser())
	assert.Equal(t, "noreply@mail.local", NewTransport(config.SMTP{SMTPHost: "mail.local"}, sl.Discard()).GetSMTPUser())
}

func TestTransport_ConnectPlain(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = conn.Write([]byte("220 localhost ESMTP ready\r\n"))
		buf := make([]byte, 512)
		_, _ = conn.Read(buf)
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	client, err := NewTransport(config.SMTP{SMTPHost: host, SMTPPort: port}, sl.Discard()).Connect()
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.NoError(t, client.Close())
}

func TestTransport_ConnectRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	_, err = NewTransport(config.SMTP{SMTPHost: host, SMTPPort: port}, sl.Discard()).Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp.Connect")
}
