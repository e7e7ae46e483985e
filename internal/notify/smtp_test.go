// AngelaMos | 2026
// smtp_test.go

package notify

import (
	"bufio"
	"context"
	"crypto/tls"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/reviewboard/internal/config"
)

func TestTLSConfigNamesServer(t *testing.T) {
	sender := NewSMTPSender(config.SMTPConfig{
		Enabled: true,
		Host:    "mail.example.com",
		Port:    587,
		From:    "no-reply@example.com",
	}, "reviewboard")

	cfg := sender.tlsConfig()

	assert.Equal(t, "mail.example.com", cfg.ServerName,
		"handshake needs the server name for certificate verification")
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.False(t, cfg.InsecureSkipVerify)
}

// fakeSMTPServer speaks just enough SMTP for one delivery. It does not
// advertise STARTTLS, so the client takes the plaintext path.
func fakeSMTPServer(t *testing.T, ln net.Listener, received chan<- string) {
	t.Helper()

	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	write := func(line string) {
		_, _ = conn.Write([]byte(line + "\r\n"))
	}

	write("220 fake ESMTP ready")

	var body strings.Builder
	inData := false
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if inData {
			if line == "." {
				inData = false
				write("250 accepted")
				received <- body.String()
				continue
			}
			body.WriteString(line)
			body.WriteString("\r\n")
			continue
		}

		switch {
		case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
			write("250-fake")
			write("250 SIZE 1048576")
		case strings.HasPrefix(line, "MAIL FROM"):
			write("250 sender ok")
		case strings.HasPrefix(line, "RCPT TO"):
			write("250 recipient ok")
		case line == "DATA":
			write("354 go ahead")
			inData = true
		case line == "QUIT":
			write("221 bye")
			return
		default:
			write("250 ok")
		}
	}
}

func TestSendConfirmationCode(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan string, 1)
	go fakeSMTPServer(t, ln, received)

	port := ln.Addr().(*net.TCPAddr).Port
	sender := NewSMTPSender(config.SMTPConfig{
		Enabled:  true,
		Host:     "127.0.0.1",
		Port:     port,
		From:     "no-reply@example.com",
		FromName: "Reviewboard",
	}, "reviewboard")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = sender.SendConfirmationCode(ctx, "user@example.com", "123456")
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Contains(t, msg, "To: user@example.com")
		assert.Contains(t, msg, "Your confirmation code: 123456")
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
	}
}
