package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneybridge/moneybridge/config"
)

func TestSMTPMailerCreateMessage(t *testing.T) {
	m := NewSMTPMailer(config.AppConfig{SMTPFrom: "noreply@moneybridge.kr"})

	msg, err := m.CreateMessage("pb@example.com", "PB 가입 승인 안내", "승인되었습니다.")
	require.NoError(t, err)
	assert.Equal(t, "noreply@moneybridge.kr", msg.From)
	assert.Equal(t, "pb@example.com", msg.To)

	raw := string(msg.Bytes("MoneyBridge"))
	assert.True(t, strings.HasPrefix(raw, "From: MoneyBridge <noreply@moneybridge.kr>\r\n"))
	assert.Contains(t, raw, "Subject: =?UTF-8?b?")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n승인되었습니다."))

	_, err = m.CreateMessage("not-an-address", "s", "b")
	assert.Error(t, err)
}

func TestSMTPMailerRequiresConfig(t *testing.T) {
	_, err := NewSMTPMailer(config.AppConfig{}).CreateMessage("pb@example.com", "s", "b")
	assert.Error(t, err)

	m := NewSMTPMailer(config.AppConfig{SMTPFrom: "noreply@moneybridge.kr"})
	msg, err := m.CreateMessage("pb@example.com", "s", "b")
	require.NoError(t, err)
	assert.Error(t, m.Send(msg))
}
