package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("report-1", "reports/file.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	reportID, path, parsedExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "report-1", reportID)
	require.Equal(t, "reports/file.csv", path)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("report-1", "reports/file.csv")
	require.NoError(t, err)

	_, _, _, err = signer.Parse("report-2"+token[len("report-1"):], false)
	require.Error(t, err)

	other := NewSignedURLSigner("different", time.Hour)
	_, _, _, err = other.Parse(token, false)
	require.Error(t, err)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Millisecond*10)
	token, _, err := signer.Generate("report-1", "reports/file.csv")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 20)

	_, _, _, err = signer.Parse(token, false)
	require.Error(t, err)

	reportID, path, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "report-1", reportID)
	require.Equal(t, "reports/file.csv", path)
}
