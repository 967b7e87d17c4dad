package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/checkout-components/internal/sdk"
	"github.com/yourorg/checkout-components/internal/session"
)

// chdir switches into dir so that Load does not pick up a stray .env file.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CKO_PUBLIC_KEY", "pk_sbox_test")
	t.Setenv("CKO_SECRET_KEY", "sk_sbox_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, sdk.EnvironmentSandbox, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Address())
	assert.Equal(t, DefaultSandboxBaseURL, cfg.BaseURL(sdk.EnvironmentSandbox))
	assert.Equal(t, DefaultProductionBaseURL, cfg.BaseURL(sdk.EnvironmentProduction))
	assert.Equal(t, 10*time.Second, cfg.Payments.Timeout)
	assert.Equal(t, 5, cfg.Payments.BreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.Payments.BreakerOpenTimeout)
	assert.Equal(t, DefaultApplePayMerchant, cfg.Merchant.ApplePayMerchantID)
	assert.Equal(t, DefaultSuccessURL, cfg.Merchant.SuccessURL)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CKO_PUBLIC_KEY", "pk_prod")
	t.Setenv("CKO_SECRET_KEY", "sk_prod")
	t.Setenv("CKO_ENVIRONMENT", "Production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("CKO_PROCESSING_CHANNEL_ID", "pc_123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, sdk.EnvironmentProduction, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "invalid duration falls back to default")
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "pc_123", cfg.Merchant.ProcessingChannelID)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CKO_PUBLIC_KEY=pk_dotenv\nCKO_SECRET_KEY=sk_dotenv\n"), 0o600))
	t.Setenv("CKO_PUBLIC_KEY", "")
	t.Setenv("CKO_SECRET_KEY", "")
	os.Unsetenv("CKO_PUBLIC_KEY")
	os.Unsetenv("CKO_SECRET_KEY")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "pk_dotenv", cfg.Merchant.PublicKey)
}

func TestLoad_Validation(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CKO_PUBLIC_KEY", "")
	t.Setenv("CKO_SECRET_KEY", "sk")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CKO_PUBLIC_KEY is required")

	t.Setenv("CKO_PUBLIC_KEY", "pk")
	t.Setenv("CKO_ENVIRONMENT", "staging")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sandbox or production")
}

func TestFromBundle(t *testing.T) {
	cfg, err := FromBundle(map[string]string{
		BundlePublicKey:           "pk_bundle",
		BundleSecretKey:           "sk_bundle",
		BundleProcessingChannelID: "pc_bundle",
		BundleBaseURL:             "http://127.0.0.1:9999",
		"unknown":                 "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "pk_bundle", cfg.Merchant.PublicKey)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.BaseURL(sdk.EnvironmentSandbox))

	repo := cfg.Profiles()
	sandbox, err := repo.Get(sdk.EnvironmentSandbox)
	require.NoError(t, err)
	assert.Equal(t, "pc_bundle", sandbox.ProcessingChannelID)
	prod, err := repo.Get(sdk.EnvironmentProduction)
	require.NoError(t, err)
	assert.Equal(t, "pk_bundle", prod.PublicKey)

	_, err = FromBundle(map[string]string{BundlePublicKey: "pk"})
	assert.Error(t, err)
}

func TestConfig_Network(t *testing.T) {
	cfg, err := FromBundle(map[string]string{
		BundlePublicKey: "pk_sbox_bundle",
		BundleSecretKey: "sk_sbox_bundle",
	})
	require.NoError(t, err)

	network := cfg.Network()
	require.NotNil(t, network)
	assert.Equal(t, session.BreakerClosed, network.State("create_session"))
}
