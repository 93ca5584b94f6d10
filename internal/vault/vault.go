// internal/vault/vault.go
//
// Vault client for provider secrets.
//
// Context
// -------
// The gateway holds three shared secrets (Mailgun API key, Zoom signing
// key pair, CAPTCHA secret).  Config values written as
// "vault:<mount/path>#<key>" are resolved through this client at load
// time, keeping credentials out of flat files and the environment.
//
// The client is a thin wrapper over the HashiCorp SDK: KV-v2 reads plus a
// background self-renew ticker so a renewable token survives the process
// lifetime.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).

package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// RefPrefix marks a config value as a Vault reference.
const RefPrefix = "vault:"

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api *vault.Client
}

// New constructs a Vault client and starts a background token-renewal
// ticker tied to ctx.
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	c := &Client{api: apiCli}
	go c.renewLoop(ctx)
	return c, nil
}

// Resolve returns val unchanged unless it carries the RefPrefix, in which
// case the referenced KV-v2 key is fetched.
func (c *Client) Resolve(ctx context.Context, val string) (string, error) {
	if !IsRef(val) {
		return val, nil
	}
	ref := strings.TrimPrefix(val, RefPrefix)
	path, key, ok := strings.Cut(ref, "#")
	if !ok {
		return "", fmt.Errorf("vault ref %q: want vault:<mount/path>#<key>", val)
	}
	return c.getKV(ctx, path, key)
}

// IsRef reports whether val is a Vault reference.
func IsRef(val string) bool { return strings.HasPrefix(val, RefPrefix) }

// getKV fetches a single key from a KV-v2 secret.
func (c *Client) getKV(ctx context.Context, secretPath, key string) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}
	return sval, nil
}

// renewLoop renews the token on a fixed cadence.  A non-renewable token
// simply logs once per probe; secrets were already resolved at boot.
func (c *Client) renewLoop(ctx context.Context) {
	t := time.NewTicker(15 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		sec, err := c.api.Auth().Token().RenewSelf(0)
		if err != nil {
			zap.S().Warnw("vault token renew failed", "err", err)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			zap.S().Debugw("vault token is not renewable")
		}
	}
}

func splitMount(p string) (mount, rel string) {
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}
