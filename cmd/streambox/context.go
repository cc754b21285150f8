package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"syscall"
	"time"

	"streambox/internal/api"
	"streambox/internal/config"
)

type commandContext struct {
	addressFlag *string
	configFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(addressFlag, configFlag *string) *commandContext {
	return &commandContext{
		addressFlag: addressFlag,
		configFlag:  configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// apiBase resolves the daemon address, preferring the --address flag over
// the configured bind address.
func (c *commandContext) apiBase() (string, error) {
	if c.addressFlag != nil && strings.TrimSpace(*c.addressFlag) != "" {
		return "http://" + strings.TrimSpace(*c.addressFlag), nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return "http://" + cfg.Paths.APIBind, nil
}

func (c *commandContext) httpClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// getJSON issues a GET and decodes the JSON response into out.
func (c *commandContext) getJSON(ctx context.Context, path string, out any) error {
	base, err := c.apiBase()
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return wrapDialError(err, base)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	var payload api.ErrorResponse
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("daemon returned %s: %s", resp.Status, payload.Error)
	}
	return fmt.Errorf("daemon returned %s", resp.Status)
}

func wrapDialError(err error, base string) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon at %s: connection refused; verify streamboxd is running", base)
	}
	return fmt.Errorf("connect to daemon at %s: %w", base, err)
}
