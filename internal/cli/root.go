package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/battlemap/pkg/config"
)

// loadConfig runs before every command: it resolves the config file, loads
// it over the defaults and attaches the logger to the command context.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	path, err := c.resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "path", path, "backend", cfg.Store.Backend)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.Path()
}
