package cmd

import (
	"path/filepath"

	"github.com/driftless-hq/driftless-sub001/internal/agent"
	"github.com/driftless-hq/driftless-sub001/internal/config"
)

// buildAgent loads the agent and facts configuration rooted at configDir and
// wires a fresh *agent.Agent against applyConfigPath, the apply task list
// the apply/run subcommands drive.
func buildAgent(configDir, applyConfigPath string, dryRun bool) (*agent.Agent, error) {
	agentCfg, err := config.LoadAgentConfig(configDir)
	if err != nil {
		return nil, err
	}
	factsCfg, err := config.LoadFactsConfig(filepath.Join(configDir, "facts.yaml"))
	if err != nil {
		return nil, err
	}
	if dryRun {
		agentCfg.DryRun = true
	}
	return agent.New(agentCfg, factsCfg, applyConfigPath, agentCfg.DryRun)
}
