package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// serverName is the key sfcdoc is registered under in agent configs.
const serverName = "sfcdoc"

// agentDef describes how to detect and configure one MCP client.
type agentDef struct {
	ID          string
	DisplayName string
	Binary      string            // CLI clients: binary on PATH, configured via `<binary> mcp add`
	DirMarker   string            // file clients: directory whose presence marks the client
	ConfigPath  string            // file clients: JSON config, relative to the project
	ServersKey  string            // JSON key holding the server map
	ExtraFields map[string]string // extra fields of the server entry
}

// Replaceable for testing.
var (
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
	runCommand   = func(w io.Writer, name string, args ...string) error {
		cmd := exec.Command(name, args...)
		cmd.Stdout = w
		cmd.Stderr = w
		return cmd.Run()
	}
)

var agentRegistry = []agentDef{
	{ID: "claude_code", DisplayName: "Claude Code", Binary: "claude"},
	{ID: "openai_codex", DisplayName: "OpenAI Codex", Binary: "codex"},
	{
		ID: "vscode_copilot", DisplayName: "VS Code Copilot",
		DirMarker: ".vscode", ConfigPath: filepath.Join(".vscode", "mcp.json"),
		ServersKey: "servers", ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor",
		DirMarker: ".cursor", ConfigPath: filepath.Join(".cursor", "mcp.json"),
		ServersKey: "mcpServers",
	},
}

func newSetupCmd(_ *app) *cobra.Command {
	var auto bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the sfcdoc MCP server with detected AI agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			executeSetup(cmd.InOrStdin(), cmd.OutOrStdout(), auto)
			return nil
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "configure every detected agent without prompting")
	return cmd
}

// detectAgents returns the agents available on this machine and project.
func detectAgents() []agentDef {
	var detected []agentDef
	for _, def := range agentRegistry {
		if def.Binary != "" {
			if _, err := lookPathFunc(def.Binary); err == nil {
				detected = append(detected, def)
			}
			continue
		}
		if _, err := statFunc(def.DirMarker); err == nil {
			detected = append(detected, def)
		}
	}
	return detected
}

func serverEntry(extra map[string]string) map[string]any {
	entry := map[string]any{
		"command": serverName,
		"args":    []any{"serve"},
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds the sfcdoc entry under serversKey of the existing
// JSON config. It returns nil, nil when sfcdoc is already configured.
func mergeServerEntry(existing []byte, serversKey string, extra map[string]string) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverName]; exists {
		return nil, nil
	}

	servers[serverName] = serverEntry(extra)
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// configureFileAgent merges the server entry into the agent's config file.
// It reports whether the file changed.
func configureFileAgent(def agentDef) (bool, error) {
	existing, err := os.ReadFile(def.ConfigPath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	merged, err := mergeServerEntry(existing, def.ServersKey, def.ExtraFields)
	if err != nil || merged == nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(def.ConfigPath), 0o755); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}
	return true, os.WriteFile(def.ConfigPath, merged, 0o644)
}

// promptYesNo prints a question and reads Y/n. Returns true for yes (default).
func promptYesNo(r *bufio.Scanner, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	if !r.Scan() {
		return true
	}
	answer := strings.TrimSpace(strings.ToLower(r.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

// executeSetup contains the testable core logic, parameterized on I/O.
func executeSetup(r io.Reader, w io.Writer, auto bool) {
	detected := detectAgents()
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported AI agents detected.")
		return
	}

	fmt.Fprintln(w, "Detected AI agents:")
	for _, def := range detected {
		fmt.Fprintf(w, "  * %s\n", def.DisplayName)
	}

	input := bufio.NewScanner(r)
	for _, def := range detected {
		if !auto && !promptYesNo(input, w, fmt.Sprintf("\n%s: add the sfcdoc MCP server? [Y/n]", def.DisplayName)) {
			fmt.Fprintln(w, "  skipped")
			continue
		}

		if def.Binary != "" {
			if err := runCommand(w, def.Binary, "mcp", "add", serverName, "--", serverName, "serve"); err != nil {
				fmt.Fprintf(w, "  ! %s: failed: %v\n", def.DisplayName, err)
				continue
			}
			fmt.Fprintf(w, "  + %s configured\n", def.DisplayName)
			continue
		}

		changed, err := configureFileAgent(def)
		switch {
		case err != nil:
			fmt.Fprintf(w, "  ! %s: failed: %v\n", def.DisplayName, err)
		case !changed:
			fmt.Fprintf(w, "  = %s already configured\n", def.DisplayName)
		default:
			fmt.Fprintf(w, "  + %s configured (%s)\n", def.DisplayName, def.ConfigPath)
		}
	}
}
