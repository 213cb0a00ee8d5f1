package bookshelf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/bookshelf/internal/logging"
	"github.com/spf13/viper"
)

func resetFlag(cmdFlag string) {
	flag := rootCmd.PersistentFlags().Lookup(cmdFlag)
	if flag == nil {
		return
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestPersistentPreRunEUsesFlagValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "bookshelf.log")
	configPath := writeTempConfig(t, "{}")

	prevCfgFile := cfgFile
	cfgFile = configPath
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
	})
	t.Cleanup(func() { _ = logging.Close() })

	for _, name := range []string{"debug", "jsonMode", "libraryUrl", "archiveUrl", "logFile", "sessionFile", "timeout", "resultCount"} {
		resetFlag(name)
	}
	_ = rootCmd.PersistentFlags().Set("debug", "true")
	_ = rootCmd.PersistentFlags().Set("jsonMode", "true")
	_ = rootCmd.PersistentFlags().Set("libraryUrl", "http://lib.test:8000")
	_ = rootCmd.PersistentFlags().Set("archiveUrl", "http://arc.test:8001")
	_ = rootCmd.PersistentFlags().Set("timeout", "30")
	_ = rootCmd.PersistentFlags().Set("resultCount", "7")
	_ = rootCmd.PersistentFlags().Set("logFile", logPath)

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	if currentConfig == nil || currentConfig.ConfigPath != configPath {
		t.Fatalf("expected config loaded with path %s", configPath)
	}
	if !currentConfig.Debug || !currentConfig.JSONMode {
		t.Fatalf("expected flag values to flow into config: %+v", currentConfig)
	}
	if currentConfig.LibraryBaseURL() != "http://lib.test:8000" {
		t.Fatalf("expected libraryUrl set, got %s", currentConfig.LibraryBaseURL())
	}
	if currentConfig.TimeoutSeconds != 30 {
		t.Fatalf("expected timeout set, got %d", currentConfig.TimeoutSeconds)
	}
	if currentConfig.ResultCount() != 7 {
		t.Fatalf("expected resultCount set, got %d", currentConfig.ResultCount())
	}
}

func TestShowConfigCommandOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "bookshelf.log")
	configPath := writeTempConfig(t, "{}")

	prevCfgFile := cfgFile
	cfgFile = configPath
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
	})
	t.Cleanup(func() { _ = logging.Close() })

	for _, name := range []string{"debug", "jsonMode", "libraryUrl", "archiveUrl", "logFile", "sessionFile", "timeout", "resultCount"} {
		resetFlag(name)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--logFile", logPath, "show", "config"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	_, err := rootCmd.ExecuteC()
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Config file: "+configPath) {
		t.Fatalf("expected config file path in output, got %s", out)
	}
	if !strings.Contains(out, "Library URL:     http://127.0.0.1:8000") {
		t.Fatalf("expected default library URL in output, got %s", out)
	}
}

func TestListCommandsIncludesCoreCommands(t *testing.T) {
	var buf bytes.Buffer
	runListCommands(&buf, rootCmd)

	out := buf.String()
	for _, want := range []string{"ask", "chat", "upload", "books", "users"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in command list, got:\n%s", want, out)
		}
	}
}
