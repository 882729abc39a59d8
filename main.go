package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"aidbg/config"
	"aidbg/engine"
	"aidbg/model"
	"aidbg/prompt"
	"aidbg/provider"
	"aidbg/repl"
	"aidbg/session"
	"aidbg/storage"
	"aidbg/tools"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	config.InitDebugLog(cfg.DataDir())

	prov, err := provider.NewProvider(provider.Config{
		Type:    provider.MapProviderIDToType(cfg.ProviderType),
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Provider configuration error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Set provider.type, provider.model and provider.api_key in settings.toml,")
		fmt.Fprintln(os.Stderr, "or use the AIDBG_PROVIDER / AIDBG_MODEL / AIDBG_API_KEY environment variables.")
		os.Exit(1)
	}

	store, err := newStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Storage error: %v\n", err)
		os.Exit(1)
	}

	sess := session.New(cfg.SessionID)
	persistence := session.NewPersistence(store)
	assembler := prompt.NewAssembler(model.ModeInteractive, cfg.CustomPrompt)

	console := repl.NewConsole(sess, persistence, cfg.Persist, os.Stdin, os.Stdout)

	registry := tools.NewRegistry()
	handle := &tools.Handle{Session: sess, WorkDir: cfg.WorkDir}

	registry.Register(tools.NewReadFile())
	registry.Register(tools.NewFindFile())
	registry.Register(tools.NewCurrentDirectory())
	registry.Register(tools.NewEvaluateCode())
	registry.Register(tools.NewInspectObject())
	registry.Register(tools.NewListMethods())
	registry.Register(tools.NewGetSource())
	registry.Register(tools.NewSessionHistory())

	eng := engine.New(prov, registry, sess, assembler, engine.Options{
		Emit:    console.Emit,
		Capture: console.Snapshot,
		Handle:  handle,
	})
	console.SetEngine(eng)

	// debugger-gated tools; available once a host debugger attaches
	driver := repl.NewDebugDriver(eng)
	handle.Debugger = driver
	registry.Register(tools.NewRunDebugCommand(driver))
	registry.Register(tools.NewContinueAnalysis(driver.Attached))

	ctx := context.Background()
	if err := console.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "aidbg: %v\n", err)
		os.Exit(1)
	}
}

func newStore(cfg *config.Config) (storage.Store, error) {
	dataDir := cfg.DataDir()
	switch cfg.Storage {
	case "sqlite":
		return storage.NewSQLiteStore(filepath.Join(dataDir, "sessions.db"))
	default:
		return storage.NewFileStore(filepath.Join(dataDir, "sessions"))
	}
}
